// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/sdk/core"
	"github.com/zintix-labs/packlab/sdk/sampler"
	"gopkg.in/yaml.v3"
)

const (
	DefaultResults = 5
	maxResults     = 10
)

// Drop 掉落表中的一項
type Drop struct {
	ItemID string     `yaml:"item_id" json:"item_id"`
	Name   string     `yaml:"name" json:"name"`
	Rarity dto.Rarity `yaml:"rarity" json:"rarity"`
	Weight int        `yaml:"weight" json:"weight"`
	Image  string     `yaml:"image" json:"image"`
}

// PackDef 一個卡包的完整定義
//
//	id: starter
//	order: 0
//	price: {amount: 100, currency: COIN}
//	results: 5        # 每次開包張數，可設少於 5 來模擬降級的後端
//	drops:
//	  - {item_id: ember-fox, name: Ember Fox, rarity: common, weight: 40, image: /img/ember-fox.png}
type PackDef struct {
	ID      string    `yaml:"id" json:"id"`
	Order   int       `yaml:"order" json:"order"`
	Price   dto.Price `yaml:"price" json:"price"`
	Results int       `yaml:"results" json:"results"`
	Drops   []Drop    `yaml:"drops" json:"drops"`

	table *sampler.AliasTable
}

// Valid 正規化並檢查定義，並建立掉落用的 alias table。
func (p *PackDef) Valid() error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return errs.NewFatal("pack id required")
	}
	if p.Price.Amount < 0 {
		return errs.NewFatal(fmt.Sprintf("pack %s: price must be >= 0", p.ID))
	}
	if p.Price.Currency == "" {
		p.Price.Currency = dto.CoinCurrency
	}
	if p.Results == 0 {
		p.Results = DefaultResults
	}
	if p.Results < 0 || p.Results > maxResults {
		return errs.NewFatal(fmt.Sprintf("pack %s: results must be in [1,%d]", p.ID, maxResults))
	}
	if len(p.Drops) == 0 {
		return errs.NewFatal(fmt.Sprintf("pack %s: drops required", p.ID))
	}
	weights := make([]int, len(p.Drops))
	seen := map[string]struct{}{}
	for i, d := range p.Drops {
		if strings.TrimSpace(d.ItemID) == "" {
			return errs.NewFatal(fmt.Sprintf("pack %s: drop[%d] item_id required", p.ID, i))
		}
		if _, ok := seen[d.ItemID]; ok {
			return errs.NewFatal(fmt.Sprintf("pack %s: duplicate item %s", p.ID, d.ItemID))
		}
		seen[d.ItemID] = struct{}{}
		if !d.Rarity.Valid() {
			return errs.NewFatal(fmt.Sprintf("pack %s: item %s has invalid rarity %q", p.ID, d.ItemID, d.Rarity))
		}
		if d.Weight <= 0 {
			return errs.NewFatal(fmt.Sprintf("pack %s: item %s weight must be > 0", p.ID, d.ItemID))
		}
		if d.Name == "" {
			p.Drops[i].Name = d.ItemID
		}
		weights[i] = d.Weight
	}
	t, err := sampler.BuildAliasTable(weights)
	if err != nil {
		return errs.Wrap(err, "pack "+p.ID)
	}
	p.table = t
	return nil
}

func (p *PackDef) Pack() dto.Pack {
	return dto.Pack{ID: p.ID, Price: p.Price}
}

// Draw 依權重抽出 Results 張（可重複）。
func (p *PackDef) Draw(c *core.Core) []Drop {
	out := make([]Drop, p.Results)
	for i := range out {
		out[i] = p.Drops[p.table.Pick(c)]
	}
	return out
}

func parseByExt(filename string, raw []byte) (*PackDef, error) {
	def := new(PackDef)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(def); err != nil {
			return nil, errs.Wrap(err, "yaml decode")
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(def); err != nil {
			return nil, errs.Wrap(err, "json decode")
		}
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported pack format: %q", filename))
	}
	if err := def.Valid(); err != nil {
		return nil, err
	}
	return def, nil
}
