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

// Package catalog 載入開發用後端的卡包定義。
//
// 每個 YAML / JSON 檔描述一個卡包：價格、每次開包張數與掉落表。
// 多個 fs.FS 可以一起載入，但必須是平面目錄，檔名與卡包 id 都不可重複。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
)

var (
	ErrDupID   = errs.NewFatal("duplicate pack id")
	ErrDupItem = errs.NewFatal("duplicate item id")
)

// Catalog 已驗證的卡包集合；建立後唯讀，可跨 goroutine 共用。
type Catalog struct {
	byID  map[string]*PackDef
	items map[string]Drop
	order []string
}

// New 從一或多個 fs.FS 載入所有卡包定義。
func New(src ...fs.FS) (*Catalog, error) {
	mfs, err := newMultiFS(src...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	c := &Catalog{
		byID:  map[string]*PackDef{},
		items: map[string]Drop{},
	}
	for _, name := range mfs.Names() {
		srcFS, _ := mfs.GetFS(name)
		raw, err := fs.ReadFile(srcFS, name)
		if err != nil {
			return nil, errs.Wrap(err, "catalog read file error")
		}
		def, err := parseByExt(name, raw)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "catalog parse file error", name)
		}
		if err := c.add(def); err != nil {
			return nil, errs.WrapWithExtra(err, "catalog register error", name)
		}
	}
	if len(c.order) == 0 {
		return nil, errs.NewFatal("catalog has no packs")
	}
	return c, nil
}

// FromDefs 直接以程式內的定義建立（測試用）。
func FromDefs(defs ...*PackDef) (*Catalog, error) {
	c := &Catalog{byID: map[string]*PackDef{}, items: map[string]Drop{}}
	for _, d := range defs {
		if err := d.Valid(); err != nil {
			return nil, err
		}
		if err := c.add(d); err != nil {
			return nil, err
		}
	}
	if len(c.order) == 0 {
		return nil, errs.NewFatal("catalog has no packs")
	}
	return c, nil
}

func (c *Catalog) add(def *PackDef) error {
	if _, ok := c.byID[def.ID]; ok {
		return ErrDupID
	}
	for _, d := range def.Drops {
		if prev, ok := c.items[d.ItemID]; ok && prev != d {
			return ErrDupItem
		}
	}
	for _, d := range def.Drops {
		c.items[d.ItemID] = d
	}
	c.byID[def.ID] = def
	c.order = append(c.order, def.ID)
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.byID[c.order[i]], c.byID[c.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return nil
}

// Packs 依 Order、ID 排序的公開目錄。
func (c *Catalog) Packs() []dto.Pack {
	out := make([]dto.Pack, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Pack())
	}
	return out
}

func (c *Catalog) Get(id string) (*PackDef, bool) {
	d, ok := c.byID[strings.TrimSpace(id)]
	return d, ok
}

// Item 依 itemId 查掉落物（跨卡包）。
func (c *Catalog) Item(itemID string) (Drop, bool) {
	d, ok := c.items[itemID]
	return d, ok
}

func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty pack filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid pack filename: %q (must be a basename)", file))
	}
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid pack filename: %q (cannot start with '.')", file))
	}
	if !isPackFile(file) {
		return errs.NewFatal(fmt.Sprintf("invalid pack filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	return nil
}

func isPackFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
