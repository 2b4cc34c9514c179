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

// Package padding 把後端回傳的開包結果整理成固定 5 張。
//
// 少於 5 張時補上補位卡（placeholder），多於 5 張時只取前 5 張。
// 補位卡只為了讓 5 格版面永遠成立，不代表任何實際取得的物品，也不是掉落機率模型。
package padding

import (
	"fmt"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/sdk/core"
	"github.com/zintix-labs/packlab/sdk/sampler"
)

// Size 每包固定張數
const Size = 5

// PlaceholderImage 補位卡共用的圖片
const PlaceholderImage = "./assets/card-front.png"

// PlaceholderPrefix 補位卡 itemId 前綴，完整格式為 placeholder-<n>（n 從 1 起算）。
const PlaceholderPrefix = "placeholder-"

// Weight 補位稀有度權重（相對機率）
type Weight struct {
	Rarity dto.Rarity
	Weight int
}

// DefaultWeights common 85 / rare 10 / epic 4 / legendary 1，總和 100。
var DefaultWeights = []Weight{
	{dto.Common, 85},
	{dto.Rare, 10},
	{dto.Epic, 4},
	{dto.Legendary, 1},
}

// Padder 依權重產生補位卡。不是 goroutine-safe（底層 core.Core 不是）。
type Padder struct {
	c       *core.Core
	weights []Weight
	raw     []int
}

// New 使用預設權重建立 Padder。
func New(c *core.Core) *Padder {
	return NewWithWeights(c, DefaultWeights)
}

// NewWithWeights 使用自訂權重建立 Padder；權重順序即累減順序。
func NewWithWeights(c *core.Core, weights []Weight) *Padder {
	raw := make([]int, len(weights))
	for i, w := range weights {
		raw[i] = w.Weight
	}
	return &Padder{c: c, weights: weights, raw: raw}
}

// Pad 回傳剛好 5 張：原結果照順序保留（超過的丟棄），不足的以補位卡接在後面。
// 不會修改 results 本身。
func (p *Padder) Pad(results []dto.RevealItem) [Size]dto.RevealItem {
	var out [Size]dto.RevealItem
	n := copy(out[:], results)
	for i := n; i < Size; i++ {
		out[i] = p.Filler(i - n + 1)
	}
	return out
}

// Filler 產生第 n 張補位卡（n 從 1 起算）。
func (p *Padder) Filler(n int) dto.RevealItem {
	rarity := p.Rarity()
	return dto.RevealItem{
		ItemID:   fmt.Sprintf("%s%d", PlaceholderPrefix, n),
		Name:     rarity.Title(),
		Rarity:   rarity,
		ImageURL: PlaceholderImage,
		IsDupe:   false,
	}
}

// Rarity 依權重抽一個稀有度。
func (p *Padder) Rarity() dto.Rarity {
	idx := sampler.Cumulative(p.c, p.raw)
	if idx < 0 {
		return dto.Common
	}
	return p.weights[idx].Rarity
}

// IsPlaceholder 判斷 itemId 是否為補位卡。
func IsPlaceholder(itemID string) bool {
	return len(itemID) > len(PlaceholderPrefix) && itemID[:len(PlaceholderPrefix)] == PlaceholderPrefix
}
