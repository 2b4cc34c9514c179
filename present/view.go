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

// Package present 把 reveal.State 轉成畫面用的 View，並定義 Renderer 邊界。
//
// Build 是純函數；實際輸出（終端、網頁…）由 Renderer 實作決定。
package present

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/padding"
	"github.com/zintix-labs/packlab/reveal"
)

const (
	CTAOpen    = "Open Pack"
	CTAOpening = "Opening…"
	CTAReveal  = "Click top card"
	CTACollect = "Add to Collection"
	CTAAdding  = "Adding…"

	// 疊牌每張往下偏移 3px，最多 18px。
	stackStep   = 3
	stackMaxOff = 18

	noPrice = "Price: —"
)

// Card 一張卡在畫面上的樣子
type Card struct {
	Index       int // Session.Results 中的位置
	Position    int // Tray 中的 1-based 位置；疊牌中為 0
	ItemID      string
	Name        string
	Rarity      dto.Rarity
	Image       string
	IsDupe      bool
	Placeholder bool
	Top         bool // 疊牌最上面、可點擊
	Offset      int  // 疊牌垂直偏移（px）
	Active      bool // 放大中
}

// View 一次完整的畫面狀態
type View struct {
	Phase      reveal.Phase
	Balance    string
	Price      string
	CTA        string
	CTAEnabled bool
	// Stack 尚未翻開的卡，Stack[0] 為最上面那張。
	Stack []Card
	// Tray 已翻開的卡，依翻開順序。
	Tray    []Card
	Preview *Card
	Notice  string
	Items   []dto.ItemRef
}

// Build 由狀態產生 View。
func Build(s reveal.State) View {
	v := View{
		Phase:   s.Phase,
		Balance: "Balance: " + strconv.FormatInt(s.Inventory.Coins(), 10),
		Price:   noPrice,
		Items:   s.Inventory.Items,
	}
	if pack, ok := s.Pack(); ok {
		v.Price = "Price: " + strconv.FormatInt(pack.Price.Amount, 10) + " " + pack.Price.Currency
	}
	if s.Notice != nil {
		v.Notice = s.Notice.Message
	}

	switch s.Phase {
	case reveal.Idle:
		v.CTA, v.CTAEnabled = CTAOpen, s.CanStart()
	case reveal.Opening:
		v.CTA = CTAOpening
	case reveal.Revealing:
		v.CTA = CTAReveal
	case reveal.Tray:
		v.CTA, v.CTAEnabled = CTACollect, s.CanCollect()
	case reveal.Submitting:
		v.CTA = CTAAdding
	}

	if s.Session == nil {
		return v
	}

	for pos, idx := range s.Progress.Revealed {
		c := card(s.Session.Results[idx], idx)
		c.Position = pos + 1
		c.Active = s.Progress.Preview == idx
		v.Tray = append(v.Tray, c)
		if c.Active {
			pc := c
			v.Preview = &pc
		}
	}

	top := s.Progress.Top()
	n := reveal.CardCount - top
	for j := 0; j < n; j++ {
		idx := top + j
		c := card(s.Session.Results[idx], idx)
		c.Top = j == 0 && s.Phase == reveal.Revealing
		c.Offset = StackOffset(n, n-1-j)
		// 未翻開的卡不洩漏內容
		c.Name, c.Rarity, c.ItemID, c.IsDupe = "", "", "", false
		c.Image = padding.PlaceholderImage
		v.Stack = append(v.Stack, c)
	}
	return v
}

// StackOffset 疊牌中第 i 張（0 為最底）的垂直偏移：min((n-i-1)*3, 18)。
func StackOffset(n, i int) int {
	return min(max(n-i-1, 0)*stackStep, stackMaxOff)
}

func card(it dto.RevealItem, idx int) Card {
	return Card{
		Index:       idx,
		ItemID:      it.ItemID,
		Name:        it.Name,
		Rarity:      it.Rarity,
		Image:       ResolveImage(it),
		IsDupe:      it.IsDupe,
		Placeholder: padding.IsPlaceholder(it.ItemID),
	}
}

// ResolveImage 取得顯示用圖片：imageUrl（已含 artUrl 備援），沒有或指向 mock 圖時用本地預設圖。
func ResolveImage(it dto.RevealItem) string {
	u := strings.TrimSpace(it.ImageURL)
	if u == "" || isMock(u) {
		return padding.PlaceholderImage
	}
	return u
}

// isMock 以 mock/ 開頭（可帶前導 /，不分大小寫）或路徑中含 /mock/。
func isMock(u string) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimPrefix(u, "/")), "mock/") {
		return true
	}
	return strings.Contains(u, "/mock/")
}
