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

// Package reveal 是開包流程的狀態機。
//
// 流程為 Idle → Opening → Revealing → Tray → Submitting → Idle，Preview 是 Tray 底下的子狀態。
// Apply 是純函數：輸入舊狀態與事件，回傳新狀態與需要由呼叫端執行的 Effect；
// 不做任何 I/O，也不修改輸入的 State。
package reveal

import (
	"slices"

	"github.com/zintix-labs/packlab/dto"
)

// CardCount 每個 Session 固定的卡片數
const CardCount = 5

// NoPreview Progress.Preview 的「沒有放大中卡片」值
const NoPreview = -1

// Phase 主流程階段
type Phase uint8

const (
	Idle Phase = iota
	Opening
	Revealing
	Tray
	Submitting
)

var phaseNames = [...]string{
	Idle:       "idle",
	Opening:    "opening",
	Revealing:  "revealing",
	Tray:       "tray",
	Submitting: "submitting",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Session 一次開包的結果。Results 為陣列型別，長度固定為 5。
type Session struct {
	IdempotencyKey string
	Results        [CardCount]dto.RevealItem
}

// Progress 翻牌進度。
//
// Revealed 依翻開順序記錄 index；因為只能翻最上面那張，Revealed 恆為 [0..k-1]，
// 目前的 top 就是 len(Revealed)。Preview 為 NoPreview 或 Revealed 中的某個 index。
type Progress struct {
	Revealed []int
	Preview  int
}

func emptyProgress() Progress {
	return Progress{Preview: NoPreview}
}

// Top 目前可翻開的 index；全部翻完時回傳 CardCount。
func (p Progress) Top() int { return len(p.Revealed) }

// IsRevealed index 是否已翻開
func (p Progress) IsRevealed(i int) bool { return slices.Contains(p.Revealed, i) }

// Previewing 是否有卡片放大中
func (p Progress) Previewing() bool { return p.Preview != NoPreview }

// Notice 暫時性提示訊息；ID 用來讓過期事件只清掉自己那一則。
type Notice struct {
	ID      uint64
	Message string
}

// State 狀態機完整狀態（值語意，Apply 回傳新的一份）。
type State struct {
	Phase     Phase
	Packs     []dto.Pack
	Inventory dto.InventorySnapshot
	// PendingKey 開包請求送出中的冪等鍵，僅 Opening 階段有值。
	PendingKey string
	Session    *Session
	Progress   Progress
	Notice     *Notice
	// Epoch 每次收藏成功 +1；背景庫存刷新帶著發起時的 Epoch 回來，不一致就丟棄。
	Epoch     uint64
	NoticeSeq uint64
}

// Initial 初始狀態：Idle、空庫存、沒有卡包。
func Initial() State {
	return State{
		Phase:     Idle,
		Inventory: dto.EmptyInventory(),
		Progress:  emptyProgress(),
	}
}

// Pack 回傳可操作的卡包（只有第一個）。
func (s State) Pack() (dto.Pack, bool) {
	if len(s.Packs) == 0 {
		return dto.Pack{}, false
	}
	return s.Packs[0], true
}

func (s State) CanStart() bool {
	_, ok := s.Pack()
	return s.Phase == Idle && ok
}

func (s State) CanCollect() bool {
	return s.Phase == Tray && !s.Progress.Previewing()
}

// RevealedItems 依翻開順序回傳已翻開的卡。
func (s State) RevealedItems() []dto.RevealItem {
	if s.Session == nil {
		return nil
	}
	out := make([]dto.RevealItem, 0, len(s.Progress.Revealed))
	for _, i := range s.Progress.Revealed {
		out = append(out, s.Session.Results[i])
	}
	return out
}

// CollectIDs 收藏時要送出的 itemId（翻開順序）。
func (s State) CollectIDs() []string {
	items := s.RevealedItems()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	return ids
}
