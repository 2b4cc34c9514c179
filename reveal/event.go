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

package reveal

import "github.com/zintix-labs/packlab/dto"

// Event 狀態機輸入。只有本包定義的型別實作。
type Event interface {
	eventName() string
}

// Loaded 目錄與庫存載入完成；任何階段都可套用。
type Loaded struct {
	Packs     []dto.Pack
	Inventory dto.InventorySnapshot
}

// Start 使用者按下開包；Key 必須是這次操作新產生的冪等鍵。
type Start struct{ Key string }

// Opened 開包成功，Items 已經補位或截斷成 5 張。
type Opened struct{ Items [CardCount]dto.RevealItem }

type OpenFailed struct{ Err error }

// Reveal 翻開 Index；只接受目前最上面那張。
type Reveal struct{ Index int }

// Preview 放大 Index；只在 Tray 且該卡已翻開時接受。
type Preview struct{ Index int }

type Dismiss struct{}

type Collect struct{}

// Collected 收藏成功，Inventory 為後端回傳的權威快照。
type Collected struct{ Inventory dto.InventorySnapshot }

type CollectFailed struct{ Err error }

// InventoryRefreshed 背景刷新結果；Epoch 為發起刷新時的 State.Epoch。
type InventoryRefreshed struct {
	Inventory dto.InventorySnapshot
	Epoch     uint64
}

type NoticeExpired struct{ ID uint64 }

// Failed 狀態機之外的失敗（例如初始載入），只顯示提示，不改變階段。
type Failed struct{ Err error }

func (Loaded) eventName() string             { return "loaded" }
func (Start) eventName() string              { return "start" }
func (Opened) eventName() string             { return "opened" }
func (OpenFailed) eventName() string         { return "open_failed" }
func (Reveal) eventName() string             { return "reveal" }
func (Preview) eventName() string            { return "preview" }
func (Dismiss) eventName() string            { return "dismiss" }
func (Collect) eventName() string            { return "collect" }
func (Collected) eventName() string          { return "collected" }
func (CollectFailed) eventName() string      { return "collect_failed" }
func (InventoryRefreshed) eventName() string { return "inventory_refreshed" }
func (NoticeExpired) eventName() string      { return "notice_expired" }
func (Failed) eventName() string             { return "failed" }

// Name 事件名稱（給日誌用）
func Name(ev Event) string {
	if ev == nil {
		return ""
	}
	return ev.eventName()
}

// Effect 需要呼叫端執行的副作用。
type Effect interface {
	effectName() string
}

// OpenPack 呼叫開包 API。
type OpenPack struct {
	PackID string
	Key    string
}

// SubmitCollection 呼叫收藏 API，ItemIDs 依翻開順序。
type SubmitCollection struct{ ItemIDs []string }

// RefreshInventory 背景刷新庫存，結果以 InventoryRefreshed{Epoch} 回送。
type RefreshInventory struct{ Epoch uint64 }

// Notify 顯示暫時提示，呼叫端負責在到期時送 NoticeExpired。
type Notify struct{ Notice Notice }

func (OpenPack) effectName() string         { return "open_pack" }
func (SubmitCollection) effectName() string { return "submit_collection" }
func (RefreshInventory) effectName() string { return "refresh_inventory" }
func (Notify) effectName() string           { return "notify" }

// EffectName 副作用名稱（給日誌用）
func EffectName(ef Effect) string {
	if ef == nil {
		return ""
	}
	return ef.effectName()
}
