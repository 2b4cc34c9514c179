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

// Package dto 定義客戶端與後端之間的 JSON 結構。
//
// 客戶端只讀取這些值，不修改欄位；需要排序或標記時在 reveal / present 層另外處理。
package dto

import (
	"encoding/json"
	"strings"
)

// CoinCurrency 是唯一會出現在餘額裡的貨幣代碼。
const CoinCurrency = "COIN"

// Rarity 稀有度
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Rarities 依「常見 → 稀有」排序，補位權重與報表都依此順序。
var Rarities = []Rarity{Common, Rare, Epic, Legendary}

func (r Rarity) Valid() bool {
	switch r {
	case Common, Rare, Epic, Legendary:
		return true
	default:
		return false
	}
}

// Title 首字大寫，例如 "legendary" → "Legendary"。
func (r Rarity) Title() string {
	s := string(r)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Price 卡包價格
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Pack 可購買的卡包；取得後不再變動，客戶端只操作第一個。
type Pack struct {
	ID    string `json:"id"`
	Price Price  `json:"price"`
}

// PacksResponse GET /api/packs
type PacksResponse struct {
	Packs []Pack `json:"packs"`
}

// ItemRef 收藏中的一筆物品
type ItemRef struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name,omitempty"`
	Rarity Rarity `json:"rarity,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Balance 各貨幣餘額
type Balance map[string]int64

// InventorySnapshot 玩家庫存快照。每次取得都整份取代，不做合併。
type InventorySnapshot struct {
	Balance Balance   `json:"balance"`
	Items   []ItemRef `json:"items"`
}

// EmptyInventory 回傳預設快照 {balance:{COIN:0}, items:[]}。
func EmptyInventory() InventorySnapshot {
	return InventorySnapshot{Balance: Balance{CoinCurrency: 0}, Items: []ItemRef{}}
}

// Coins 目前 COIN 餘額
func (s InventorySnapshot) Coins() int64 {
	return s.Balance[CoinCurrency]
}

// Owns 是否已持有該物品
func (s InventorySnapshot) Owns(itemID string) bool {
	for _, it := range s.Items {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}

// RevealItem 開包結果中的一張卡
type RevealItem struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	ImageURL string `json:"imageUrl"`
	IsDupe   bool   `json:"isDupe"`
}

// UnmarshalJSON 接受舊版欄位 artUrl 作為 imageUrl 的備援。
func (it *RevealItem) UnmarshalJSON(b []byte) error {
	type plain RevealItem
	aux := struct {
		*plain
		ArtURL string `json:"artUrl"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if it.ImageURL == "" {
		it.ImageURL = aux.ArtURL
	}
	return nil
}

// OpenRequest POST /api/packs/open
type OpenRequest struct {
	PackID         string `json:"packId"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// OpenResult 開包回應；Results 長度由後端決定，客戶端自行補齊 / 截斷成 5。
type OpenResult struct {
	Results []RevealItem `json:"results"`
}

// CollectRequest POST /api/collection/add
type CollectRequest struct {
	ItemIDs []string `json:"itemIds"`
}

// CollectResponse 後端可回傳巢狀的 {inventory: {...}}。
type CollectResponse struct {
	Inventory InventorySnapshot `json:"inventory"`
}

// ErrorBody 非 2xx 時的回應內容
type ErrorBody struct {
	Error string `json:"error"`
}
