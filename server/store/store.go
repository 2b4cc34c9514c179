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

// Package store 是開發用後端的記憶體狀態：每位玩家的錢包、收藏、開包紀錄與待領取物品。
//
// 開包以 (玩家, 冪等鍵) 去重：同一個鍵重送會拿到同一份結果且只扣一次款。
// 開包抽到的物品先放在 pending，呼叫 Collect 後才進入收藏。
package store

import (
	"net/http"
	"sync"

	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/sdk/core"
)

const DefaultStartCoins int64 = 500

var (
	ErrInsufficient = errs.NewServer(http.StatusPaymentRequired, "insufficient balance")
	ErrUnknownPack  = errs.NewServer(http.StatusNotFound, "unknown pack")
	ErrKeyReused    = errs.NewServer(http.StatusConflict, "idempotency key already used for another pack")
)

type Store struct {
	mu      sync.Mutex
	cat     *catalog.Catalog
	rng     *core.Core
	start   int64
	players map[string]*player
}

type player struct {
	coins   int64
	items   []dto.ItemRef
	opens   map[string]openRecord
	pending map[string]int
}

type openRecord struct {
	packID  string
	results []dto.RevealItem
}

// New 建立 Store；新玩家第一次出現時以 startCoins 開戶。
func New(cat *catalog.Catalog, rng *core.Core, startCoins int64) *Store {
	if startCoins < 0 {
		startCoins = 0
	}
	return &Store{
		cat:     cat,
		rng:     rng,
		start:   startCoins,
		players: map[string]*player{},
	}
}

func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// 呼叫端需持有 s.mu
func (s *Store) get(pid string) *player {
	p, ok := s.players[pid]
	if !ok {
		p = &player{
			coins:   s.start,
			items:   []dto.ItemRef{},
			opens:   map[string]openRecord{},
			pending: map[string]int{},
		}
		s.players[pid] = p
	}
	return p
}

func (p *player) snapshot() dto.InventorySnapshot {
	items := make([]dto.ItemRef, len(p.items))
	copy(items, p.items)
	return dto.InventorySnapshot{
		Balance: dto.Balance{dto.CoinCurrency: p.coins},
		Items:   items,
	}
}

// Inventory 玩家目前的庫存
func (s *Store) Inventory(pid string) dto.InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(pid).snapshot()
}

// Open 開包。同一個 key 重送回傳第一次的結果。
func (s *Store) Open(pid, packID, key string) ([]dto.RevealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.get(pid)

	if rec, ok := p.opens[key]; ok {
		if rec.packID != packID {
			return nil, ErrKeyReused
		}
		return append([]dto.RevealItem(nil), rec.results...), nil
	}

	def, ok := s.cat.Get(packID)
	if !ok {
		return nil, ErrUnknownPack
	}
	if def.Price.Currency == dto.CoinCurrency && p.coins < def.Price.Amount {
		return nil, ErrInsufficient
	}

	drops := def.Draw(s.rng)
	owned := dto.InventorySnapshot{Items: p.items}
	results := make([]dto.RevealItem, len(drops))
	for i, d := range drops {
		results[i] = dto.RevealItem{
			ItemID:   d.ItemID,
			Name:     d.Name,
			Rarity:   d.Rarity,
			ImageURL: d.Image,
			IsDupe:   owned.Owns(d.ItemID),
		}
		p.pending[d.ItemID]++
	}
	if def.Price.Currency == dto.CoinCurrency {
		p.coins -= def.Price.Amount
	}
	p.opens[key] = openRecord{packID: packID, results: results}
	return append([]dto.RevealItem(nil), results...), nil
}

// Collect 把待領取的物品放進收藏。不在 pending 的 id（例如客戶端補位卡）直接略過。
func (s *Store) Collect(pid string, itemIDs []string) dto.InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.get(pid)
	for _, id := range itemIDs {
		if p.pending[id] <= 0 {
			continue
		}
		p.pending[id]--
		if p.pending[id] == 0 {
			delete(p.pending, id)
		}
		p.add(s.cat, id)
	}
	return p.snapshot()
}

func (p *player) add(cat *catalog.Catalog, itemID string) {
	for i := range p.items {
		if p.items[i].ItemID == itemID {
			p.items[i].Count++
			return
		}
	}
	ref := dto.ItemRef{ItemID: itemID, Count: 1}
	if d, ok := cat.Item(itemID); ok {
		ref.Name, ref.Rarity = d.Name, d.Rarity
	}
	p.items = append(p.items, ref)
}

// Grant 直接加幣（開發用）。
func (s *Store) Grant(pid string, coins int64) dto.InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.get(pid)
	p.coins = max(p.coins+coins, 0)
	return p.snapshot()
}
