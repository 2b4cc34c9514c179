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

package store

import (
	"testing"

	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/sdk/core"
)

func newStore(t *testing.T, coins int64) *Store {
	t.Helper()
	cat, err := catalog.FromDefs(&catalog.PackDef{
		ID:      "p1",
		Price:   dto.Price{Amount: 100, Currency: dto.CoinCurrency},
		Results: 3,
		Drops: []catalog.Drop{
			{ItemID: "a", Name: "A", Rarity: dto.Common, Weight: 1},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return New(cat, core.NewSeeded(1), coins)
}

func TestOpenIsIdempotent(t *testing.T) {
	s := newStore(t, 500)
	first, err := s.Open("u1", "p1", "k1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	again, err := s.Open("u1", "p1", "k1")
	if err != nil || len(again) != len(first) {
		t.Fatalf("replay must return same result: %v", err)
	}
	if got := s.Inventory("u1").Coins(); got != 400 {
		t.Fatalf("expected one charge, balance %d", got)
	}
	if _, err := s.Open("u1", "other", "k1"); !errs.IsServer(err) {
		t.Fatalf("reusing key for another pack must fail, got %v", err)
	}
	// 不同玩家同一個 key 互不影響
	if _, err := s.Open("u2", "p1", "k1"); err != nil {
		t.Fatalf("other player: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	s := newStore(t, 50)
	_, err := s.Open("u1", "p1", "k1")
	e, ok := errs.AsErr(err)
	if !ok || e.Status != 402 || errs.Display(err) != "insufficient balance" {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if _, err := s.Open("u1", "nope", "k2"); err != ErrUnknownPack {
		t.Fatalf("expected unknown pack, got %v", err)
	}
}

func TestCollectOnlyPending(t *testing.T) {
	s := newStore(t, 500)
	res, _ := s.Open("u1", "p1", "k1")
	if len(res) != 3 || res[0].IsDupe {
		t.Fatalf("unexpected results: %+v", res)
	}
	inv := s.Collect("u1", []string{"a", "a", "a", "a", "placeholder-1", "ghost"})
	if len(inv.Items) != 1 || inv.Items[0].Count != 3 || inv.Items[0].Name != "A" {
		t.Fatalf("unexpected inventory: %+v", inv.Items)
	}
	res, _ = s.Open("u1", "p1", "k2")
	if !res[0].IsDupe {
		t.Fatalf("owned items must be flagged as dupes")
	}
}

func TestGrant(t *testing.T) {
	s := newStore(t, 0)
	if s.Grant("u1", 250).Coins() != 250 || s.Grant("u1", -1000).Coins() != 0 {
		t.Fatalf("unexpected grant")
	}
}
