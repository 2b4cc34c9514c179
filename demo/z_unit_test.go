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

package demo

import (
	"testing"
	"testing/fstest"
)

func TestNewLoadsEmbeddedPacks(t *testing.T) {
	cat, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	packs := cat.Packs()
	if len(packs) != 2 || packs[0].ID != "starter" || packs[1].ID != "lite" {
		t.Fatalf("unexpected packs: %+v", packs)
	}
	lite, ok := cat.Get("lite")
	if !ok || lite.Results != 3 {
		t.Fatalf("lite must return 3 results: %+v", lite)
	}
}

func TestNewServerConfigWithExtra(t *testing.T) {
	extra := fstest.MapFS{
		"promo.yaml": {Data: []byte("id: promo\norder: 2\nprice: {amount: 0}\ndrops:\n  - {item_id: promo-cat, rarity: rare, weight: 1}\n")},
	}
	sCfg, err := NewServerConfig(extra)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := sCfg.Vaild(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if _, ok := sCfg.Catalog.Get("promo"); !ok {
		t.Fatalf("extra pack not loaded")
	}
}

func TestNewRejectsDuplicate(t *testing.T) {
	dup := fstest.MapFS{
		"starter.yaml": {Data: []byte("id: starter\ndrops:\n  - {item_id: x, rarity: common, weight: 1}\n")},
	}
	if _, err := New(dup); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
