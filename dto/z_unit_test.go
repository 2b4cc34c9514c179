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

package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeInventoryShapes(t *testing.T) {
	bodies := map[string]string{
		"flat":      `{"balance":{"COIN":500},"items":[{"itemId":"a1"}]}`,
		"inventory": `{"inventory":{"balance":{"COIN":500},"items":[{"itemId":"a1"}]}}`,
		"inv":       `{"inv":{"balance":{"COIN":500},"items":[{"itemId":"a1"}]}}`,
	}
	for name, body := range bodies {
		got, err := NormalizeInventory([]byte(body))
		if err != nil {
			t.Fatalf("[%s] unexpected error: %v", name, err)
		}
		if got.Coins() != 500 || len(got.Items) != 1 || got.Items[0].ItemID != "a1" {
			t.Fatalf("[%s] unexpected snapshot: %+v", name, got)
		}
	}
}

func TestNormalizeInventoryDefaults(t *testing.T) {
	for _, body := range []string{``, `null`, `{}`, `{"inventory":{}}`, `{"balance":{"GEM":3}}`} {
		got, err := NormalizeInventory([]byte(body))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", body, err)
		}
		if got.Coins() != 0 {
			t.Fatalf("%q: expected 0 coins, got %d", body, got.Coins())
		}
		if _, ok := got.Balance[CoinCurrency]; !ok {
			t.Fatalf("%q: COIN key must be present", body)
		}
		if got.Items == nil || len(got.Items) != 0 {
			t.Fatalf("%q: expected empty items, got %#v", body, got.Items)
		}
	}
}

func TestNormalizeInventoryRejectsGarbage(t *testing.T) {
	if _, err := NormalizeInventory([]byte(`[1,2`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestRevealItemArtURLFallback(t *testing.T) {
	var it RevealItem
	if err := json.Unmarshal([]byte(`{"itemId":"x","rarity":"epic","artUrl":"/art/x.png"}`), &it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ImageURL != "/art/x.png" || it.Rarity != Epic {
		t.Fatalf("unexpected item: %+v", it)
	}
	if err := json.Unmarshal([]byte(`{"itemId":"y","imageUrl":"/img/y.png","artUrl":"/art/y.png"}`), &it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ImageURL != "/img/y.png" {
		t.Fatalf("imageUrl must win over artUrl: %+v", it)
	}
}

func TestRarityTitle(t *testing.T) {
	if Legendary.Title() != "Legendary" || Common.Title() != "Common" {
		t.Fatalf("unexpected titles")
	}
	if Rarity("shiny").Valid() {
		t.Fatalf("unknown rarity must be invalid")
	}
}

func TestDecodeOpenRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/packs/open", strings.NewReader(`{"packId":"p1","idempotencyKey":"k1"}`))
	req, err := DecodeOpenRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.PackID != "p1" || req.IdempotencyKey != "k1" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeOpenRequestRejects(t *testing.T) {
	bodies := []string{
		`{"packId":"p1"}`,
		`{"idempotencyKey":"k"}`,
		`{"packId":"p1","idempotencyKey":"k","unknown":true}`,
		``,
	}
	for _, b := range bodies {
		r := httptest.NewRequest(http.MethodPost, "/api/packs/open", strings.NewReader(b))
		if _, err := DecodeOpenRequest(r); err == nil {
			t.Fatalf("expected error for body %q", b)
		}
	}
}

func TestDecodeCollectRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/collection/add", strings.NewReader(`{"itemIds":["a","b"]}`))
	req, err := DecodeCollectRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.ItemIDs) != 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
	r = httptest.NewRequest(http.MethodPost, "/api/collection/add", strings.NewReader(`{"itemIds":[]}`))
	if _, err := DecodeCollectRequest(r); err == nil {
		t.Fatalf("expected error for empty itemIds")
	}
}
