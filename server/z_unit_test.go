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

package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/packlab/apiclient"
	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/controller"
	"github.com/zintix-labs/packlab/demo"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/padding"
	"github.com/zintix-labs/packlab/reveal"
	"github.com/zintix-labs/packlab/sdk/core"
	"github.com/zintix-labs/packlab/server"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

func newBackend(t *testing.T, cat *catalog.Catalog, coins int64) *httptest.Server {
	t.Helper()
	if cat == nil {
		var err error
		if cat, err = demo.New(); err != nil {
			t.Fatalf("demo catalog: %v", err)
		}
	}
	h, err := server.NewHandler(&svrcfg.SvrCfg{
		Log:        logger.NewDefaultLogger(logger.ModeSilence),
		Catalog:    cat,
		StartCoins: coins,
		Seed:       11,
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, ts *httptest.Server, player string) *apiclient.Client {
	t.Helper()
	cl, err := apiclient.New(ts.URL+"/", player, apiclient.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return cl
}

func newController(t *testing.T, api apiclient.API) *controller.Controller {
	t.Helper()
	c := controller.New(api, controller.WithPadder(padding.New(core.NewSeeded(5))))
	t.Cleanup(c.Close)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func totalCount(inv dto.InventorySnapshot) int {
	n := 0
	for _, it := range inv.Items {
		n += it.Count
	}
	return n
}

func TestEndToEndOpenRevealCollect(t *testing.T) {
	ts := newBackend(t, nil, 500)
	c := newController(t, newClient(t, ts, "e2e-player"))

	s := c.State()
	if p, ok := s.Pack(); !ok || p.ID != "starter" || p.Price.Amount != 100 {
		t.Fatalf("unexpected pack: %+v", s.Packs)
	}
	if s.Inventory.Coins() != 500 {
		t.Fatalf("unexpected coins: %d", s.Inventory.Coins())
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s = c.State()
	if s.Phase != reveal.Revealing {
		t.Fatalf("expected revealing, got %s", s.Phase)
	}
	for i, it := range s.Session.Results {
		if padding.IsPlaceholder(it.ItemID) {
			t.Fatalf("starter returns 5 cards, slot %d must not be a filler", i)
		}
	}
	// 背景刷新帶回扣款後的餘額
	waitFor(t, func() bool { return c.State().Inventory.Coins() == 400 })

	for range reveal.CardCount {
		if err := c.RevealTop(); err != nil {
			t.Fatalf("reveal: %v", err)
		}
	}
	if err := c.Collect(context.Background()); err != nil {
		t.Fatalf("collect: %v", err)
	}
	s = c.State()
	if s.Phase != reveal.Idle || s.Inventory.Coins() != 400 || totalCount(s.Inventory) != 5 {
		t.Fatalf("unexpected final state: phase=%s inv=%+v", s.Phase, s.Inventory)
	}
}

func TestEndToEndDegradedBackendPads(t *testing.T) {
	def := &catalog.PackDef{
		ID:      "thin",
		Price:   dto.Price{Amount: 10},
		Results: 2,
		Drops:   []catalog.Drop{{ItemID: "thin-a", Rarity: dto.Rare, Weight: 1}},
	}
	cat, err := catalog.FromDefs(def)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ts := newBackend(t, cat, 100)
	c := newController(t, newClient(t, ts, "thin-player"))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	res := c.State().Session.Results
	if res[0].ItemID != "thin-a" || res[1].ItemID != "thin-a" {
		t.Fatalf("server cards must come first: %+v", res)
	}
	for i := 2; i < reveal.CardCount; i++ {
		if res[i].ItemID != padding.PlaceholderPrefix+string(rune('0'+i-1)) {
			t.Fatalf("slot %d: unexpected filler %q", i, res[i].ItemID)
		}
	}
	for range reveal.CardCount {
		if err := c.RevealTop(); err != nil {
			t.Fatalf("reveal: %v", err)
		}
	}
	if err := c.Collect(context.Background()); err != nil {
		t.Fatalf("collect: %v", err)
	}
	// 補位卡不會進收藏
	inv := c.State().Inventory
	if len(inv.Items) != 1 || inv.Items[0].Count != 2 || inv.Coins() != 90 {
		t.Fatalf("unexpected inventory: %+v", inv)
	}
}

func TestEndToEndInsufficientBalance(t *testing.T) {
	ts := newBackend(t, nil, 50)
	c := newController(t, newClient(t, ts, "poor-player"))

	err := c.Start(context.Background())
	if !errs.IsServer(err) {
		t.Fatalf("expected server error, got %v", err)
	}
	if e, _ := errs.AsErr(err); e.Status != http.StatusPaymentRequired {
		t.Fatalf("unexpected status: %+v", e)
	}
	s := c.State()
	if s.Phase != reveal.Idle || s.Notice == nil || s.Notice.Message != "insufficient balance" {
		t.Fatalf("expected idle with notice: %+v", s)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ts := newBackend(t, nil, 500)
	cl := newClient(t, ts, "idem-player")
	ctx := context.Background()

	a, err := cl.OpenPack(ctx, "starter", "key-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := cl.OpenPack(ctx, "starter", "key-1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !slices.Equal(a.Results, b.Results) {
		t.Fatalf("same key must return same results")
	}
	inv, err := cl.FetchInventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Coins() != 400 {
		t.Fatalf("charged more than once: %d", inv.Coins())
	}

	_, err = cl.OpenPack(ctx, "lite", "key-1")
	if e, ok := errs.AsErr(err); !ok || e.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	_, err = cl.OpenPack(ctx, "nope", "key-2")
	if e, ok := errs.AsErr(err); !ok || e.Status != http.StatusNotFound || errs.Display(err) != "unknown pack" {
		t.Fatalf("expected 404 unknown pack, got %v", err)
	}
}

func TestPlayersAreIsolated(t *testing.T) {
	ts := newBackend(t, nil, 500)
	ctx := context.Background()
	a, b := newClient(t, ts, "alice"), newClient(t, ts, "bob")
	if _, err := a.OpenPack(ctx, "starter", "k"); err != nil {
		t.Fatalf("open: %v", err)
	}
	inv, err := b.FetchInventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Coins() != 500 || len(inv.Items) != 0 {
		t.Fatalf("bob must be untouched: %+v", inv)
	}
}

func TestRawRoutes(t *testing.T) {
	ts := newBackend(t, nil, 500)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status: %d", resp.StatusCode)
	}

	// 缺 X-Player-Id
	resp, err = http.Get(ts.URL + "/api/packs")
	if err != nil {
		t.Fatalf("packs: %v", err)
	}
	var body dto.ErrorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body.Error, apiclient.HeaderPlayerID) {
		t.Fatalf("unexpected response: %d %+v", resp.StatusCode, body)
	}

	// 未知欄位
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/packs/open", strings.NewReader(`{"packId":"starter","idempotencyKey":"k","x":1}`))
	req.Header.Set(apiclient.HeaderPlayerID, "raw")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field must be 400, got %d", resp.StatusCode)
	}
}

func TestDevRoutes(t *testing.T) {
	ts := newBackend(t, nil, 0)
	cl := newClient(t, ts, "dev-player")

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/dev/grant", strings.NewReader(`{"coins":250}`))
	req.Header.Set(apiclient.HeaderPlayerID, "dev-player")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("grant status: %d", resp.StatusCode)
	}
	inv, err := cl.FetchInventory(context.Background())
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	// StartCoins 0 會被補成預設值
	if inv.Coins() != 500+250 {
		t.Fatalf("unexpected coins: %d", inv.Coins())
	}

	resp, err = http.Get(ts.URL + "/dev/filler?rounds=200&workers=2&seed=9")
	if err != nil {
		t.Fatalf("filler: %v", err)
	}
	var rep struct {
		Summary struct {
			Draws int
			Seed  int64
		}
	}
	_ = json.NewDecoder(resp.Body).Decode(&rep)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || rep.Summary.Draws != 1000 || rep.Summary.Seed != 9 {
		t.Fatalf("unexpected filler report: %d %+v", resp.StatusCode, rep)
	}

	resp, err = http.Get(ts.URL + "/dev/filler?rounds=abc")
	if err != nil {
		t.Fatalf("filler: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad rounds must be 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/dev/catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var cat struct {
		Packs []catalog.PackDef `json:"packs"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&cat)
	resp.Body.Close()
	if len(cat.Packs) != 2 || len(cat.Packs[0].Drops) == 0 {
		t.Fatalf("unexpected dev catalog: %+v", cat)
	}
}

func TestRunContextStops(t *testing.T) {
	cat, err := demo.New()
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.RunContext(ctx, &svrcfg.SvrCfg{
			Log:     logger.NewDefaultLogger(logger.ModeSilence),
			Addr:    "127.0.0.1:0",
			Catalog: cat,
		}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
