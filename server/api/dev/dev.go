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

// Package dev 提供本機開發用的輔助端點（不屬於正式 API）。
//
// Routes：
//   - GET  /dev/catalog ：完整卡包定義（含掉落表與權重）。
//   - POST /dev/grant   ：替 X-Player-Id 加幣，body {"coins": 500}。
//   - GET  /dev/filler  ：補位稀有度分佈模擬，?rounds=&workers=&seed=。
package dev

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/packlab"
	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/server/httperr"
	"github.com/zintix-labs/packlab/server/netsvr"
	"github.com/zintix-labs/packlab/server/netsvr/middleware"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

const (
	defaultRounds = 10_000
	// 避免單一請求卡住太久（仍屬 dev tooling）
	maxRounds  = 1_000_000
	maxWorkers = 16
)

// Register 註冊 dev routes；需要 sCfg 已 Vaild。
func Register(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Group("/dev", func(r netsvr.NetRouter) {
		r.Get("/catalog", devCatalog(sCfg))
		r.Get("/filler", devFiller)
		r.Post("/grant", middleware.Player(devGrant(sCfg)).ServeHTTP)
	})
}

type grantRequest struct {
	Coins int64 `json:"coins"`
}

func devCatalog(sCfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := sCfg.Store.Catalog()
		defs := make([]*catalog.PackDef, 0, len(cat.IDs()))
		for _, id := range cat.IDs() {
			if d, ok := cat.Get(id); ok {
				defs = append(defs, d)
			}
		}
		writeJSON(w, map[string]any{"packs": defs})
	}
}

func devGrant(sCfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := new(grantRequest)
		dec := json.NewDecoder(io.LimitReader(r.Body, 1<<10))
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			httperr.Errs(w, errs.Warnf("invalid json body: %v", err))
			return
		}
		if req.Coins == 0 {
			httperr.Errs(w, errs.NewWarn("coins is required"))
			return
		}
		writeJSON(w, sCfg.Store.Grant(middleware.PlayerID(r), req.Coins))
	}
}

func devFiller(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rounds, err := intParam(q.Get("rounds"), defaultRounds)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	workers, err := intParam(q.Get("workers"), 1)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := intParam(q.Get("seed"), 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if rounds > maxRounds {
		httperr.Errs(w, errs.Warnf("rounds must <= %d", maxRounds))
		return
	}
	rep, _, err := packlab.SimulateFiller(packlab.FillerSim{
		Rounds:  rounds,
		Workers: min(workers, maxWorkers),
		Seed:    int64(seed),
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, rep)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Warnf("invalid number %q", s)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
