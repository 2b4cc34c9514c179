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

package api

import (
	"log/slog"
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/zintix-labs/packlab/server/api/dev"
	v1 "github.com/zintix-labs/packlab/server/api/v1"
	"github.com/zintix-labs/packlab/server/netsvr"
	"github.com/zintix-labs/packlab/server/netsvr/middleware"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

// RegisterRoutes 註冊；sCfg 需先 Vaild。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	svr.Get("/healthz", healthz)      // 2. 存活檢查
	dev.Register(svr, sCfg)           // 3. 開發者工具
	return registerPackAPI(svr, sCfg) // 4. 註冊卡包 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(chimid.CleanPath)
	svr.Use(middleware.Compression)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// 註冊 /api；所有端點都需要 X-Player-Id
func registerPackAPI(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewPackHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/api", func(r netsvr.NetRouter) {
		r.Use(middleware.Player)
		r.Get("/packs", h.Packs)
		r.Get("/inventory", h.Inventory)
		r.Post("/packs/open", h.Open)
		r.Post("/collection/add", h.Collect)
	})
	return nil
}
