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

package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/server/httperr"
	"github.com/zintix-labs/packlab/server/netsvr/middleware"
	"github.com/zintix-labs/packlab/server/store"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

// PackHandler 負責 /api 底下的卡包、庫存與收藏端點。
type PackHandler struct {
	st  *store.Store
	log *slog.Logger
}

// NewPackHandler 需要已經 Vaild 過的 SvrCfg（Store 與 Log 皆已就緒）。
func NewPackHandler(sCfg *svrcfg.SvrCfg) (*PackHandler, error) {
	if sCfg == nil || sCfg.Store == nil {
		return nil, errs.NewFatal("store is required")
	}
	log := sCfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &PackHandler{st: sCfg.Store, log: log}, nil
}

// Packs GET /api/packs
func (h *PackHandler) Packs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, dto.PacksResponse{Packs: h.st.Catalog().Packs()})
}

// Inventory GET /api/inventory
//
// 回傳平鋪的快照；客戶端同時接受巢狀格式，這裡不需要包一層。
func (h *PackHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.st.Inventory(middleware.PlayerID(r)))
}

// Open POST /api/packs/open
func (h *PackHandler) Open(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeOpenRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	pid := middleware.PlayerID(r)
	results, err := h.st.Open(pid, req.PackID, req.IdempotencyKey)
	if err != nil {
		httperr.Log(h.log, "pack open failed", err)
		httperr.Errs(w, err)
		return
	}
	h.log.Debug("pack opened",
		slog.String("player", pid),
		slog.String("pack", req.PackID),
		slog.String("key", req.IdempotencyKey),
		slog.Int("results", len(results)),
	)
	writeJSON(w, dto.OpenResult{Results: results})
}

// Collect POST /api/collection/add
func (h *PackHandler) Collect(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeCollectRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	inv := h.st.Collect(middleware.PlayerID(r), req.ItemIDs)
	writeJSON(w, dto.CollectResponse{Inventory: inv})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
