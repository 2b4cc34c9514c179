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

// Package apiclient 是卡包後端的 HTTP 客戶端。
//
// 四個端點：
//
//	GET  /api/packs            卡包目錄
//	GET  /api/inventory        玩家庫存
//	POST /api/packs/open       開包（帶冪等鍵）
//	POST /api/collection/add   收藏
//
// 所有錯誤都是 *errs.E：連線失敗、逾時或回應讀不出來為 KindNetwork；
// 非 2xx 為 KindServer，Message 取回應的 error 欄位，沒有時為 "<METHOD> <PATH> <STATUS>"。
package apiclient

import (
	"context"

	"github.com/zintix-labs/packlab/dto"
)

const (
	PathPacks      = "/api/packs"
	PathInventory  = "/api/inventory"
	PathOpen       = "/api/packs/open"
	PathCollection = "/api/collection/add"

	// HeaderPlayerID 每個請求都帶上的玩家識別
	HeaderPlayerID = "X-Player-Id"
)

// API 控制器依賴的後端能力；測試可以換成假的實作。
type API interface {
	FetchCatalog(ctx context.Context) ([]dto.Pack, error)
	FetchInventory(ctx context.Context) (dto.InventorySnapshot, error)
	OpenPack(ctx context.Context, packID, idempotencyKey string) (dto.OpenResult, error)
	SubmitCollection(ctx context.Context, itemIDs []string) (dto.InventorySnapshot, error)
}
