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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zintix-labs/packlab/errs"
)

const maxBodyBytes = 1 << 20 // 1MiB

// DecodeOpenRequest 會把 HTTP 請求解碼成 OpenRequest（後端使用）。
//
// 注意：
//   - 只做解碼與必填檢查；packId 是否存在、餘額是否足夠由上層決定。
//   - body 大小限制 1MiB，並開啟 DisallowUnknownFields()，未知欄位直接拒絕。
func DecodeOpenRequest(r *http.Request) (*OpenRequest, error) {
	req := new(OpenRequest)
	if err := decodeJSONBody(r, req); err != nil {
		return nil, err
	}
	req.PackID = strings.TrimSpace(req.PackID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if req.PackID == "" {
		return nil, errs.NewWarn("packId is required")
	}
	if req.IdempotencyKey == "" {
		return nil, errs.NewWarn("idempotencyKey is required")
	}
	return req, nil
}

// DecodeCollectRequest 會把 HTTP 請求解碼成 CollectRequest（後端使用）。
func DecodeCollectRequest(r *http.Request) (*CollectRequest, error) {
	req := new(CollectRequest)
	if err := decodeJSONBody(r, req); err != nil {
		return nil, err
	}
	if len(req.ItemIDs) == 0 {
		return nil, errs.NewWarn("itemIds is required")
	}
	return req, nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return errs.NewWarn("empty request body")
	}
	if r.Method != http.MethodPost {
		return errs.NewWarn(fmt.Sprintf("method %s not allowed", r.Method))
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewWarn("empty request body")
		}
		return errs.NewWarn(fmt.Sprintf("invalid json body: %v", err))
	}
	return nil
}
