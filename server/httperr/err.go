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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則：
//   - ctx timeout/cancel → 504/408
//   - *errs.E 帶 Status  → 直接使用（例如 402 insufficient balance）
//   - errs.Warn         → 400（請求/參數問題）
//   - 其他              → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if e, ok := errs.AsErr(err); ok {
		if e.Status >= 400 && e.Status < 600 {
			return e.Status
		}
		if e.ErrLv == errs.Warn {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// Errs 寫回 {"error": msg}；msg 取 errs.Display，讓客戶端可以直接顯示。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	Write(w, StatusCode(err), errs.Display(err))
}

// Write 以指定狀態碼寫回 JSON 錯誤。
func Write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorBody{Error: msg})
}

// Log 依狀態碼決定日誌等級；4xx 中只有 408/409/429 值得注意。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusConflict || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	default:
		log.Debug(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
