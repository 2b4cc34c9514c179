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

// Package logger 組裝 packlab 用的 *slog.Logger。
//
// 客戶端（controller / packctl）與開發用後端（server）共用同一套模式：
//
//	ModeDev     text + debug，預設寫到 stderr
//	ModeProd    JSON + info，預設寫到 stdout
//	ModeSilence 全部丟棄（測試用）
//
// 也可以直接傳入 slog.Handler（NewLogger），與外部各種 Handler 組合。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/packlab/errs"
)

// LogMode 日誌模式
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

var modeNames = map[LogMode]string{
	ModeDev:     "dev",
	ModeProd:    "prod",
	ModeSilence: "silence",
}

func (m LogMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode 將 flag / 設定檔字串轉成 LogMode（不分大小寫，空字串視為 dev）。
func ParseMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "debug":
		return ModeDev, nil
	case "prod", "production", "json":
		return ModeProd, nil
	case "silence", "silent", "off", "none":
		return ModeSilence, nil
	default:
		return ModeDev, errs.Warnf("unknown log mode: %q", s)
	}
}

// NewDefaultLogger 依模式預設輸出建立 *slog.Logger。
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode, nil))
}

// NewLoggerTo 與 NewDefaultLogger 相同，但輸出到 w。
// packctl 用它把日誌導到檔案，避免干擾終端畫面。
func NewLoggerTo(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// NewLogger 把外部組好的 Handler 包成 *slog.Logger；h 為 nil 時退回 ModeDev。
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev, nil)
	}
	return slog.New(h)
}

// NewDefaultAsyncLogger 非同步版本，給開發用後端的請求路徑使用。
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(mode, nil), 8192))
}

// NewAsync 同 NewDefaultAsyncLogger，但把 *AsyncHandler 一併回傳，讓呼叫端在關閉時 drain。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode, nil), buf)
	return slog.New(ah), ah
}

func buildHandler(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeDev:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	default:
		if w == nil {
			w = os.Stdout
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
