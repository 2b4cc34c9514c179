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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind : 錯誤來源分類，讓呼叫端決定要「提示使用者」還是「安靜忽略」。
//
//   - KindNetwork        請求無法完成（連線失敗、逾時、回應無法讀取）。
//   - KindServer         後端回應非 2xx，Status / Message 來自回應。
//   - KindStateViolation 在目前階段不合法的操作，只拒絕、不提示。
type Kind uint8

const (
	KindNone Kind = iota
	KindNetwork
	KindServer
	KindStateViolation
)

var kindMap = map[Kind]string{
	KindNone:           "",
	KindNetwork:        "network",
	KindServer:         "server",
	KindStateViolation: "state",
}

func (k Kind) String() string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return ""
}

// E 是統一的錯誤型別。
// Message 為主訊息（可直接給使用者看）；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；Kind / Status 描述錯誤來源（Status 僅 KindServer 有意義）。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
	Status  int
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Kind != KindNone {
		base = fmt.Sprintf("errlv=%s kind=%s %s", ErrLv(e.ErrLv), e.Kind, e.Message)
	}
	if e.Status != 0 {
		base += fmt.Sprintf(" | status: %d", e.Status)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// NewNetwork 建立「請求無法完成」的錯誤；可恢復，由使用者重新操作即可。
func NewNetwork(cause error, msg string) *E {
	return &E{Message: msg, Cause: cause, ErrLv: Warn, Kind: KindNetwork}
}

// NewServer 建立「後端回應非 2xx」的錯誤；msg 為顯示給使用者的訊息。
func NewServer(status int, msg string) *E {
	return &E{Message: msg, ErrLv: Warn, Kind: KindServer, Status: status}
}

// NewViolation 建立「目前階段不允許此操作」的錯誤。
// 上層收到後應安靜拒絕（no-op），不可讓 UI 崩潰。
func NewViolation(msg string) *E {
	return &E{Message: msg, ErrLv: Log, Kind: KindStateViolation}
}

// Violationf 同 NewViolation，支援格式化。
func Violationf(format string, a ...any) *E {
	return NewViolation(fmt.Sprintf(format, a...))
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel / Kind 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv、Kind、Status（保持原本嚴重度與來源）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
//
// 建議使用方式：
//   - 若你已判斷該錯誤是「可預期且可處理」的情境，請直接建立一個 *E
//     （使用 New / NewWithExtra 並自行指定 ErrLv），而不要對其呼叫 Wrap。
func Wrap(cause error, msg string) *E {
	return WrapWithExtra(cause, msg, "")
}

// WrapWithExtra 使用給定的訊息與上下文包裝底層錯誤，規則同 Wrap。
func WrapWithExtra(cause error, msg string, extra string) *E {
	var e *E
	r := NewWithExtra(Fatal, msg, extra)
	if errors.As(cause, &e) {
		r.ErrLv = e.ErrLv
		r.Kind = e.Kind
		r.Status = e.Status
	}
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// KindOf 回傳錯誤鏈上第一個 *E 的 Kind；非本包錯誤回傳 KindNone。
func KindOf(err error) Kind {
	if e, ok := AsErr(err); ok {
		return e.Kind
	}
	return KindNone
}

func IsNetwork(err error) bool   { return KindOf(err) == KindNetwork }
func IsServer(err error) bool    { return KindOf(err) == KindServer }
func IsViolation(err error) bool { return KindOf(err) == KindStateViolation }

// Display 取得可直接顯示給使用者的訊息。
//
// 錯誤鏈上最內層帶有 Kind 的 *E 才是「原始事實」（例如後端回的 "insufficient balance"），
// 外層 Wrap 只是補上下文，不應蓋掉它。
func Display(err error) string {
	if err == nil {
		return ""
	}
	msg := ""
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if e, ok := cur.(*E); ok && e.Kind != KindNone && e.Message != "" {
			msg = e.Message
		}
	}
	if msg != "" {
		return msg
	}
	if e, ok := AsErr(err); ok && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
