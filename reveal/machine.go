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

package reveal

import (
	"slices"

	"github.com/zintix-labs/packlab/errs"
)

// Apply 套用事件。
//
// 事件在目前階段不合法時回傳 StateViolation（errs.IsViolation 為 true），
// 並原封不動地回傳 s；呼叫端應視為 no-op。
func Apply(s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case Loaded:
		s.Packs = e.Packs
		s.Inventory = e.Inventory
		return s, nil, nil

	case Start:
		if s.Phase != Idle {
			return s, nil, errs.Violationf("start rejected in %s", s.Phase)
		}
		pack, ok := s.Pack()
		if !ok {
			return s, nil, errs.NewViolation("start rejected: no pack loaded")
		}
		if e.Key == "" {
			return s, nil, errs.NewViolation("start rejected: empty idempotency key")
		}
		s.Phase = Opening
		s.PendingKey = e.Key
		s.Notice = nil
		return s, []Effect{OpenPack{PackID: pack.ID, Key: e.Key}}, nil

	case Opened:
		if s.Phase != Opening {
			return s, nil, errs.Violationf("opened rejected in %s", s.Phase)
		}
		s.Session = &Session{IdempotencyKey: s.PendingKey, Results: e.Items}
		s.PendingKey = ""
		s.Progress = emptyProgress()
		s.Phase = Revealing
		return s, []Effect{RefreshInventory{Epoch: s.Epoch}}, nil

	case OpenFailed:
		if s.Phase != Opening {
			return s, nil, errs.Violationf("open failure rejected in %s", s.Phase)
		}
		s.Phase = Idle
		s.PendingKey = ""
		var n Notice
		s, n = s.withNotice(e.Err)
		return s, []Effect{Notify{Notice: n}}, nil

	case Reveal:
		if s.Phase != Revealing {
			return s, nil, errs.Violationf("reveal rejected in %s", s.Phase)
		}
		if s.Progress.Previewing() {
			return s, nil, errs.NewViolation("reveal rejected while previewing")
		}
		if e.Index != s.Progress.Top() {
			return s, nil, errs.Violationf("reveal %d rejected: top is %d", e.Index, s.Progress.Top())
		}
		revealed := slices.Clone(s.Progress.Revealed)
		s.Progress = Progress{Revealed: append(revealed, e.Index), Preview: NoPreview}
		if len(s.Progress.Revealed) == CardCount {
			s.Phase = Tray
		}
		return s, nil, nil

	case Preview:
		if s.Phase != Tray {
			return s, nil, errs.Violationf("preview rejected in %s", s.Phase)
		}
		if !s.Progress.IsRevealed(e.Index) {
			return s, nil, errs.Violationf("preview %d rejected: not revealed", e.Index)
		}
		s.Progress.Preview = e.Index
		return s, nil, nil

	case Dismiss:
		if s.Phase != Tray || !s.Progress.Previewing() {
			return s, nil, errs.Violationf("dismiss rejected in %s", s.Phase)
		}
		s.Progress.Preview = NoPreview
		return s, nil, nil

	case Collect:
		if s.Phase != Tray {
			return s, nil, errs.Violationf("collect rejected in %s", s.Phase)
		}
		if s.Progress.Previewing() {
			return s, nil, errs.NewViolation("collect rejected while previewing")
		}
		s.Phase = Submitting
		s.Notice = nil
		return s, []Effect{SubmitCollection{ItemIDs: s.CollectIDs()}}, nil

	case Collected:
		if s.Phase != Submitting {
			return s, nil, errs.Violationf("collected rejected in %s", s.Phase)
		}
		s.Phase = Idle
		s.Inventory = e.Inventory
		s.Session = nil
		s.Progress = emptyProgress()
		s.Epoch++
		return s, nil, nil

	case CollectFailed:
		if s.Phase != Submitting {
			return s, nil, errs.Violationf("collect failure rejected in %s", s.Phase)
		}
		s.Phase = Tray
		var n Notice
		s, n = s.withNotice(e.Err)
		return s, []Effect{Notify{Notice: n}}, nil

	case InventoryRefreshed:
		// 過期的刷新直接丟棄，不算違規。
		if e.Epoch != s.Epoch {
			return s, nil, nil
		}
		s.Inventory = e.Inventory
		return s, nil, nil

	case Failed:
		var n Notice
		s, n = s.withNotice(e.Err)
		return s, []Effect{Notify{Notice: n}}, nil

	case NoticeExpired:
		if s.Notice != nil && s.Notice.ID == e.ID {
			s.Notice = nil
		}
		return s, nil, nil

	default:
		return s, nil, errs.Violationf("unknown event %T", ev)
	}
}

func (s State) withNotice(err error) (State, Notice) {
	msg := errs.Display(err)
	if msg == "" {
		msg = "request failed"
	}
	s.NoticeSeq++
	n := Notice{ID: s.NoticeSeq, Message: msg}
	s.Notice = &n
	return s, n
}
