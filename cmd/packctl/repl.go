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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zintix-labs/packlab/controller"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/present"
)

const helpText = `commands:
  open          open the first pack
  reveal [n]    reveal the top card (n is 1-based; only the top card can be revealed)
  preview n     preview tray card n (1-based)
  dismiss       close the preview
  collect       add all five cards to the collection
  show          redraw, including the collection
  help          this text
  quit          exit
`

// repl 把一行指令轉成 Controller 操作。
type repl struct {
	c   *controller.Controller
	out io.Writer
	log *slog.Logger
}

// run 讀到 EOF 或 quit 為止。
func (r *repl) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(r.out, "> ")
	for sc.Scan() {
		quit, err := r.exec(ctx, sc.Text())
		if err != nil {
			fmt.Fprintln(r.out, err)
		}
		if quit {
			return nil
		}
		fmt.Fprint(r.out, "> ")
	}
	return sc.Err()
}

// exec 執行一行指令。
//
// 階段不允許的操作（StateViolation）安靜忽略；開包 / 收藏失敗已經以提示顯示在畫面上，
// 所以這裡只回傳使用者輸入本身的錯誤。
func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "open", "o":
		err = r.c.Start(ctx)
	case "reveal", "r":
		if len(args) == 0 {
			err = r.c.RevealTop()
			break
		}
		n, perr := position(args[0])
		if perr != nil {
			return false, perr
		}
		err = r.c.Reveal(n)
	case "preview", "p":
		if len(args) == 0 {
			return false, errs.NewWarn("usage: preview n")
		}
		n, perr := position(args[0])
		if perr != nil {
			return false, perr
		}
		err = r.c.Preview(n)
	case "dismiss", "d":
		err = r.c.Dismiss()
	case "collect", "c":
		err = r.c.Collect(ctx)
	case "show", "s":
		_, werr := io.WriteString(r.out, present.Text(r.c.View(), true))
		return false, werr
	case "help", "h", "?":
		_, werr := io.WriteString(r.out, helpText)
		return false, werr
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, errs.Warnf("unknown command %q (try help)", cmd)
	}

	if err != nil {
		if errs.IsViolation(err) {
			r.log.Debug("packctl.ignored", slog.String("cmd", cmd), slog.Any("err", err))
		} else {
			r.log.Debug("packctl.failed", slog.String("cmd", cmd), slog.Any("err", err))
		}
	}
	return false, nil
}

// position 把 1-based 的輸入轉成 0-based 索引。
func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errs.Warnf("invalid card number %q", s)
	}
	return n - 1, nil
}
