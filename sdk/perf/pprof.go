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

// Package perf 把任意一段工作包上 pprof，輸出到 build/profiling。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/zintix-labs/packlab/errs"
)

// Dir pprof 檔案寫入路徑
const Dir = "build/profiling"

// Modes 支援的模式；空字串代表不開 profiling。
var Modes = []string{"cpu", "heap", "allocs"}

// Run 依 mode 決定要做哪一種 profiling，exe 一定會被執行一次。
//
// Usage like:
//
//	go run ./cmd/sim -p cpu
func Run(mode string, exe func()) (string, error) {
	return RunIn(Dir, mode, exe)
}

// RunIn 同 Run，但可指定輸出目錄；回傳寫出的檔案路徑（沒有 profiling 時為空字串）。
func RunIn(dir, mode string, exe func()) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "":
		exe()
		return "", nil
	case "cpu", "heap", "allocs":
	default:
		return "", errs.Warnf("unknown pprof mode %q (cpu|heap|allocs)", mode)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create pprof dir")
	}
	path := filepath.Join(dir, mode+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "create "+path)
	}
	defer f.Close()

	switch mode {
	case "cpu":
		// 也可拿來做 pgo 的 default.pgo
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile")
		}
		exe()
		pprof.StopCPUProfile()
	case "heap":
		// heap 是 in-use 快照，先 GC 讓 live objects 比較準
		exe()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return "", errs.Wrap(err, "write heap profile")
		}
	case "allocs":
		// 累積配置，需搭配 -alloc_space / -alloc_objects 查看
		exe()
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write allocs profile")
		}
	}
	return path, nil
}
