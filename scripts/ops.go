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

// ops 取代 Makefile 的小工具：go run ./scripts <task>
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// task 一個可執行的工作；filter 為 nil 時直接輸出。
type task struct {
	desc   string
	args   []string
	clean  bool
	filter func(line string) (show bool, color string)
}

var tasks = map[string]task{
	"test": {
		desc:   "all packages, only ok / FAIL lines",
		args:   []string{"test", "./...", "-cover", "-count=1"},
		clean:  true,
		filter: summaryOnly,
	},
	"test-all": {
		desc:  "all packages with coverage",
		args:  []string{"test", "./...", "-cover"},
		clean: true,
	},
	"test-detail": {
		desc:   "verbose, without [no test files]",
		args:   []string{"test", "./...", "-v", "-count=1"},
		clean:  true,
		filter: skipNoTests,
	},
	"test-race": {
		desc:   "controller / server / logger under the race detector",
		args:   []string{"test", "-race", "-count=1", "./controller/...", "./server/...", "./logger/...", "./cmd/..."},
		filter: summaryOnly,
	},
	"svr": {
		desc: "run the dev backend on :5808",
		args: []string{"run", "./cmd/svr"},
	},
	"sim": {
		desc: "filler distribution, 1M paddings",
		args: []string{"run", "./cmd/sim", "-n", "1000000"},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		printColor(colorYellow, fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := t.run(name); err != nil {
		printColor(colorRed, fmt.Sprintf("\n%s finished with errors: %v", name, err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].desc)
	}
}

func (t task) run(name string) error {
	printColor(colorGreen, "running "+name)
	if t.clean {
		// clean 失敗不影響後續
		if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
			printColor(colorRed, err.Error())
		}
	}

	cmd := exec.Command("go", t.args...)
	cmd.Stdin = os.Stdin
	if t.filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return cmd.Run()
	}

	// 2>&1，才看得到編譯錯誤
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		if show, color := t.filter(sc.Text()); show {
			printColor(color, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		printColor(colorRed, "scanner error: "+err.Error())
	}
	return cmd.Wait()
}

// summaryOnly 等同 grep -E '^(ok|FAIL)'，另外保留 build / setup 失敗
func summaryOnly(line string) (bool, string) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return true, colorGreen
	case strings.HasPrefix(line, "FAIL"):
		return true, colorRed
	case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
		return true, colorRed
	}
	return false, ""
}

func skipNoTests(line string) (bool, string) {
	if strings.Contains(line, "[no test files]") {
		return false, ""
	}
	if show, color := summaryOnly(line); show {
		return true, color
	}
	return true, ""
}

func printColor(color, msg string) {
	if color == "" {
		fmt.Println(msg)
		return
	}
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}
