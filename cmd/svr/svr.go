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
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/zintix-labs/packlab/demo"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/server"
	"github.com/zintix-labs/packlab/server/netsvr"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

// 本機開發用後端：內建卡包 + 可選的額外卡包目錄，包含 /dev 工具端點。
func main() {
	sCfg, err := loadConfigFromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := server.Run(sCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type config struct {
	Addr    string
	LogMode string
	LogBuf  int
	Seed    int64
	Coins   int64
	Packs   string
}

func loadConfigFromFlags(args []string) (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	fset := flag.NewFlagSet("svr", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", netsvr.DefaultAddr, "listen address")
	fset.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	fset.IntVar(&cfg.LogBuf, "log-buf", 4096, "async log queue size")
	fset.Int64Var(&cfg.Seed, "seed", 0, "drop rng seed, 0 = random")
	fset.Int64Var(&cfg.Coins, "coins", 0, "starting coins for new players (default 500)")
	fset.StringVar(&cfg.Packs, "packs", "", "extra directory of pack yaml/json files")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	var extra []fs.FS
	if cfg.Packs != "" {
		extra = append(extra, os.DirFS(cfg.Packs))
	}
	cat, err := demo.New(extra...)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(cfg.LogBuf, mode)
	return &svrcfg.SvrCfg{
		Log:        log,
		Addr:       cfg.Addr,
		Catalog:    cat,
		StartCoins: cfg.Coins,
		Seed:       cfg.Seed,
	}, nil
}
