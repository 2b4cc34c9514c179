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
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zintix-labs/packlab/apiclient"
	"github.com/zintix-labs/packlab/config"
	"github.com/zintix-labs/packlab/controller"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/padding"
	"github.com/zintix-labs/packlab/playerid"
	"github.com/zintix-labs/packlab/present"
	"github.com/zintix-labs/packlab/sdk/core"
)

// packctl 終端機版的開包介面，搭配 cmd/svr 或任何相容的後端。
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfigFromFlags(os.Args[1:])
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	pid, err := playerid.Ensure(playerid.NewFileStore(cfg.PlayerFile))
	if err != nil {
		return err
	}
	api, err := apiclient.New(cfg.BaseURL, pid,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(log),
	)
	if err != nil {
		return err
	}

	opts := []controller.Option{
		controller.WithRenderer(present.NewTextRenderer(os.Stdout)),
		controller.WithLogger(log),
		controller.WithNoticeTTL(cfg.NoticeTTL),
	}
	if cfg.Seed != 0 {
		opts = append(opts, controller.WithPadder(padding.New(core.NewSeeded(cfg.Seed))))
	}
	c := controller.New(api, opts...)
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("player %s @ %s\n", api.PlayerID(), api.BaseURL())
	if err := c.Init(ctx); err != nil {
		// 目錄載入失敗時畫面已顯示提示，仍然讓使用者可以 quit
		log.Warn("packctl.init", slog.Any("err", err))
	}
	r := &repl{c: c, out: os.Stdout, log: log}
	return r.run(ctx, os.Stdin)
}

// loadConfigFromFlags 先讀設定檔，再以有指定的 flag 覆蓋。
func loadConfigFromFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("packctl", flag.ContinueOnError)
	path := fs.String("config", "", "yaml config file")
	baseURL := fs.String("base-url", "", "backend base url (default "+config.DefaultBaseURL+")")
	timeout := fs.Duration("timeout", 0, "per-request timeout")
	ttl := fs.Duration("notice-ttl", 0, "how long error notices stay visible")
	player := fs.String("player-file", "", "where the player id is persisted")
	logMode := fs.String("log-mode", "", "log mode: dev|prod|silence")
	logFile := fs.String("log-file", "", "write logs to this file instead of stderr")
	seed := fs.Int64("seed", 0, "seed for filler cards, 0 = random")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return cfg, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["base-url"] {
		cfg.BaseURL = *baseURL
	}
	if set["timeout"] {
		cfg.Timeout = *timeout
	}
	if set["notice-ttl"] {
		cfg.NoticeTTL = *ttl
	}
	if set["player-file"] {
		cfg.PlayerFile = *player
	}
	if set["log-mode"] {
		cfg.LogMode = *logMode
	}
	if set["log-file"] {
		cfg.LogFile = *logFile
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if err := cfg.Valid(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger 預設寫 stderr；指定 log_file 時寫檔，讓終端畫面保持乾淨。
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logger.NewDefaultLogger(cfg.Mode()), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewLoggerTo(cfg.Mode(), f), func() { _ = f.Close() }, nil
}
