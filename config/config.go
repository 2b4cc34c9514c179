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

// Package config 讀取客戶端設定（YAML）。
//
//	base_url:    http://127.0.0.1:5808
//	timeout:     8s
//	notice_ttl:  4s
//	player_file: .packlab/player.yaml
//	log_mode:    dev
//	log_file:    ""
//	seed:        0
//
// 缺少的欄位沿用 Default()；命令列旗標再覆蓋檔案內容。
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:5808"
	DefaultTimeout    = 8 * time.Second
	DefaultNoticeTTL  = 4 * time.Second
	DefaultPlayerFile = ".packlab/player.yaml"
)

type Config struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	NoticeTTL  time.Duration `yaml:"notice_ttl"`
	PlayerFile string        `yaml:"player_file"`
	LogMode    string        `yaml:"log_mode"`
	// LogFile 非空時日誌寫到檔案（終端畫面留給 renderer）。
	LogFile string `yaml:"log_file"`
	// Seed 補位卡亂數種子，0 代表每次啟動隨機。
	Seed int64 `yaml:"seed"`
}

func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		NoticeTTL:  DefaultNoticeTTL,
		PlayerFile: DefaultPlayerFile,
		LogMode:    logger.ModeDev.String(),
	}
}

// Load 讀取 path；path 為空或檔案不存在時回傳 Default()。
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.Wrap(err, "read config")
	}
	return Parse(b)
}

// Parse 解析 YAML 內容並正規化；未知欄位視為錯誤。
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errs.Wrap(err, "parse config")
	}
	if err := cfg.Valid(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Valid 正規化並檢查設定；不合理的時間值退回預設。
func (c *Config) Valid() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.NoticeTTL <= 0 {
		c.NoticeTTL = DefaultNoticeTTL
	}
	if strings.TrimSpace(c.PlayerFile) == "" {
		c.PlayerFile = DefaultPlayerFile
	}
	if _, err := logger.ParseMode(c.LogMode); err != nil {
		return err
	}
	return nil
}

// Mode 已驗證過的 LogMode
func (c Config) Mode() logger.LogMode {
	m, _ := logger.ParseMode(c.LogMode)
	return m
}
