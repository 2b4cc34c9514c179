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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/packlab/logger"
)

func TestLoadMissingFileUsesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected default, got %+v", cfg)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte("base_url: http://example.test/api//\ntimeout: 2s\nlog_mode: prod\nseed: 9\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.BaseURL != "http://example.test/api" || cfg.Timeout != 2*time.Second || cfg.Seed != 9 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.NoticeTTL != DefaultNoticeTTL || cfg.PlayerFile != DefaultPlayerFile {
		t.Fatalf("missing keys must keep defaults: %+v", cfg)
	}
	if cfg.Mode() != logger.ModeProd {
		t.Fatalf("unexpected mode")
	}
}

func TestParseRejects(t *testing.T) {
	for _, src := range []string{"unknown_key: 1\n", "log_mode: loud\n", "timeout: [\n"} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestValidNormalizes(t *testing.T) {
	cfg := Config{Timeout: -1, NoticeTTL: 0}
	if err := cfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if cfg.Timeout != DefaultTimeout || cfg.NoticeTTL != DefaultNoticeTTL || cfg.PlayerFile != DefaultPlayerFile {
		t.Fatalf("unexpected normalization: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packctl.yaml")
	_ = os.WriteFile(path, []byte("notice_ttl: 1500ms\n"), 0o600)
	cfg, err := Load(path)
	if err != nil || cfg.NoticeTTL != 1500*time.Millisecond {
		t.Fatalf("unexpected load: %+v %v", cfg, err)
	}
	if empty, err := Parse(nil); err != nil || empty != Default() {
		t.Fatalf("empty document must give default: %+v %v", empty, err)
	}
}
