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

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "DEV": ModeDev, "prod": ModeProd, "json": ModeProd, "silence": ModeSilence, "off": ModeSilence}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if ModeProd.String() != "prod" {
		t.Fatalf("unexpected mode name")
	}
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(ModeProd, &buf).Info("hello", "k", 1)
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected json line, got %q", buf.String())
	}
	buf.Reset()
	NewLoggerTo(ModeProd, &buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("prod must drop debug")
	}
}

func TestSilenceDropsEverything(t *testing.T) {
	if NewDefaultLogger(ModeSilence).Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("silence must not be enabled")
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	buf := &syncBuf{}
	ah := NewAsyncHandler(slog.NewTextHandler(buf, nil), 64)
	lg := slog.New(ah).With("svc", "packlab")
	for i := 0; i < 10; i++ {
		lg.Info("line", "i", i)
	}
	ah.Close()
	if n := strings.Count(buf.String(), "svc=packlab"); n+int(ah.Dropped()) != 10 {
		t.Fatalf("expected 10 written or dropped, got %d written %d dropped", n, ah.Dropped())
	}
	lg.Info("after close")
	if strings.Contains(buf.String(), "after close") {
		t.Fatalf("records after close must be dropped")
	}
	ah.Close()
}
