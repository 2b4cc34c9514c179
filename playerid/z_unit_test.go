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

package playerid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestEnsureGeneratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "player.yaml")
	s := NewFileStore(path)
	id, err := Ensure(s)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	u, err := uuid.Parse(id)
	if err != nil || u.Version() != 4 {
		t.Fatalf("expected uuid v4, got %q", id)
	}
	again, err := Ensure(NewFileStore(path))
	if err != nil || again != id {
		t.Fatalf("expected same id, got %q %v", again, err)
	}
	b, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(b), Key+": ") {
		t.Fatalf("unexpected file content: %q", b)
	}
}

func TestFileStoreParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	_ = os.WriteFile(path, []byte("player_id: [oops"), 0o600)
	if _, err := Ensure(NewFileStore(path)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFileStoreBlankIDRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	_ = os.WriteFile(path, []byte("player_id: \"  \"\n"), 0o600)
	id, err := Ensure(NewFileStore(path))
	if err != nil || strings.TrimSpace(id) == "" {
		t.Fatalf("expected regenerated id, got %q %v", id, err)
	}
}

func TestMemoryStore(t *testing.T) {
	m := &MemoryStore{}
	a, _ := Ensure(m)
	b, _ := Ensure(m)
	if a == "" || a != b {
		t.Fatalf("memory store must keep id: %q %q", a, b)
	}
}
