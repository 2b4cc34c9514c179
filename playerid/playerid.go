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

// Package playerid 保存本機玩家識別。
//
// 玩家識別只是一個不透明字串（UUID v4），第一次使用時產生並寫入 YAML 檔的 player_id 欄位，
// 之後每次啟動都讀回同一個值。
package playerid

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zintix-labs/packlab/errs"
	"gopkg.in/yaml.v3"
)

// Key YAML 中的固定欄位名稱
const Key = "player_id"

// Store 玩家識別的存放位置。
type Store interface {
	// Load 回傳已保存的識別；尚未保存時 ok 為 false。
	Load() (id string, ok bool, err error)
	Save(id string) error
}

// Ensure 讀取既有識別，沒有就產生一個新的 UUID v4 並保存。
func Ensure(s Store) (string, error) {
	id, ok, err := s.Load()
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.Save(id); err != nil {
		return "", err
	}
	return id, nil
}

type fileDoc struct {
	PlayerID string `yaml:"player_id"`
}

// FileStore 以 YAML 檔保存。
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (string, bool, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrap(err, "read player file")
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return "", false, errs.WrapWithExtra(err, "parse player file", f.Path)
	}
	id := strings.TrimSpace(doc.PlayerID)
	return id, id != "", nil
}

func (f *FileStore) Save(id string) error {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(err, "create player dir")
		}
	}
	b, err := yaml.Marshal(fileDoc{PlayerID: id})
	if err != nil {
		return errs.Wrap(err, "encode player file")
	}
	if err := os.WriteFile(f.Path, b, 0o600); err != nil {
		return errs.Wrap(err, "write player file")
	}
	return nil
}

// MemoryStore 只存在記憶體（測試用）。
type MemoryStore struct {
	mu sync.Mutex
	id string
}

func (m *MemoryStore) Load() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.id != "", nil
}

func (m *MemoryStore) Save(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}
