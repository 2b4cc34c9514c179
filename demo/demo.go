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

// Package demo 組裝內建卡包，給 cmd/svr 與端對端測試直接使用。
package demo

import (
	"io/fs"

	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/demo/demo_configs"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

// New 載入內建卡包；extra 可追加其他來源（例如 os.DirFS），id 重複會失敗。
func New(extra ...fs.FS) (*catalog.Catalog, error) {
	return catalog.New(append([]fs.FS{demo_configs.FS}, extra...)...)
}

// NewServerConfig 以內建卡包建立 SvrCfg（非同步 dev logger）。
func NewServerConfig(extra ...fs.FS) (*svrcfg.SvrCfg, error) {
	cat, err := New(extra...)
	if err != nil {
		return nil, errs.Wrap(err, "load demo catalog")
	}
	lg, _ := logger.NewAsync(1024, logger.ModeDev)
	return &svrcfg.SvrCfg{
		Log:     lg,
		Catalog: cat,
	}, nil
}
