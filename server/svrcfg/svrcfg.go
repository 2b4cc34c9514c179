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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/packlab/catalog"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/sdk/core"
	"github.com/zintix-labs/packlab/server/store"
)

// SvrCfg 開發用後端的組裝參數。
type SvrCfg struct {
	Log        *slog.Logger
	Addr       string
	Catalog    *catalog.Catalog
	Store      *store.Store
	StartCoins int64
	// Seed 掉落抽樣的亂數種子，0 代表隨機。
	Seed int64
}

// Vaild 補齊預設值並檢查必要依賴。
func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Catalog == nil {
		return errs.NewFatal("catalog is required")
	}
	if sc.StartCoins <= 0 {
		sc.StartCoins = store.DefaultStartCoins
	}
	if sc.Store == nil {
		rng, err := sc.core()
		if err != nil {
			return errs.Wrap(err, "build rng")
		}
		sc.Store = store.New(sc.Catalog, rng, sc.StartCoins)
	}
	return nil
}

func (sc *SvrCfg) core() (*core.Core, error) {
	if sc.Seed != 0 {
		return core.NewSeeded(sc.Seed), nil
	}
	return core.NewRandom()
}
