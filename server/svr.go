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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/server/api"
	"github.com/zintix-labs/packlab/server/app"
	"github.com/zintix-labs/packlab/server/netsvr"
	"github.com/zintix-labs/packlab/server/svrcfg"
)

// Run 是開發用後端的組裝器與啟動入口。
//
// 它負責：
//  1. 驗證 SvrCfg（補齊 logger、Store）。
//  2. 建立監聽 sCfg.Addr 的 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 以 SIGINT / SIGTERM 為停止信號執行 app，回傳停止原因。
//
// Run 不綁定任何檔案路徑或環境變數；卡包目錄等依賴一律透過 SvrCfg 注入。
func Run(sCfg *svrcfg.SvrCfg) error {
	a, err := assemble(sCfg, nil)
	if err != nil {
		return err
	}
	return stopped(sCfg, a.Run())
}

// RunWithSvr 與 Run 相同，但允許注入自訂的 NetSvr（例如自己包裝的 adapter 或 listener）。
//
// 若 svr 是 ChiAdapter 則要求 Ready() 為 true，避免注入不完整的 server。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	a, err := assemble(sCfg, svr)
	if err != nil {
		return err
	}
	return stopped(sCfg, a.Run())
}

// RunContext 由 ctx 控制停止（不監聽信號）；svr 為 nil 時使用預設 ChiAdapter。
func RunContext(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	a, err := assemble(sCfg, svr)
	if err != nil {
		return err
	}
	return stopped(sCfg, a.RunContext(ctx))
}

func assemble(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) (*app.App, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("svr config is required")
	}
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if svr == nil {
		svr = netsvr.NewChiServer(sCfg.Addr)
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return nil, errs.NewFatal("default server is not ready")
	}

	// 註冊 Api
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, err
	}

	a := app.NewWith(svr).WithLogger(sCfg.Log)
	if ah, ok := sCfg.Log.Handler().(*logger.AsyncHandler); ok {
		a.OnStop(ah.Close)
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[packlab] listening on http://localhost" + s.Address())
	} else {
		sCfg.Log.Info("[packlab] listening")
	}
	return a, nil
}

func stopped(sCfg *svrcfg.SvrCfg, err error) error {
	if err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
	return err
}

// NewHandler 只組裝路由，不啟動 listener；給 httptest 或掛到既有服務使用。
func NewHandler(sCfg *svrcfg.SvrCfg) (http.Handler, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("svr config is required")
	}
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, err
	}
	return svr.Handler(), nil
}
