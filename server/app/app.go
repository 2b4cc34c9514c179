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

package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zintix-labs/packlab/logger"
)

const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有 Component，收到停止信號或任一 Component 結束時，依序優雅關閉。
type App struct {
	comps   []Component
	onStop  []func()
	log     *slog.Logger
	timeout time.Duration
}

func New() *App {
	return &App{
		log:     logger.NewDefaultLogger(logger.ModeSilence),
		timeout: DefaultShutdownTimeout,
	}
}

// NewWith 建立 App 並直接註冊 Component。
func NewWith(comps ...Component) *App {
	a := New()
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// OnStop 註冊所有 Component 關閉後才執行的收尾（例如 drain 非同步日誌）。
func (a *App) OnStop(fn func()) {
	if fn != nil {
		a.onStop = append(a.onStop, fn)
	}
}

func (a *App) WithLogger(log *slog.Logger) *App {
	if log != nil {
		a.log = log
	}
	return a
}

func (a *App) WithShutdownTimeout(d time.Duration) *App {
	if d > 0 {
		a.timeout = d
	}
	return a
}

// Run 以 SIGINT / SIGTERM 作為停止信號執行 RunContext。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 阻塞直到 ctx 結束或任一 Component.Run 返回。
//   - ctx 結束：優雅關閉並回傳 nil
//   - Component 返回：優雅關閉並回傳該錯誤（http.ErrServerClosed 視為正常）
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.log.Warn("app.shutdown", slog.Any("err", err))
		}
	}
	for _, fn := range a.onStop {
		fn()
	}
}
