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

// Package controller 驅動開包流程：把使用者操作轉成 reveal 事件、執行 Effect（呼叫後端）、
// 並在每次狀態改變後交給 present.Renderer 輸出。
//
// 狀態只在 mu 底下修改；任何網路請求都在鎖外進行。Opening / Submitting 期間的其他操作
// 會被狀態機以 StateViolation 拒絕，所以不需要額外的「請求中」旗標。
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/packlab/apiclient"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
	"github.com/zintix-labs/packlab/padding"
	"github.com/zintix-labs/packlab/present"
	"github.com/zintix-labs/packlab/reveal"
	"github.com/zintix-labs/packlab/sdk/core"
	"golang.org/x/sync/errgroup"
)

const DefaultNoticeTTL = 4 * time.Second

type Controller struct {
	api       apiclient.API
	padder    *padding.Padder
	render    present.Renderer
	log       *slog.Logger
	newKey    func() string
	noticeTTL time.Duration

	mu      sync.Mutex
	state   reveal.State
	version uint64
	timers  map[uint64]*time.Timer
	closed  bool

	renderMu     sync.Mutex
	lastRendered uint64

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Controller)

func WithRenderer(r present.Renderer) Option {
	return func(c *Controller) { c.render = r }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPadder 指定補位策略（測試用固定 seed）。
func WithPadder(p *padding.Padder) Option {
	return func(c *Controller) {
		if p != nil {
			c.padder = p
		}
	}
}

// WithKeyFunc 替換冪等鍵產生器；預設為 UUID v4。
func WithKeyFunc(f func() string) Option {
	return func(c *Controller) {
		if f != nil {
			c.newKey = f
		}
	}
}

func WithNoticeTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.noticeTTL = d
		}
	}
}

// New 建立 Controller；呼叫端結束時必須呼叫 Close。
func New(api apiclient.API, opts ...Option) *Controller {
	bg, cancel := context.WithCancel(context.Background())
	c := &Controller{
		api:       api,
		log:       logger.NewDefaultLogger(logger.ModeSilence),
		newKey:    uuid.NewString,
		noticeTTL: DefaultNoticeTTL,
		state:     reveal.Initial(),
		timers:    make(map[uint64]*time.Timer),
		bg:        bg,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.padder == nil {
		c.padder = padding.New(randomCore())
	}
	return c
}

func randomCore() *core.Core {
	if c, err := core.NewRandom(); err == nil {
		return c
	}
	return core.NewSeeded(time.Now().UnixNano())
}

// State 目前狀態的快照。
func (c *Controller) State() reveal.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View 目前狀態的畫面。
func (c *Controller) View() present.View {
	return present.Build(c.State())
}

// Init 同時載入卡包目錄與庫存。
//
// 目錄失敗回傳錯誤（沒有卡包就無法開包）；庫存失敗只記錄，並以空庫存顯示。
func (c *Controller) Init(ctx context.Context) error {
	var (
		packs []dto.Pack
		inv   = dto.EmptyInventory()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.api.FetchCatalog(gctx)
		if err != nil {
			return errs.Wrap(err, "load catalog")
		}
		packs = p
		return nil
	})
	g.Go(func() error {
		snap, err := c.api.FetchInventory(gctx)
		if err != nil {
			c.log.Debug("controller.init.inventory", slog.Any("err", err))
			return nil
		}
		inv = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		c.log.Warn("controller.init", slog.Any("err", err))
		_, _ = c.dispatch(reveal.Failed{Err: err})
		return err
	}
	_, err := c.dispatch(reveal.Loaded{Packs: packs, Inventory: inv})
	return err
}

// Start 以新的冪等鍵開包。成功時卡片已補齊 / 截斷成 5 張並進入 Revealing。
func (c *Controller) Start(ctx context.Context) error {
	effs, err := c.dispatch(reveal.Start{Key: c.newKey()})
	if err != nil {
		return err
	}
	op, ok := findEffect[reveal.OpenPack](effs)
	if !ok {
		return errs.NewFatal("start produced no open effect")
	}

	res, err := c.api.OpenPack(ctx, op.PackID, op.Key)
	if err != nil {
		c.log.Warn("controller.open", slog.String("pack", op.PackID), slog.Any("err", err))
		_, _ = c.dispatch(reveal.OpenFailed{Err: err})
		return err
	}
	if n := len(res.Results); n != reveal.CardCount {
		c.log.Debug("controller.open.pad", slog.Int("results", n))
	}
	_, err = c.dispatch(reveal.Opened{Items: c.padder.Pad(res.Results)})
	return err
}

// Reveal 翻開 index；不是最上面那張時為 no-op（回傳 StateViolation）。
func (c *Controller) Reveal(index int) error {
	_, err := c.dispatch(reveal.Reveal{Index: index})
	return err
}

// RevealTop 翻開目前最上面那張。
func (c *Controller) RevealTop() error {
	return c.Reveal(c.State().Progress.Top())
}

func (c *Controller) Preview(index int) error {
	_, err := c.dispatch(reveal.Preview{Index: index})
	return err
}

func (c *Controller) Dismiss() error {
	_, err := c.dispatch(reveal.Dismiss{})
	return err
}

// Collect 送出 5 張已翻開的卡。失敗時回到 Tray 並保留進度，可直接重試。
func (c *Controller) Collect(ctx context.Context) error {
	effs, err := c.dispatch(reveal.Collect{})
	if err != nil {
		return err
	}
	sc, ok := findEffect[reveal.SubmitCollection](effs)
	if !ok {
		return errs.NewFatal("collect produced no submit effect")
	}

	inv, err := c.api.SubmitCollection(ctx, sc.ItemIDs)
	if err != nil {
		c.log.Warn("controller.collect", slog.Int("items", len(sc.ItemIDs)), slog.Any("err", err))
		_, _ = c.dispatch(reveal.CollectFailed{Err: err})
		return err
	}
	_, err = c.dispatch(reveal.Collected{Inventory: inv})
	return err
}

// Close 停止提示計時器、取消背景刷新並等待其結束。
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

// dispatch 套用事件、輸出畫面並執行非阻塞的 Effect；阻塞的 Effect 交回呼叫端。
func (c *Controller) dispatch(ev reveal.Event) ([]reveal.Effect, error) {
	c.mu.Lock()
	from := c.state.Phase
	next, effs, err := reveal.Apply(c.state, ev)
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("reveal.rejected", slog.String("event", reveal.Name(ev)), slog.String("phase", from.String()), slog.Any("err", err))
		return nil, err
	}
	c.state = next
	c.version++
	snap, ver := c.state, c.version
	c.mu.Unlock()

	if from != next.Phase {
		c.log.Debug("reveal.transition",
			slog.String("from", from.String()),
			slog.String("to", next.Phase.String()),
			slog.String("event", reveal.Name(ev)),
		)
	}
	c.renderState(snap, ver)

	for _, ef := range effs {
		switch e := ef.(type) {
		case reveal.Notify:
			c.scheduleExpiry(e.Notice.ID)
		case reveal.RefreshInventory:
			c.refreshInventory(e.Epoch)
		}
	}
	return effs, nil
}

func (c *Controller) renderState(s reveal.State, ver uint64) {
	if c.render == nil {
		return
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	// 較舊的快照不覆蓋較新的畫面
	if ver <= c.lastRendered {
		return
	}
	c.lastRendered = ver
	if err := c.render.Render(present.Build(s)); err != nil {
		c.log.Debug("controller.render", slog.Any("err", err))
	}
}

func (c *Controller) scheduleExpiry(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.timers[id] = time.AfterFunc(c.noticeTTL, func() {
		c.mu.Lock()
		delete(c.timers, id)
		closed := c.closed
		c.mu.Unlock()
		if !closed {
			_, _ = c.dispatch(reveal.NoticeExpired{ID: id})
		}
	})
}

// refreshInventory 背景刷新；失敗只記 debug，不打擾使用者。
func (c *Controller) refreshInventory(epoch uint64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		inv, err := c.api.FetchInventory(c.bg)
		if err != nil {
			c.log.Debug("controller.refresh", slog.Any("err", err))
			return
		}
		_, _ = c.dispatch(reveal.InventoryRefreshed{Inventory: inv, Epoch: epoch})
	}()
}

func findEffect[T reveal.Effect](effs []reveal.Effect) (T, bool) {
	for _, ef := range effs {
		if t, ok := ef.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
