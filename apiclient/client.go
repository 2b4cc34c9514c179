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

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/logger"
)

const (
	DefaultTimeout = 8 * time.Second
	maxBodyBytes   = 4 << 20
)

var _ API = (*Client)(nil)

// Client 實作 API。可跨 goroutine 共用。
type Client struct {
	base     string
	playerID string
	hc       *http.Client
	timeout  time.Duration
	log      *slog.Logger
}

type Option func(*Client)

// WithHTTPClient 替換底層 *http.Client（例如 httptest.Server.Client()）。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout 每個請求的時限；<= 0 時沿用 DefaultTimeout。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New 建立 Client；baseURL 末端的 / 會被去掉，空字串代表同源（只用路徑）。
func New(baseURL, playerID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, errs.NewFatal("player id is required")
	}
	c := &Client{
		base:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		playerID: playerID,
		hc:       &http.Client{},
		timeout:  DefaultTimeout,
		log:      logger.NewDefaultLogger(logger.ModeSilence),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string  { return c.base }
func (c *Client) PlayerID() string { return c.playerID }

func (c *Client) FetchCatalog(ctx context.Context) ([]dto.Pack, error) {
	raw, err := c.do(ctx, http.MethodGet, PathPacks, nil)
	if err != nil {
		return nil, err
	}
	var resp dto.PacksResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, invalidBody(http.MethodGet, PathPacks, err)
	}
	if resp.Packs == nil {
		resp.Packs = []dto.Pack{}
	}
	return resp.Packs, nil
}

func (c *Client) FetchInventory(ctx context.Context) (dto.InventorySnapshot, error) {
	raw, err := c.do(ctx, http.MethodGet, PathInventory, nil)
	if err != nil {
		return dto.InventorySnapshot{}, err
	}
	inv, err := dto.NormalizeInventory(raw)
	if err != nil {
		return dto.InventorySnapshot{}, invalidBody(http.MethodGet, PathInventory, err)
	}
	return inv, nil
}

// OpenPack 原樣轉送冪等鍵；同一個鍵是否回傳同一份結果由後端保證。
func (c *Client) OpenPack(ctx context.Context, packID, idempotencyKey string) (dto.OpenResult, error) {
	raw, err := c.do(ctx, http.MethodPost, PathOpen, dto.OpenRequest{PackID: packID, IdempotencyKey: idempotencyKey})
	if err != nil {
		return dto.OpenResult{}, err
	}
	var res dto.OpenResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return dto.OpenResult{}, invalidBody(http.MethodPost, PathOpen, err)
	}
	return res, nil
}

// SubmitCollection 回傳後端的權威庫存快照（平鋪或 {inventory:...} 皆可）。
func (c *Client) SubmitCollection(ctx context.Context, itemIDs []string) (dto.InventorySnapshot, error) {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	raw, err := c.do(ctx, http.MethodPost, PathCollection, dto.CollectRequest{ItemIDs: itemIDs})
	if err != nil {
		return dto.InventorySnapshot{}, err
	}
	inv, err := dto.NormalizeInventory(raw)
	if err != nil {
		return dto.InventorySnapshot{}, invalidBody(http.MethodPost, PathCollection, err)
	}
	return inv, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errs.Wrap(err, "encode request body")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, errs.NewNetwork(err, fmt.Sprintf("%s %s: invalid request", method, path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// 自行設定 Accept-Encoding 後 net/http 不會自動解壓，由 readBody 處理。
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	req.Header.Set(HeaderPlayerID, c.playerID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("api.request.failed", slog.String("method", method), slog.String("path", path), slog.Any("err", err))
		return nil, errs.NewNetwork(err, fmt.Sprintf("%s %s: network error", method, path))
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	raw, err := readBody(resp)
	if err != nil {
		// 非 2xx 的回應本體讀不出來時，仍以狀態碼回報為 ServerError
		if !ok {
			return nil, serverError(method, path, resp.StatusCode, nil)
		}
		return nil, errs.NewNetwork(err, fmt.Sprintf("%s %s: unreadable response", method, path))
	}
	c.log.Debug("api.request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	if !ok {
		return nil, serverError(method, path, resp.StatusCode, raw)
	}
	return raw, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		zr, err := zstd.NewReader(resp.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case "gzip":
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}

func serverError(method, path string, status int, raw []byte) *errs.E {
	var eb dto.ErrorBody
	if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
		return errs.NewServer(status, eb.Error)
	}
	return errs.NewServer(status, fmt.Sprintf("%s %s %d", method, path, status))
}

func invalidBody(method, path string, cause error) *errs.E {
	return errs.NewNetwork(cause, fmt.Sprintf("%s %s: invalid response", method, path))
}
