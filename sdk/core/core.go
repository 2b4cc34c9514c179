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

// Package core 提供 packlab 共用的亂數核心。
//
// 客戶端的補位卡（placeholder）與開發用後端的掉落抽樣都只需要兩種取樣：
// [0,1) 浮點數與 [0,n) 整數。Core 把來源抽象成 RAND，測試可以用固定 seed 重現。
//
// 注意：Core 不是 goroutine-safe；跨 goroutine 共用時由持有者自行加鎖。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// Core 封裝 RAND，並提供常用取樣與工具方法。
type Core struct {
	RAND
}

// New 允許使用外部自實現的 RAND 建立 Core。
func New(rng RAND) *Core {
	return &Core{rng}
}

// NewSeeded 以指定 seed 建立可重現的 Core（PCG64）。
func NewSeeded(seed int64) *Core {
	return New(newPCG64WithSeed(seed))
}

// NewRandom 以加密隨機來源產生 seed 後建立 Core；取 seed 失敗時回傳錯誤。
func NewRandom() (*Core, error) {
	seed, err := RandomSeed()
	if err != nil {
		return nil, err
	}
	return NewSeeded(seed), nil
}

// RandomSeed 取得一個 [0, MaxInt64) 的加密隨機 seed。
func RandomSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}
