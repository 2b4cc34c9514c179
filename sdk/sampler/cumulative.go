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

package sampler

import "github.com/zintix-labs/packlab/sdk/core"

// Cumulative 累減法加權抽樣，回傳被選中的索引。
//
// 演算法：
//  1. t = U * sum(weights)，U 為 [0,1) 均勻亂數。
//  2. 依序走訪：若 t < w[i] 即選中 i；否則 t -= w[i] 繼續。
//
// 特殊處理：
//   - 權重 < 0：Panic（視為錯誤）。
//   - 權重 == 0：永不選中。
//   - weights 為空或總和為 0：回傳 -1。
//   - 浮點殘差導致走完仍未選中時，回傳最後一個權重 > 0 的索引。
func Cumulative[T Numbers](c *core.Core, weights []T) int {
	sum := 0.0
	last := -1
	for i, w := range weights {
		if w < 0 {
			panic("Cumulative: negative weight")
		}
		if w > 0 {
			last = i
		}
		sum += float64(w)
	}
	if last < 0 {
		return -1
	}
	t := c.Float64() * sum
	for i, w := range weights {
		fw := float64(w)
		if t < fw {
			return i
		}
		t -= fw
	}
	return last
}
