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

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/sdk/core"
)

// AliasTable 是 Vose Alias Method 的整數版本。
//
// 每個槽位只放「自己」與「別名」兩個候選；抽樣先選槽位，再用一次 IntN(Total) 決定取哪個。
// Prob[i] 是 weight[i]*Size 經過搬移後的整數值，與 Total 比較，全程不經過浮點數。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 根據非負整數權重建表。
//
// 與 sampler 其他函數不同，這裡吃的是設定檔資料（掉落表），所以用 error 回報而不是 panic：
// 負權重、全為 0、或 total*n 溢位都會回傳 errs.Warn。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.NewWarn("alias table: empty weights")
	}
	total := 0
	for _, w := range weights {
		if w < 0 {
			return nil, errs.NewWarn("alias table: negative weight")
		}
		if total > math.MaxInt-w {
			return nil, errs.NewWarn("alias table: total weight overflow")
		}
		total += w
	}
	if total == 0 {
		return nil, errs.NewWarn("alias table: all weights are zero")
	}
	if hi, lo := bits.Mul64(uint64(total), uint64(n)); hi != 0 || lo > math.MaxInt64 {
		return nil, errs.NewWarn("alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		aliases[i] = i
		prob[i] = w * n
		if prob[i] < total {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		// s 不足的部分由 l 補；sum(prob) = total*n 不變
		aliases[s] = l
		prob[l] = prob[l] + prob[s] - total
		if prob[l] < total {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩下的槽位在整數域內恰好是滿格
	for _, i := range large {
		prob[i] = total
	}
	for _, i := range small {
		prob[i] = total
	}
	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: total}, nil
}

// Pick 抽取一個索引，若表為空則回傳 -1。
func (at *AliasTable) Pick(c *core.Core) int {
	if at == nil || at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
