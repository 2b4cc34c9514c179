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

package packlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"github.com/zintix-labs/packlab/padding"
	"github.com/zintix-labs/packlab/sdk/core"
	"github.com/zintix-labs/packlab/stats"
)

// FillerSim 補位分佈模擬參數。
//
// 每一輪都是「後端回 0 張」的最壞情況：Pad(nil) 產生 5 張補位卡，全部計入統計。
type FillerSim struct {
	Name    string
	Rounds  int   // 總輪數，平均分給各 worker
	Workers int   // 併發數
	Seed    int64 // 0 代表隨機
	Weights []padding.Weight
	ShowPB  bool
}

// SimulateFiller 平行執行補位模擬，合併統計後回傳報告與用時。
//
// 同一組 Seed / Workers / Rounds 得到的結果完全相同。
func SimulateFiller(cfg FillerSim) (*stats.FillerReport, time.Duration, error) {
	if cfg.Rounds < 1 {
		return nil, 0, errs.NewWarn("rounds must > 0")
	}
	if cfg.Workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if cfg.Workers > cfg.Rounds {
		cfg.Workers = cfg.Rounds
	}
	if len(cfg.Weights) == 0 {
		cfg.Weights = padding.DefaultWeights
	}
	if cfg.Name == "" {
		cfg.Name = "Filler Rarity"
	}
	if cfg.Seed == 0 {
		seed, err := core.RandomSeed()
		if err != nil {
			return nil, 0, errs.Wrap(err, "random seed")
		}
		cfg.Seed = seed
	}

	rarities := make([]dto.Rarity, len(cfg.Weights))
	weights := make([]float64, len(cfg.Weights))
	for i, w := range cfg.Weights {
		if w.Weight < 0 {
			return nil, 0, errs.Warnf("negative weight for %s", w.Rarity)
		}
		rarities[i], weights[i] = w.Rarity, float64(w.Weight)
	}

	sm := newSeedMaker(cfg.Seed)
	padders := make([]*padding.Padder, cfg.Workers)
	tallies := make([]*stats.Tally, cfg.Workers)
	for i := range cfg.Workers {
		padders[i] = padding.NewWithWeights(core.NewSeeded(sm.next()), cfg.Weights)
		tallies[i] = stats.NewTally(rarities)
	}

	bar := pb.StartNew(cfg.Rounds)
	if !cfg.ShowPB {
		bar.SetWriter(io.Discard)
	}
	wg := new(sync.WaitGroup)
	wg.Add(cfg.Workers)
	per, rest := cfg.Rounds/cfg.Workers, cfg.Rounds%cfg.Workers
	for i := range cfg.Workers {
		rounds := per
		if i < rest {
			rounds++
		}
		go func(p *padding.Padder, t *stats.Tally, rounds int) {
			defer wg.Done()
			for range rounds {
				for _, it := range p.Pad(nil) {
					t.Record(it.Rarity)
				}
				bar.Increment()
			}
		}(padders[i], tallies[i], rounds)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := stats.Merge(tallies)
	if err != nil {
		return nil, 0, err
	}
	rep, err := stats.NewFillerReport(cfg.Name, merged, weights)
	if err != nil {
		return nil, 0, err
	}
	rep.Summary.Workers = cfg.Workers
	rep.Summary.Seed = cfg.Seed
	rep.Done()
	return rep, used, nil
}

const mask63 = uint64(1<<63) - 1

// seedMaker 由一個起始 seed 派生各 worker 的 seed。
type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以 CAS 推進全週期 LCG（mod 2^63），再用 mix63 打散。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 xor-shift 與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
