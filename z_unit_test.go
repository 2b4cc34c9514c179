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
	"math"
	"testing"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/padding"
)

func TestSimulateFillerDeterministic(t *testing.T) {
	cfg := FillerSim{Rounds: 2000, Workers: 4, Seed: 42}
	a, _, err := SimulateFiller(cfg)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	b, _, err := SimulateFiller(cfg)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if a.Summary.Draws != 2000*padding.Size {
		t.Fatalf("unexpected draws: %d", a.Summary.Draws)
	}
	for i := range a.Dist {
		if a.Dist[i].Count != b.Dist[i].Count {
			t.Fatalf("same seed must give same counts: %+v vs %+v", a.Dist[i], b.Dist[i])
		}
	}
	if a.Summary.Seed != 42 || a.Summary.Workers != 4 {
		t.Fatalf("unexpected summary: %+v", a.Summary)
	}
}

func TestSimulateFillerDistribution(t *testing.T) {
	rep, _, err := SimulateFiller(FillerSim{Rounds: 40000, Workers: 3, Seed: 7})
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	want := map[dto.Rarity]float64{dto.Common: 0.85, dto.Rare: 0.10, dto.Epic: 0.04, dto.Legendary: 0.01}
	for _, d := range rep.Dist {
		if math.Abs(d.Observed-want[d.Rarity]) > 0.01 {
			t.Fatalf("%s observed %.4f, want ~%.2f", d.Rarity, d.Observed, want[d.Rarity])
		}
		if math.Abs(d.Expected-want[d.Rarity]) > 1e-12 {
			t.Fatalf("%s expected %.4f", d.Rarity, d.Expected)
		}
	}
	if rep.Fit.DoF != 3 || rep.Summary.Other != 0 {
		t.Fatalf("unexpected fit: %+v other=%d", rep.Fit, rep.Summary.Other)
	}
}

func TestSimulateFillerCustomWeights(t *testing.T) {
	rep, _, err := SimulateFiller(FillerSim{
		Rounds:  100,
		Workers: 8,
		Seed:    1,
		Weights: []padding.Weight{{Rarity: dto.Epic, Weight: 1}},
	})
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if len(rep.Dist) != 1 || rep.Dist[0].Count != 500 {
		t.Fatalf("unexpected dist: %+v", rep.Dist)
	}
}

func TestSimulateFillerValidates(t *testing.T) {
	if _, _, err := SimulateFiller(FillerSim{Rounds: 0, Workers: 1}); err == nil {
		t.Fatalf("expected rounds error")
	}
	if _, _, err := SimulateFiller(FillerSim{Rounds: 10, Workers: 0}); err == nil {
		t.Fatalf("expected workers error")
	}
	// workers 超過 rounds 時縮成 rounds
	rep, _, err := SimulateFiller(FillerSim{Rounds: 2, Workers: 16, Seed: 3})
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if rep.Summary.Workers != 2 || rep.Summary.Draws != 10 {
		t.Fatalf("unexpected summary: %+v", rep.Summary)
	}
}

func TestSeedMakerDistinct(t *testing.T) {
	sm := newSeedMaker(99)
	seen := map[int64]bool{}
	for range 1000 {
		s := sm.next()
		if s < 0 || seen[s] {
			t.Fatalf("seed repeated or negative: %d", s)
		}
		seen[s] = true
	}
}
