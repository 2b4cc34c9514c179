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
	"testing"

	"github.com/zintix-labs/packlab/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expected := float64(w) / float64(totalW)
		actual := float64(counts[i]) / float64(len(samples))
		if diff := math.Abs(expected - actual); diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expected, actual, diff, tolerance)
		}
	}
}

// -----------------------------------------------------------------------------
// Cumulative
// -----------------------------------------------------------------------------

func TestCumulativeDistribution(t *testing.T) {
	c := core.NewSeeded(1)
	weights := []int{85, 10, 4, 1}
	samples := make([]int, 200_000)
	for i := range samples {
		samples[i] = Cumulative(c, weights)
	}
	checkDistribution(t, "cumulative", weights, samples, 0.005)
}

func TestCumulativeEdgeCases(t *testing.T) {
	c := core.NewSeeded(2)
	if got := Cumulative(c, []int{}); got != -1 {
		t.Fatalf("expected -1 for empty weights, got %d", got)
	}
	if got := Cumulative(c, []int{0, 0}); got != -1 {
		t.Fatalf("expected -1 for zero weights, got %d", got)
	}
	for i := 0; i < 100; i++ {
		if got := Cumulative(c, []float64{0, 2.5, 0}); got != 1 {
			t.Fatalf("expected only index 1, got %d", got)
		}
	}
	assertPanic(t, func() { Cumulative(c, []int{1, -1}) }, "negative weight")
}

// fixedRand 讓 Float64 回傳指定值，用來驗證邊界選取。
type fixedRand struct{ f float64 }

func (r fixedRand) Uint64() uint64   { return 0 }
func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(int) int     { return 0 }

func TestCumulativeBoundaries(t *testing.T) {
	weights := []int{85, 10, 4, 1}
	cases := []struct {
		u    float64
		want int
	}{
		{0.0, 0},
		{0.8499, 0},
		{0.8501, 1},
		{0.9499, 1},
		{0.9501, 2},
		{0.9899, 2},
		{0.9901, 3},
		{0.999999, 3},
	}
	for _, tc := range cases {
		if got := Cumulative(core.New(fixedRand{tc.u}), weights); got != tc.want {
			t.Fatalf("u=%v: expected %d, got %d", tc.u, tc.want, got)
		}
	}
}

// -----------------------------------------------------------------------------
// AliasTable
// -----------------------------------------------------------------------------

func TestAliasTableDistribution(t *testing.T) {
	c := core.NewSeeded(3)
	weights := []int{50, 0, 30, 15, 5}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples := make([]int, 200_000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, "alias", weights, samples, 0.005)
}

func TestAliasTableErrors(t *testing.T) {
	if _, err := BuildAliasTable(nil); err == nil {
		t.Fatalf("expected error for empty weights")
	}
	if _, err := BuildAliasTable([]int{0, 0}); err == nil {
		t.Fatalf("expected error for zero weights")
	}
	if _, err := BuildAliasTable([]int{3, -1}); err == nil {
		t.Fatalf("expected error for negative weight")
	}
	var nilTable *AliasTable
	if got := nilTable.Pick(core.NewSeeded(1)); got != -1 {
		t.Fatalf("expected -1 for nil table, got %d", got)
	}
}

func TestAliasTableSingle(t *testing.T) {
	at, err := BuildAliasTable([]int{7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := core.NewSeeded(4)
	for i := 0; i < 50; i++ {
		if got := at.Pick(c); got != 0 {
			t.Fatalf("expected 0, got %d", got)
		}
	}
}
