package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/stats"
)

var rarities = []dto.Rarity{dto.Common, dto.Rare, dto.Epic, dto.Legendary}

func tallyOf(counts map[dto.Rarity]int) *stats.Tally {
	t := stats.NewTally(rarities)
	for _, r := range rarities {
		for range counts[r] {
			t.Record(r)
		}
	}
	return t
}

func TestTallyRecordAndMerge(t *testing.T) {
	a := tallyOf(map[dto.Rarity]int{dto.Common: 3, dto.Rare: 1})
	b := tallyOf(map[dto.Rarity]int{dto.Common: 2, dto.Legendary: 1})
	b.Record(dto.Rarity("mythic"))

	m, err := stats.Merge([]*stats.Tally{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Count(dto.Common) != 5 || m.Count(dto.Rare) != 1 || m.Count(dto.Legendary) != 1 {
		t.Fatalf("unexpected counts: common=%d rare=%d legendary=%d", m.Count(dto.Common), m.Count(dto.Rare), m.Count(dto.Legendary))
	}
	if m.Other() != 1 || m.Total() != 8 {
		t.Fatalf("unexpected other/total: %d/%d", m.Other(), m.Total())
	}
}

func TestMergeRejectsMismatch(t *testing.T) {
	a := stats.NewTally(rarities)
	b := stats.NewTally([]dto.Rarity{dto.Common})
	if _, err := stats.Merge([]*stats.Tally{a, b}); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if _, err := stats.Merge(nil); err == nil {
		t.Fatalf("expected error on empty merge")
	}
}

func TestReportPerfectFit(t *testing.T) {
	tl := tallyOf(map[dto.Rarity]int{dto.Common: 850, dto.Rare: 100, dto.Epic: 40, dto.Legendary: 10})
	r, err := stats.NewFillerReport("filler", tl, []float64{85, 10, 4, 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	r.Done()
	if r.Fit.ChiSquare != 0 || r.Fit.PValue != 1 || !r.Fit.Pass || r.Fit.DoF != 3 {
		t.Fatalf("unexpected fit: %+v", r.Fit)
	}
	if math.Abs(r.Dist[0].Observed-0.85) > 1e-12 || math.Abs(r.Dist[0].Expected-0.85) > 1e-12 {
		t.Fatalf("unexpected common ratio: %+v", r.Dist[0])
	}
}

func TestReportChiSquareValue(t *testing.T) {
	two := []dto.Rarity{dto.Common, dto.Rare}
	tl := stats.NewTally(two)
	for range 10 {
		tl.Record(dto.Common)
	}
	for range 20 {
		tl.Record(dto.Rare)
	}
	r, err := stats.NewFillerReport("coin", tl, []float64{1, 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	r.Done()
	// (10-15)^2/15 * 2
	if math.Abs(r.Fit.ChiSquare-10.0/3.0) > 1e-9 {
		t.Fatalf("unexpected chi-square: %v", r.Fit.ChiSquare)
	}
	if math.Abs(r.Fit.PValue-0.0679) > 1e-3 {
		t.Fatalf("unexpected p-value: %v", r.Fit.PValue)
	}
	if !r.Fit.Pass {
		t.Fatalf("p=0.068 should pass at alpha 0.01")
	}
}

func TestReportRejectsSkew(t *testing.T) {
	tl := tallyOf(map[dto.Rarity]int{dto.Common: 500, dto.Rare: 500})
	r, _ := stats.NewFillerReport("skew", tl, []float64{85, 10, 4, 1})
	r.Done()
	if r.Fit.Pass || r.Fit.PValue > 1e-6 {
		t.Fatalf("expected rejection: %+v", r.Fit)
	}
}

func TestReportZeroWeightExcluded(t *testing.T) {
	tl := tallyOf(map[dto.Rarity]int{dto.Common: 90, dto.Rare: 10})
	r, _ := stats.NewFillerReport("z", tl, []float64{9, 1, 0, 0})
	r.Done()
	if r.Fit.DoF != 1 || r.Fit.ChiSquare != 0 {
		t.Fatalf("unexpected fit: %+v", r.Fit)
	}
}

func TestNewFillerReportValidates(t *testing.T) {
	tl := stats.NewTally(rarities)
	if _, err := stats.NewFillerReport("x", tl, []float64{1}); err == nil {
		t.Fatalf("expected length error")
	}
	if _, err := stats.NewFillerReport("x", tl, []float64{1, -1, 1, 1}); err == nil {
		t.Fatalf("expected negative weight error")
	}
	r, err := stats.NewFillerReport("empty", tl, []float64{85, 10, 4, 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	r.Done()
	if r.Fit.PValue != 1 || !r.Fit.Pass {
		t.Fatalf("empty tally must trivially pass: %+v", r.Fit)
	}
}

func TestRenders(t *testing.T) {
	tl := tallyOf(map[dto.Rarity]int{dto.Common: 1700, dto.Rare: 200, dto.Epic: 80, dto.Legendary: 20})
	r, _ := stats.NewFillerReport("filler", tl, []float64{85, 10, 4, 1})

	var tb bytes.Buffer
	tr, err := stats.NewRender("table")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.WriteWith(&tb, tr); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(tb.String(), "1,700") || !strings.Contains(tb.String(), "Legendary") {
		t.Fatalf("unexpected table:\n%s", tb.String())
	}

	var jb bytes.Buffer
	jr, _ := stats.NewRender("JSON")
	if err := r.WriteWith(&jb, jr); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back struct {
		Summary struct{ Draws int }
		Fit     struct{ Pass bool }
	}
	if err := json.Unmarshal(jb.Bytes(), &back); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if back.Summary.Draws != 2000 || !back.Fit.Pass {
		t.Fatalf("unexpected json: %s", jb.String())
	}

	var yb bytes.Buffer
	yr, _ := stats.NewRender("yaml")
	if err := r.WriteWith(&yb, yr); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(yb.String(), "chisquare") {
		t.Fatalf("unexpected yaml:\n%s", yb.String())
	}

	if _, err := stats.NewRender("xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestStdOut(t *testing.T) {
	tl := tallyOf(map[dto.Rarity]int{dto.Common: 85, dto.Rare: 10, dto.Epic: 4, dto.Legendary: 1})
	r, _ := stats.NewFillerReport("filler", tl, []float64{85, 10, 4, 1})
	var b bytes.Buffer
	r.StdOut(&b, 2*time.Second)
	out := b.String()
	if !strings.Contains(out, "used: 2.00 seconds") || !strings.Contains(out, "draws/sec") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
