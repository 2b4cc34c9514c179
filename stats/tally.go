package stats

import (
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
)

// Tally 依稀有度累計抽到的次數。
//
// 只做 int 計數，統計量留到 Report 一次算；併發模擬時每個 worker 各持一份，結束後 Merge。
type Tally struct {
	rarities []dto.Rarity
	index    map[dto.Rarity]int
	counts   []int
	other    int
}

// NewTally 以給定的稀有度順序建立計數器。
func NewTally(rarities []dto.Rarity) *Tally {
	t := &Tally{
		rarities: append([]dto.Rarity(nil), rarities...),
		index:    make(map[dto.Rarity]int, len(rarities)),
		counts:   make([]int, len(rarities)),
	}
	for i, r := range rarities {
		t.index[r] = i
	}
	return t
}

// Record 紀錄一次結果；不在清單內的稀有度計入 Other。
func (t *Tally) Record(r dto.Rarity) {
	if i, ok := t.index[r]; ok {
		t.counts[i]++
		return
	}
	t.other++
}

// Total 已紀錄的總次數（含 Other）
func (t *Tally) Total() int {
	n := t.other
	for _, c := range t.counts {
		n += c
	}
	return n
}

func (t *Tally) Count(r dto.Rarity) int {
	if i, ok := t.index[r]; ok {
		return t.counts[i]
	}
	return 0
}

func (t *Tally) Other() int { return t.other }

func (t *Tally) Rarities() []dto.Rarity {
	return append([]dto.Rarity(nil), t.rarities...)
}

// Merge 合併多份 Tally，稀有度順序必須一致。
func Merge(ts []*Tally) (*Tally, error) {
	if len(ts) == 0 {
		return nil, errs.NewWarn("nothing to merge")
	}
	out := NewTally(ts[0].rarities)
	for _, t := range ts {
		if t == nil {
			continue
		}
		if len(t.rarities) != len(out.rarities) {
			return nil, errs.NewFatal("tally rarity mismatch")
		}
		for i, r := range t.rarities {
			if out.rarities[i] != r {
				return nil, errs.NewFatal("tally rarity mismatch")
			}
			out.counts[i] += t.counts[i]
		}
		out.other += t.other
	}
	return out, nil
}
