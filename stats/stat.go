package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/packlab/dto"
	"github.com/zintix-labs/packlab/errs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// DefaultAlpha 適合度檢定的顯著水準
const DefaultAlpha = 0.01

// FillerReport 補位稀有度分佈報告
type FillerReport struct {
	Summary *SummaryReport `json:"Summary"`
	Dist    []RarityStat   `json:"Dist"`
	Fit     *FitReport     `json:"Fit"`
	isDone  bool
}

type SummaryReport struct {
	Name    string `json:"Name"`
	Draws   int    `json:"Draws"`
	Workers int    `json:"Workers"`
	Seed    int64  `json:"Seed"`
	Other   int    `json:"Other"` // 不在權重表內的稀有度
}

// RarityStat 單一稀有度的觀測 / 期望比例
type RarityStat struct {
	Rarity   dto.Rarity `json:"Rarity"`
	Weight   float64    `json:"Weight"`
	Count    int        `json:"Count"`
	Observed float64    `json:"Observed"`
	Expected float64    `json:"Expected"`
}

// FitReport 卡方適合度檢定
type FitReport struct {
	ChiSquare float64 `json:"ChiSquare"`
	DoF       int     `json:"DoF"`
	PValue    float64 `json:"PValue"`
	Alpha     float64 `json:"Alpha"`
	Pass      bool    `json:"Pass"`
}

// NewFillerReport 以計數結果與對應權重建立報告；weights 順序需與 t.Rarities() 一致。
func NewFillerReport(name string, t *Tally, weights []float64) (*FillerReport, error) {
	if t == nil {
		return nil, errs.NewWarn("nil tally")
	}
	rs := t.Rarities()
	if len(weights) != len(rs) {
		return nil, errs.Warnf("weights length %d != rarities %d", len(weights), len(rs))
	}
	r := &FillerReport{
		Summary: &SummaryReport{Name: name, Draws: t.Total(), Other: t.Other()},
		Dist:    make([]RarityStat, len(rs)),
		Fit:     &FitReport{Alpha: DefaultAlpha},
	}
	for i, rr := range rs {
		if weights[i] < 0 {
			return nil, errs.Warnf("negative weight for %s", rr)
		}
		r.Dist[i] = RarityStat{Rarity: rr, Weight: weights[i], Count: t.Count(rr)}
	}
	return r, nil
}

// Done 計算比例與卡方檢定，只做一次。
func (r *FillerReport) Done() {
	if r.isDone {
		return
	}
	sumW := 0.0
	for _, d := range r.Dist {
		sumW += d.Weight
	}
	draws := float64(r.Summary.Draws)

	obs := make([]float64, 0, len(r.Dist))
	exp := make([]float64, 0, len(r.Dist))
	for i := range r.Dist {
		d := &r.Dist[i]
		if draws > 0 {
			d.Observed = float64(d.Count) / draws
		}
		if sumW > 0 {
			d.Expected = d.Weight / sumW
		}
		// 期望為 0 的類別不進檢定
		if d.Expected > 0 {
			obs = append(obs, float64(d.Count))
			exp = append(exp, d.Expected*draws)
		}
	}

	r.Fit.DoF = len(obs) - 1
	if r.Fit.DoF < 1 || draws == 0 {
		r.Fit.ChiSquare, r.Fit.PValue = 0, 1
	} else {
		r.Fit.ChiSquare = stat.ChiSquare(obs, exp)
		r.Fit.PValue = distuv.ChiSquared{K: float64(r.Fit.DoF)}.Survival(r.Fit.ChiSquare)
	}
	r.Fit.Pass = r.Fit.PValue >= r.Fit.Alpha
	r.isDone = true
}

func (r *FillerReport) WriteWith(w io.Writer, rep Render) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 輸出用時與表格
func (r *FillerReport) StdOut(w io.Writer, ut time.Duration) {
	r.Done()
	fmt.Fprint(w, formatDuration(ut, r.Summary.Draws))
	keys, msg := r.fmtBasic()
	fmt.Fprintln(w, fmtTable(r.Summary.Name, keys, msg))
}

func formatDuration(d time.Duration, draws int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

func (r *FillerReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := []string{"Draws", "Workers", "Seed"}
	msg := map[string]string{
		"Draws":   p.Sprintf("%d", r.Summary.Draws),
		"Workers": p.Sprintf("%d", r.Summary.Workers),
		"Seed":    fmt.Sprintf("%d", r.Summary.Seed),
	}
	for _, d := range r.Dist {
		k := d.Rarity.Title()
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d  %.2f%% (exp %.2f%%)", d.Count, 100*d.Observed, 100*d.Expected)
	}
	if r.Summary.Other > 0 {
		keys = append(keys, "Other")
		msg["Other"] = p.Sprintf("%d", r.Summary.Other)
	}
	fit := "reject"
	if r.Fit.Pass {
		fit = "pass"
	}
	keys = append(keys, "Chi-Square", "DoF", "p-value", "Fit")
	msg["Chi-Square"] = p.Sprintf("%.4f", r.Fit.ChiSquare)
	msg["DoF"] = p.Sprintf("%d", r.Fit.DoF)
	msg["p-value"] = p.Sprintf("%.4f", r.Fit.PValue)
	msg["Fit"] = p.Sprintf("%s (α=%.2f)", fit, r.Fit.Alpha)
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title) / 2
	maxValLen := 0
	for _, k := range keys {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(msg[k]); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString("| " + runewidth.FillRight(k, maxKeyLen-2) + " | " + runewidth.FillRight(msg[k], maxValLen-2) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
