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

package present

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// Renderer 輸出 View 的邊界；controller 不關心實際畫面。
type Renderer interface {
	Render(v View) error
}

// RendererFunc 讓一般函數實作 Renderer。
type RendererFunc func(View) error

func (f RendererFunc) Render(v View) error { return f(v) }

// TextRenderer 以純文字表格輸出到終端。
type TextRenderer struct {
	W io.Writer
	// ShowItems 是否一併列出收藏。
	ShowItems bool
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{W: w}
}

func (r *TextRenderer) Render(v View) error {
	_, err := io.WriteString(r.W, Text(v, r.ShowItems))
	return err
}

// Text 把 View 排成多行文字。
func Text(v View, showItems bool) string {
	p := message.NewPrinter(lang)
	var b strings.Builder

	b.WriteString(v.Balance + "  |  " + v.Price + "\n")
	if v.Notice != "" {
		b.WriteString("! " + v.Notice + "\n")
	}

	if len(v.Stack) > 0 {
		p.Fprintf(&b, "stack: %d card(s) left", len(v.Stack))
		if v.Stack[0].Top {
			p.Fprintf(&b, ", top is #%d", v.Stack[0].Index+1)
		}
		b.WriteString("\n")
	}

	if len(v.Tray) > 0 {
		rows := make([][]string, 0, len(v.Tray))
		for _, c := range v.Tray {
			mark := ""
			if c.Active {
				mark = "*"
			}
			dupe := ""
			if c.IsDupe {
				dupe = "dupe"
			}
			if c.Placeholder {
				dupe = "filler"
			}
			rows = append(rows, []string{p.Sprintf("%s%d", mark, c.Position), c.Name, c.Rarity.Title(), dupe})
		}
		b.WriteString(table([]string{"#", "Name", "Rarity", ""}, rows))
	}

	if v.Preview != nil {
		p.Fprintf(&b, "preview: %s (%s) %s\n", v.Preview.Name, v.Preview.Rarity.Title(), v.Preview.Image)
	}

	if showItems && len(v.Items) > 0 {
		rows := make([][]string, 0, len(v.Items))
		for _, it := range v.Items {
			name := it.Name
			if name == "" {
				name = it.ItemID
			}
			rows = append(rows, []string{name, it.Rarity.Title(), p.Sprintf("%d", max(it.Count, 1))})
		}
		b.WriteString(table([]string{"Item", "Rarity", "Count"}, rows))
	}

	cta := "[" + v.CTA + "]"
	if !v.CTAEnabled {
		cta = "(" + v.CTA + ")"
	}
	b.WriteString(cta + "\n")
	return b.String()
}

// table 以顯示寬度對齊（支援全形字元）。
func table(head []string, rows [][]string) string {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	line := func(cells []string) {
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" " + runewidth.FillRight(c, widths[i]) + " |")
		}
		b.WriteString("\n")
	}

	b.WriteString(divider)
	line(head)
	b.WriteString(divider)
	for _, row := range rows {
		line(row)
	}
	b.WriteString(divider)
	return b.String()
}
