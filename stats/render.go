package stats

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/packlab/errs"
	"gopkg.in/yaml.v3"
)

// Render 報告輸出格式
type Render interface {
	Write(w io.Writer, r *FillerReport) error
}

// NewRender 依名稱取得輸出格式：table / json / yaml。
func NewRender(format string) (Render, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return &TableRender{}, nil
	case "json":
		return &JsonRender{}, nil
	case "yaml", "yml":
		return &YAMLRender{}, nil
	}
	return nil, errs.Warnf("unknown report format %q", format)
}

// 表格渲染（與 StdOut 相同，但不含用時）
type TableRender struct{}

func (tr *TableRender) Write(w io.Writer, r *FillerReport) error {
	r.Done()
	keys, msg := r.fmtBasic()
	_, err := io.WriteString(w, fmtTable(r.Summary.Name, keys, msg))
	return err
}

// Json渲染
type JsonRender struct{}

func (jr *JsonRender) Write(w io.Writer, r *FillerReport) error {
	r.Done()
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *FillerReport) error {
	r.Done()
	// 只有「最內層的純量陣列」輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 元素全是純量 => flow style: [...]
	// - 元素有 sequence / mapping（例如 Dist 的每一列）=> 保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildNode := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChildNode = true
				break
			}
		}

		// 先遞迴處理子節點（讓最內層先被標記成 flow）
		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		// 最內層一維（或本身就是一維）=> flow style: [a, b, c]
		// 外層維度 => 保持預設 block style（不強制設定 style）
		if !hasChildNode {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		// Scalar / Alias 等不處理
		return
	}
}
