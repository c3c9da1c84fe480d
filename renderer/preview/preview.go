// Package preview prints a content document to a terminal before it is laid out as PDF.
package preview

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ByLCY/quire/content"
)

const (
	defaultWidth = 80
	minWidth     = 20
	listIndent   = 2
	cellSep      = " | "

	boldOn  = "\x1b[1m"
	boldOff = "\x1b[22m"
)

// Options 控制预览输出。Plain 为 true 时不输出 ANSI 粗体（例如重定向到文件）。
type Options struct {
	Width int
	Plain bool
}

// Write 以 width 列宽输出文档预览，粗体使用 ANSI 转义。
func Write(w io.Writer, doc content.Document, width int) error {
	return WriteOptions(w, doc, Options{Width: width})
}

// WriteOptions 按 opts 输出文档预览。
func WriteOptions(w io.Writer, doc content.Document, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	p := &printer{out: bufio.NewWriter(w), width: width, plain: opts.Plain}
	p.meta(doc.Meta)
	for _, b := range doc.Blocks {
		p.block(b)
	}
	return p.out.Flush()
}

type printer struct {
	out   *bufio.Writer
	width int
	plain bool
}

func (p *printer) println(s string) { fmt.Fprintln(p.out, s) }

func (p *printer) bold(s string) string {
	if p.plain || s == "" {
		return s
	}
	return boldOn + s + boldOff
}

func (p *printer) meta(m content.Metadata) {
	if m.Title == "" && m.Client == "" {
		return
	}
	if m.Title != "" {
		p.println(p.bold(strings.ToUpper(m.Title)))
	}
	for _, line := range []string{m.Client, m.Validity, m.Contact} {
		if line == "" {
			continue
		}
		if ansi.PrintableRuneWidth(line) > p.width {
			line = truncate.StringWithTail(line, uint(p.width), "…")
		}
		p.println(line)
	}
	p.println(strings.Repeat("=", p.width))
}

func (p *printer) block(b content.Block) {
	switch v := b.(type) {
	case content.Title:
		p.title(v)
	case content.Paragraph:
		p.paragraph(v)
	case content.KeyValue:
		p.println(wordwrap.String(p.bold(v.Label+":")+" "+v.Value, p.width))
	case content.Table:
		p.table(v)
	}
}

func (p *printer) title(t content.Title) {
	p.println("")
	if t.Style == content.StyleSubtitle {
		p.println(p.bold("### " + t.Text))
		return
	}
	p.println(p.bold(wordwrap.String(strings.ToUpper(t.Text), p.width)))
}

func (p *printer) paragraph(para content.Paragraph) {
	var sb strings.Builder
	for _, r := range para.Runs {
		if r.Emphasis == content.EmphasisBold {
			sb.WriteString(p.bold(r.Text))
			continue
		}
		sb.WriteString(r.Text)
	}
	switch para.Style {
	case content.StyleBullet, content.StyleNumbered:
		wrapped := wordwrap.String(sb.String(), p.width-listIndent)
		p.println(indent.String(wrapped, listIndent))
	default:
		p.println(wordwrap.String(sb.String(), p.width))
	}
}

// table 按列内容宽度输出对齐的表格；总宽超出时各列等分并截断。
func (p *printer) table(t content.Table) {
	cols := t.Columns()
	if cols == 0 {
		return
	}
	widths := make([]int, cols)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := ansi.PrintableRuneWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, r := range t.Rows {
		measure(r.Cells)
	}
	avail := p.width - len(cellSep)*(cols-1)
	total := 0
	for _, w := range widths {
		total += w
	}
	if total > avail {
		each := max(avail/cols, 1)
		for i := range widths {
			widths[i] = min(widths[i], each)
		}
	}

	p.println("")
	if len(t.Header) > 0 {
		p.println(p.bold(p.row(t.Header, widths)))
		sep := 0
		for _, w := range widths {
			sep += w
		}
		p.println(strings.Repeat("-", sep+len(cellSep)*(cols-1)))
	}
	for _, r := range t.Rows {
		p.println(p.row(r.Cells, widths))
	}
}

func (p *printer) row(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if ansi.PrintableRuneWidth(cell) > w {
			cell = truncate.StringWithTail(cell, uint(w), "…")
		}
		parts[i] = padding.String(cell, uint(w))
	}
	return strings.TrimRight(strings.Join(parts, cellSep), " ")
}
