package layout

import (
	"strings"
	"unicode"

	"github.com/ByLCY/quire/content"
)

const widthEpsilon = 1e-6

// Fragment 是单词内同一强调状态的一段文字及其测量宽度。
type Fragment struct {
	Text     string           `json:"text"`
	Emphasis content.Emphasis `json:"emphasis,omitempty"`
	Font     string           `json:"font"`
	Width    float64          `json:"width"`
}

// Word 是两个空白之间的不可拆分单元，可以跨越多个 Run（例如 "**R$** 10"）。
type Word struct {
	Fragments []Fragment `json:"fragments"`
	Width     float64    `json:"width"`
}

// Text 返回单词文本。
func (w Word) Text() string {
	var b strings.Builder
	for _, f := range w.Fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Line 是折行后的一行。
//   - Width 为各单词宽度之和（不含词间距）
//   - Gap 为绘制时的词间距：两端对齐时为拉伸后的值，否则为空格宽度
//   - Offset 为相对于可用区域左沿的起始偏移（右对齐/居中）
//   - Last 标记段落末行或强制换行前的行，两端对齐时不拉伸
type Line struct {
	Words  []Word  `json:"words"`
	Width  float64 `json:"width"`
	Gap    float64 `json:"gap"`
	Offset float64 `json:"offset"`
	Last   bool    `json:"last"`
}

// Extent 返回本行绘制后的总宽度（含词间距）。
func (l Line) Extent() float64 {
	if len(l.Words) < 2 {
		return l.Width
	}
	return l.Width + l.Gap*float64(len(l.Words)-1)
}

// Runs 以单个空格连接单词（空格归属前一片段），并合并相邻的同强调片段。
func (l Line) Runs() []content.Run {
	var out []content.Run
	push := func(text string, e content.Emphasis) {
		if n := len(out); n > 0 && out[n-1].Emphasis == e {
			out[n-1].Text += text
			return
		}
		out = append(out, content.Run{Text: text, Emphasis: e})
	}
	for i, w := range l.Words {
		for j, f := range w.Fragments {
			if i > 0 && j == 0 {
				out[len(out)-1].Text += " "
			}
			push(f.Text, f.Emphasis)
		}
	}
	return out
}

// Text 返回本行纯文本。
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs() {
		b.WriteString(r.Text)
	}
	return b.String()
}

type token struct {
	word Word
	brk  bool // 显式换行
}

// tokenize 按空白切分单词，Run 边界不构成断点；'\n' 产生强制换行。
func tokenize(runs []content.Run, style Style, m Measurer) []token {
	var (
		tokens []token
		word   Word
		frag   strings.Builder
		fragE  content.Emphasis
	)
	flushFrag := func() {
		if frag.Len() == 0 {
			return
		}
		text := frag.String()
		font := style.FontFor(fragE)
		w := m.TextWidth(text, font, style.Size)
		word.Fragments = append(word.Fragments, Fragment{Text: text, Emphasis: fragE, Font: font, Width: w})
		word.Width += w
		frag.Reset()
	}
	flushWord := func() {
		flushFrag()
		if len(word.Fragments) > 0 {
			tokens = append(tokens, token{word: word})
		}
		word = Word{}
	}
	for _, run := range runs {
		fragE = run.Emphasis
		for _, r := range run.Text {
			switch {
			case r == '\n':
				flushWord()
				tokens = append(tokens, token{brk: true})
			case unicode.IsSpace(r):
				flushWord()
			default:
				frag.WriteRune(r)
			}
		}
		flushFrag()
	}
	flushWord()
	return tokens
}

// Wrap 对 runs 做首次适配（greedy）折行并计算对齐，width 为可用宽度（pt）。
// 同一输入总是产生相同结果。单个超宽单词独占一行并允许溢出，不做断字。
func Wrap(runs []content.Run, width float64, style Style, m Measurer) []Line {
	space := m.TextWidth(" ", style.Font, style.Size)
	var (
		lines []Line
		cur   []Word
		curW  float64 // 含单个空格的当前行宽
		sumW  float64 // 不含空格
	)
	closeLine := func(last bool) {
		lines = append(lines, Line{Words: cur, Width: sumW, Last: last})
		cur, curW, sumW = nil, 0, 0
	}
	for _, tk := range tokenize(runs, style, m) {
		if tk.brk {
			closeLine(true)
			continue
		}
		w := tk.word
		if len(cur) > 0 && curW+space+w.Width > width+widthEpsilon {
			closeLine(false)
		}
		if len(cur) == 0 {
			curW = w.Width
		} else {
			curW += space + w.Width
		}
		sumW += w.Width
		cur = append(cur, w)
	}
	if len(cur) > 0 || len(lines) == 0 {
		closeLine(true)
	}
	for i := range lines {
		alignLine(&lines[i], width, space, style.Align)
	}
	return lines
}

func alignLine(l *Line, width, space float64, align Align) {
	n := len(l.Words)
	l.Gap = space
	if align == AlignJustify && !l.Last && n >= 2 {
		l.Gap = (width - l.Width) / float64(n-1)
		return
	}
	slack := width - l.Extent()
	if slack <= 0 {
		return
	}
	switch align {
	case AlignRight:
		l.Offset = slack
	case AlignCenter:
		l.Offset = slack / 2
	}
}

// fitText 截断文本使其宽度不超过 width，截断时追加省略号。
func fitText(text, font string, size, width float64, m Measurer) string {
	if m.TextWidth(text, font, size) <= width+widthEpsilon {
		return text
	}
	const ellipsis = "…"
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + ellipsis
		if m.TextWidth(candidate, font, size) <= width+widthEpsilon {
			return candidate
		}
	}
	return ""
}
