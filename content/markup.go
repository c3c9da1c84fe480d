package content

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// 行内强调约定：成对的 ** 包裹的文本为粗体；未闭合的 ** 按字面字符保留。
// 行级分类在构造内容模型时一次完成，优先级固定为：
// 独立副标题 → 行首冒号副标题 → 项目符号 → 编号 → 普通段落。

const marker = "**"

var (
	inlineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Marker", Pattern: `\*\*`},
		{Name: "Star", Pattern: `\*`},
		{Name: "Text", Pattern: `[^*]+`},
	})
	markerTokenType = inlineLexer.Symbols()["Marker"]

	colonSubtitlePattern = regexp.MustCompile(`^\*\*([^*]+?)(?::\*\*|\*\*:)\s*(.*)$`)
	bulletPattern        = regexp.MustCompile(`^(?:[-•]|\*)\s+(.+)$`)
	numberedPattern      = regexp.MustCompile(`^(\d+[.)])\s+(.+)$`)
)

// Parse 将生成文本按行拆分为块。空行仅作为分隔，不产生块。
func Parse(text string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(text, "\n") {
		blocks = append(blocks, ParseLine(raw)...)
	}
	return blocks
}

// ParseLine 对单行文本分类。返回零个、一个或两个块（冒号副标题后跟正文）。
func ParseLine(raw string) []Block {
	line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
	if line == "" {
		return nil
	}
	if title, ok := standaloneSubtitle(line); ok {
		return []Block{Title{Text: title, Style: StyleSubtitle}}
	}
	if m := colonSubtitlePattern.FindStringSubmatch(line); m != nil {
		label := strings.TrimSpace(m[1])
		out := []Block{Title{Text: label, Style: StyleSubtitle}}
		if rest := strings.TrimSpace(m[2]); rest != "" {
			out = append(out, Paragraph{Runs: ParseRuns(rest), Style: StyleBody})
		}
		return out
	}
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		runs := append([]Run{{Text: "• "}}, ParseRuns(m[1])...)
		return []Block{Paragraph{Runs: mergeRuns(runs), Style: StyleBullet}}
	}
	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		runs := append([]Run{{Text: m[1] + " "}}, ParseRuns(m[2])...)
		return []Block{Paragraph{Runs: mergeRuns(runs), Style: StyleNumbered}}
	}
	return []Block{Paragraph{Runs: ParseRuns(line), Style: StyleBody}}
}

// standaloneSubtitle 判断整行是否只由一对 ** 包裹的内容构成。
func standaloneSubtitle(line string) (string, bool) {
	if len(line) <= 2*len(marker) {
		return "", false
	}
	if !strings.HasPrefix(line, marker) || !strings.HasSuffix(line, marker) {
		return "", false
	}
	inner := line[len(marker) : len(line)-len(marker)]
	if strings.Contains(inner, marker) {
		return "", false
	}
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", false
	}
	return inner, true
}

// ParseRuns 解析行内 ** 强调，返回合并后的 Run 序列。
func ParseRuns(s string) []Run {
	if s == "" {
		return nil
	}
	tokens, err := lexInline(s)
	if err != nil {
		// 词法规则覆盖全部字符，这里仅作兜底
		return []Run{{Text: s}}
	}
	var runs []Run
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != markerTokenType {
			runs = append(runs, Run{Text: tok.Value})
			continue
		}
		closing := -1
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j].Type == markerTokenType {
				closing = j
				break
			}
		}
		if closing <= i+1 {
			// 未闭合或空强调：按字面保留
			runs = append(runs, Run{Text: tok.Value})
			continue
		}
		var b strings.Builder
		for _, inner := range tokens[i+1 : closing] {
			b.WriteString(inner.Value)
		}
		runs = append(runs, Run{Text: b.String(), Emphasis: EmphasisBold})
		i = closing
	}
	return mergeRuns(runs)
}

func lexInline(s string) ([]lexer.Token, error) {
	lex, err := inlineLexer.Lex("", strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	out := tokens[:0]
	for _, t := range tokens {
		if t.EOF() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func mergeRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Emphasis == r.Emphasis {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
