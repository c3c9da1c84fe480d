package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/quire/content"
)

var testMeasurer = FixedMeasurer{Advance: 0.5, Bold: map[string]float64{"B": 1.2}}

func testStyle(align Align) Style {
	return Style{Name: "t", Font: "R", BoldFont: "B", Size: 10, Leading: 15, Align: align}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "ww"
	}
	return strings.Join(parts, " ")
}

// TestWrapGreedy 每个非末行再放入下一个单词都会超宽，且行宽不超过可用宽度。
func TestWrapGreedy(t *testing.T) {
	style := testStyle(AlignLeft)
	lines := Wrap([]content.Run{{Text: words(23)}}, 103, style, testMeasurer)
	if len(lines) != 4 {
		t.Fatalf("期望 4 行，实际 %d", len(lines))
	}
	space := testMeasurer.TextWidth(" ", "R", 10)
	for i, ln := range lines {
		if ln.Extent() > 103+widthEpsilon {
			t.Fatalf("第 %d 行超宽: %g", i, ln.Extent())
		}
		if i == len(lines)-1 {
			if !ln.Last {
				t.Fatalf("末行未标记 Last")
			}
			continue
		}
		next := lines[i+1].Words[0].Width
		if ln.Extent()+space+next <= 103 {
			t.Fatalf("第 %d 行还能容纳下一个单词", i)
		}
	}
}

// TestWrapJustify 两端对齐的非末行总宽等于可用宽度，末行保持自然间距。
func TestWrapJustify(t *testing.T) {
	lines := Wrap([]content.Run{{Text: words(10)}}, 103, testStyle(AlignJustify), testMeasurer)
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际 %d", len(lines))
	}
	if len(lines[0].Words) != 7 {
		t.Fatalf("首行期望 7 个单词，实际 %d", len(lines[0].Words))
	}
	if got := lines[0].Extent(); math.Abs(got-103) > 1e-9 {
		t.Fatalf("两端对齐行宽期望 103，实际 %g", got)
	}
	if math.Abs(lines[0].Gap-5.5) > 1e-9 {
		t.Fatalf("词间距期望 5.5，实际 %g", lines[0].Gap)
	}
	if lines[1].Gap != 5 || lines[1].Offset != 0 {
		t.Fatalf("末行不应拉伸: %+v", lines[1])
	}
}

func TestWrapAlignOffsets(t *testing.T) {
	runs := []content.Run{{Text: "ab"}}
	if got := Wrap(runs, 100, testStyle(AlignRight), testMeasurer)[0].Offset; got != 90 {
		t.Fatalf("右对齐偏移期望 90，实际 %g", got)
	}
	if got := Wrap(runs, 100, testStyle(AlignCenter), testMeasurer)[0].Offset; got != 45 {
		t.Fatalf("居中偏移期望 45，实际 %g", got)
	}
}

// TestWrapOverflowWord 单个超宽单词独占一行。
func TestWrapOverflowWord(t *testing.T) {
	lines := Wrap([]content.Run{{Text: "a " + strings.Repeat("x", 40) + " b"}}, 100, testStyle(AlignJustify), testMeasurer)
	if len(lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(lines))
	}
	if lines[1].Width <= 100 || lines[1].Offset != 0 {
		t.Fatalf("超宽单词行异常: %+v", lines[1])
	}
}

// TestWrapExplicitBreak '\n' 强制换行，换行前的行按末行处理。
func TestWrapExplicitBreak(t *testing.T) {
	lines := Wrap([]content.Run{{Text: "aa bb\ncc\n\ndd\n"}}, 500, testStyle(AlignJustify), testMeasurer)
	got := make([]string, len(lines))
	for i, ln := range lines {
		got[i] = ln.Text()
		if !ln.Last {
			t.Fatalf("第 %d 行应为末行", i)
		}
	}
	if strings.Join(got, "|") != "aa bb|cc||dd" {
		t.Fatalf("换行结果异常: %q", got)
	}
}

// TestWrapEmphasisAcrossRuns Run 边界不是断点，字体随强调切换。
func TestWrapEmphasisAcrossRuns(t *testing.T) {
	runs := []content.Run{{Text: "Total "}, {Text: "R$", Emphasis: content.EmphasisBold}, {Text: "10 ok"}}
	lines := Wrap(runs, 500, testStyle(AlignLeft), testMeasurer)
	if len(lines) != 1 || len(lines[0].Words) != 3 {
		t.Fatalf("期望 1 行 3 个单词: %+v", lines)
	}
	w := lines[0].Words[1]
	if len(w.Fragments) != 2 || w.Fragments[0].Font != "B" || w.Fragments[1].Font != "R" {
		t.Fatalf("跨 Run 单词片段异常: %+v", w)
	}
	if want := 2*10*0.5*1.2 + 2*10*0.5; math.Abs(w.Width-want) > 1e-9 {
		t.Fatalf("单词宽度期望 %g，实际 %g", want, w.Width)
	}
	runsOut := lines[0].Runs()
	if len(runsOut) != 3 || runsOut[1].Text != "R$" || runsOut[0].Text != "Total " {
		t.Fatalf("Runs 还原异常: %+v", runsOut)
	}
}

func TestWrapEmpty(t *testing.T) {
	lines := Wrap(nil, 100, testStyle(AlignLeft), testMeasurer)
	if len(lines) != 1 || len(lines[0].Words) != 0 {
		t.Fatalf("空输入应返回一个空行: %+v", lines)
	}
}

func TestFitText(t *testing.T) {
	if got := fitText("abcdef", "R", 10, 100, testMeasurer); got != "abcdef" {
		t.Fatalf("无需截断: %q", got)
	}
	if got := fitText("abcdef", "R", 10, 20, testMeasurer); got != "abc…" {
		t.Fatalf("截断结果异常: %q", got)
	}
}
