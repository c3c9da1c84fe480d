package content

import (
	"reflect"
	"testing"
)

func TestParseSubtitleThenParagraph(t *testing.T) {
	blocks := Parse("**Scope**\nDelivery details here.")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %#v", len(blocks), blocks)
	}
	title, ok := blocks[0].(Title)
	if !ok || title.Text != "Scope" || title.Style != StyleSubtitle {
		t.Fatalf("expected subtitle Scope, got %#v", blocks[0])
	}
	para, ok := blocks[1].(Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %#v", blocks[1])
	}
	want := []Run{{Text: "Delivery details here."}}
	if !reflect.DeepEqual(para.Runs, want) {
		t.Fatalf("unexpected runs: %#v", para.Runs)
	}
}

func TestParseUnclosedMarkerIsLiteral(t *testing.T) {
	blocks := Parse("**Unclosed marker text")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	para, ok := blocks[0].(Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %#v", blocks[0])
	}
	want := []Run{{Text: "**Unclosed marker text"}}
	if !reflect.DeepEqual(para.Runs, want) {
		t.Fatalf("unexpected runs: %#v", para.Runs)
	}
}

func TestParseRunsEmphasis(t *testing.T) {
	cases := []struct {
		in   string
		want []Run
	}{
		{"plain", []Run{{Text: "plain"}}},
		{"a **b** c", []Run{{Text: "a "}, {Text: "b", Emphasis: EmphasisBold}, {Text: " c"}}},
		{"**x** and **y**", []Run{{Text: "x", Emphasis: EmphasisBold}, {Text: " and "}, {Text: "y", Emphasis: EmphasisBold}}},
		{"a **b** c **d", []Run{{Text: "a "}, {Text: "b", Emphasis: EmphasisBold}, {Text: " c **d"}}},
		{"2 * 3 = 6", []Run{{Text: "2 * 3 = 6"}}},
		{"****", []Run{{Text: "****"}}},
	}
	for _, tc := range cases {
		got := ParseRuns(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseRuns(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestParseLinePrecedence(t *testing.T) {
	// "**a** e **b**" 首尾都是 **，但中间还有标记，不应提升为副标题
	blocks := ParseLine("**a** e **b**")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if _, ok := blocks[0].(Paragraph); !ok {
		t.Fatalf("expected paragraph, got %#v", blocks[0])
	}

	blocks = ParseLine("**Prazo:** 30 dias corridos")
	if len(blocks) != 2 {
		t.Fatalf("expected subtitle + paragraph, got %#v", blocks)
	}
	if title := blocks[0].(Title); title.Text != "Prazo" {
		t.Fatalf("unexpected inline-colon subtitle: %#v", title)
	}
	if para := blocks[1].(Paragraph); para.Text() != "30 dias corridos" {
		t.Fatalf("unexpected remainder: %q", para.Text())
	}

	blocks = ParseLine("- item **um**")
	para, ok := blocks[0].(Paragraph)
	if !ok || para.Style != StyleBullet {
		t.Fatalf("expected bullet paragraph, got %#v", blocks[0])
	}
	if para.Runs[0].Text != "• item " || para.Runs[1].Emphasis != EmphasisBold {
		t.Fatalf("unexpected bullet runs: %#v", para.Runs)
	}

	blocks = ParseLine("2) segundo passo")
	para, ok = blocks[0].(Paragraph)
	if !ok || para.Style != StyleNumbered || para.Text() != "2) segundo passo" {
		t.Fatalf("unexpected numbered paragraph: %#v", blocks[0])
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	blocks := Parse("\n\n  \nUm.\n\nDois.\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(blocks))
	}
}
