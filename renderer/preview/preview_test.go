package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ByLCY/quire/content"
)

func TestWritePlain(t *testing.T) {
	doc := content.Document{
		Meta: content.Metadata{Title: "Proposta Comercial", Client: "ACME"},
		Blocks: []content.Block{
			content.Title{Text: "Resumo", Style: content.StyleTitle},
			content.Title{Text: "Escopo", Style: content.StyleSubtitle},
			content.Paragraph{Runs: []content.Run{{Text: "um dois tres quatro cinco seis sete oito nove dez onze doze"}}, Style: content.StyleBody},
			content.Paragraph{Runs: []content.Run{{Text: "• item"}}, Style: content.StyleBullet},
			content.KeyValue{Label: "Valor", Value: "R$ 10,00"},
			content.Table{Header: []string{"Cargo", "Qtd"}, Rows: []content.Row{{Cells: []string{"Analista", "2"}}}},
		},
	}
	var buf bytes.Buffer
	if err := WriteOptions(&buf, doc, Options{Width: 24, Plain: true}); err != nil {
		t.Fatalf("输出预览失败: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"PROPOSTA COMERCIAL\n",
		"\nRESUMO\n",
		"\n### Escopo\n",
		"  • item\n",
		"Valor: R$ 10,00\n",
		"Cargo    | Qtd\n",
		"Analista | 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("预览缺少 %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 24 {
			t.Fatalf("行超出宽度: %q", line)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("Plain 模式不应输出 ANSI 转义")
	}
	if strings.Contains(out, "…") {
		t.Fatalf("恰好等于列宽的单元格不应被截断:\n%s", out)
	}
}

func TestWriteBoldAndTruncation(t *testing.T) {
	doc := content.Document{Blocks: []content.Block{
		content.Paragraph{Runs: []content.Run{{Text: "Total "}, {Text: "R$ 5", Emphasis: content.EmphasisBold}}, Style: content.StyleBody},
		content.Table{Header: []string{"Descrição", "Valor"}, Rows: []content.Row{
			{Cells: []string{strings.Repeat("x", 60), "1"}},
		}},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, doc, 30); err != nil {
		t.Fatalf("输出预览失败: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, boldOn+"R$ 5"+boldOff) {
		t.Fatalf("粗体未使用 ANSI 转义:\n%q", out)
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("超宽单元格应被截断:\n%s", out)
	}
}
