package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ByLCY/quire/content"
	"github.com/ByLCY/quire/layout"
)

func TestTextWidthUsesFontMetrics(t *testing.T) {
	r := NewRenderer(".")
	short := r.TextWidth("hello", "Helvetica", 12)
	long := r.TextWidth("hello world", "Helvetica", 12)
	if short <= 0 || long <= short {
		t.Fatalf("宽度应为正且随文本增长: %g, %g", short, long)
	}
	if big := r.TextWidth("hello", "Helvetica", 24); big <= short*1.9 {
		t.Fatalf("宽度应随字号线性增长: %g vs %g", big, short)
	}
	if bold := r.TextWidth("hello", "Helvetica-Bold", 12); bold <= short {
		t.Fatalf("粗体应更宽: %g vs %g", bold, short)
	}
	if r.TextWidth("", "Helvetica", 12) != 0 {
		t.Fatalf("空字符串宽度应为 0")
	}
	// 未知字体回退到 Go 字体，不报错
	if r.TextWidth("hello", "Nothing", 12) != short {
		t.Fatalf("未知字体应回退到常规字体")
	}
}

func TestWrapHonorsNewlinesWithCanvasMetrics(t *testing.T) {
	r := NewRenderer(".")
	style := layout.Style{Name: "x", Font: "Helvetica", BoldFont: "Helvetica-Bold", Size: 12, Leading: 14}

	lines := layout.Wrap([]content.Run{{Text: "foo\n\nbar"}}, 200, style, r)
	if len(lines) != 3 || lines[1].Text() != "" {
		t.Fatalf("期望 3 行且中间为空行，实际 %d", len(lines))
	}

	// 恰好等宽的单词后紧跟换行，不应多出空行
	w := r.TextWidth("equal", style.Font, style.Size)
	lines = layout.Wrap([]content.Run{{Text: "equal\nnext"}}, w, style, r)
	if len(lines) != 2 || lines[0].Text() != "equal" || lines[1].Text() != "next" {
		t.Fatalf("等宽换行异常: %d 行", len(lines))
	}

	lines = layout.Wrap([]content.Run{{Text: "hello world again"}}, w, style, r)
	if len(lines) != 3 {
		t.Fatalf("窄宽度下应逐词折行，实际 %d 行", len(lines))
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(".")
	doc := content.Document{
		Meta: content.Metadata{Client: "ACME", Title: "Proposta", Validity: "30 dias", Contact: "contato@acme.com"},
		Blocks: []content.Block{
			content.Title{Text: "Resumo", Style: content.StyleTitle},
			content.Paragraph{Runs: []content.Run{{Text: "Texto com "}, {Text: "destaque", Emphasis: content.EmphasisBold}}, Style: content.StyleBody},
			content.KeyValue{Label: "Valor", Value: "R$ 1.000,00"},
			content.Table{Header: []string{"Cargo", "Qtd"}, Rows: []content.Row{{Cells: []string{"Analista", "2"}}}},
		},
	}
	res, err := layout.Build(doc, layout.BuildOptions{Measurer: r})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %q", out[:min(8, len(out))])
	}
}

func TestRenderImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码图片失败: %v", err)
	}

	page := layout.Page{Index: 1, Commands: []layout.Command{
		layout.DrawImagePlaceholder("logo", 10, 10, 40, 40),
		layout.DrawImagePlaceholder("none", 60, 10, 40, 40),
		layout.DrawRect(10, 60, 50, 20, true),
		layout.DrawLine(10, 90, 100, 90, 0.5),
		{Op: layout.OpText, X: 100, Y: 120, Text: "1 / 1", Font: "Helvetica", Size: 9, Anchor: layout.AnchorRight},
	}}
	res := &layout.Result{Pages: []layout.Page{page}, Config: layout.DefaultConfig()}

	r := NewRendererWithOptions(Options{Images: map[string]Resource{"logo": {Bytes: buf.Bytes()}}})
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}

	bad := NewRendererWithOptions(Options{Images: map[string]Resource{"logo": {Bytes: []byte("not an image")}}})
	if _, err := bad.Render(res); err == nil || !strings.Contains(err.Error(), "logo") {
		t.Fatalf("损坏的图片应返回错误，实际 %v", err)
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil 结果应返回错误")
	}
	if _, err := r.Render(&layout.Result{Config: layout.DefaultConfig()}); err == nil {
		t.Fatalf("无页面结果应返回错误")
	}
	res := &layout.Result{Config: layout.DefaultConfig(), Pages: []layout.Page{{Index: 1, Commands: []layout.Command{{Op: "blink"}}}}}
	if _, err := r.Render(res); err == nil {
		t.Fatalf("未知指令应返回错误")
	}
}
