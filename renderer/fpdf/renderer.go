package fpdfrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

const defaultStrokePt = 0.5

// Renderer 使用 PDF 标准 14 字体（Helvetica、Times、Courier）的度量测量并输出 PDF。
// 文本按 cp1252 编码，覆盖葡萄牙语常用字符。
type Renderer struct {
	images map[string][]byte

	mu      sync.Mutex
	metrics *fpdf.Fpdf // 仅用于测量
	tr      func(string) string
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Backend  = (*Renderer)(nil)
)

// Options configures the fpdf renderer.
type Options struct {
	Images map[string][]byte // image ref -> PNG/JPEG/GIF
}

// NewRenderer creates a core-font renderer.
func NewRenderer(opts Options) *Renderer {
	metrics := fpdf.New("P", "pt", "", "")
	metrics.SetFont("Helvetica", "", 12)
	r := &Renderer{
		images:  map[string][]byte{},
		metrics: metrics,
		tr:      metrics.UnicodeTranslatorFromDescriptor(""),
	}
	for ref, data := range opts.Images {
		if ref != "" && len(data) > 0 {
			r.images[ref] = data
		}
	}
	return r
}

// coreFont 将布局字体名映射为标准字体族与样式，例如 "Helvetica-Bold" → ("Helvetica", "B")。
func coreFont(name string) (string, string) {
	lower := strings.ToLower(name)
	family := "Helvetica"
	switch {
	case strings.HasPrefix(lower, "times"):
		family = "Times"
	case strings.HasPrefix(lower, "courier"), strings.Contains(lower, "mono"):
		family = "Courier"
	}
	style := ""
	if strings.Contains(lower, "bold") {
		style += "B"
	}
	if strings.Contains(lower, "oblique") || strings.Contains(lower, "italic") {
		style += "I"
	}
	return family, style
}

// TextWidth 实现 layout.Measurer，单位为 pt。
func (r *Renderer) TextWidth(text, font string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	family, style := coreFont(font)
	r.metrics.SetFont(family, style, size)
	return r.metrics.GetStringWidth(r.tr(text))
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	cfg := result.Config
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	applyMeta(pdf, result.Meta)

	d := &drawer{pdf: pdf, tr: r.tr, height: cfg.PageHeight, images: r.images, registered: map[string]bool{}}
	for _, page := range result.Pages {
		pdf.AddPage()
		for _, cmd := range page.Commands {
			if err := d.draw(cmd); err != nil {
				return nil, fmt.Errorf("第 %d 页: %w", page.Index, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}

// drawer 执行一个文档的绘制指令。fpdf 坐标原点在左上角，y 需翻转。
type drawer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	height     float64
	images     map[string][]byte
	registered map[string]bool
}

func (d *drawer) draw(cmd layout.Command) error {
	switch cmd.Op {
	case layout.OpText:
		d.text(cmd)
	case layout.OpLine:
		w := cmd.LineWidth
		if w <= 0 {
			w = defaultStrokePt
		}
		d.pdf.SetLineWidth(w)
		d.pdf.SetDrawColor(0, 0, 0)
		d.pdf.Line(cmd.X, d.height-cmd.Y, cmd.X2, d.height-cmd.Y2)
	case layout.OpRect:
		d.rect(cmd.X, cmd.Y, cmd.Width, cmd.Height, cmd.Fill)
	case layout.OpImage:
		if err := d.image(cmd); err != nil {
			return err
		}
	case layout.OpMoveTo:
	default:
		return fmt.Errorf("未知的绘制指令 %q", cmd.Op)
	}
	if d.pdf.Err() {
		return d.pdf.Error()
	}
	return nil
}

func (d *drawer) text(cmd layout.Command) {
	if cmd.Text == "" {
		return
	}
	family, style := coreFont(cmd.Font)
	d.pdf.SetFont(family, style, cmd.Size)
	d.pdf.SetTextColor(30, 30, 30)
	s := d.tr(cmd.Text)
	x := cmd.X
	switch cmd.Anchor {
	case layout.AnchorRight:
		x -= d.pdf.GetStringWidth(s)
	case layout.AnchorCenter:
		x -= d.pdf.GetStringWidth(s) / 2
	}
	d.pdf.Text(x, d.height-cmd.Y, s)
}

func (d *drawer) rect(x, y, w, h float64, fill bool) {
	d.pdf.SetLineWidth(defaultStrokePt / 2)
	d.pdf.SetDrawColor(0, 0, 0)
	style := "D"
	if fill {
		d.pdf.SetFillColor(240, 240, 240)
		style = "FD"
	}
	d.pdf.Rect(x, d.height-(y+h), w, h, style)
}

// image 绘制注入的图片；未提供图片数据时绘制同尺寸的占位框。
func (d *drawer) image(cmd layout.Command) error {
	blob, ok := d.images[cmd.Ref]
	if !ok {
		d.rect(cmd.X, cmd.Y, cmd.Width, cmd.Height, false)
		return nil
	}
	if !d.registered[cmd.Ref] {
		_, format, err := image.DecodeConfig(bytes.NewReader(blob))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", cmd.Ref, err)
		}
		d.pdf.RegisterImageOptionsReader(cmd.Ref, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(blob))
		if d.pdf.Err() {
			return fmt.Errorf("注册图片 %s 失败: %w", cmd.Ref, d.pdf.Error())
		}
		d.registered[cmd.Ref] = true
	}
	d.pdf.ImageOptions(cmd.Ref, cmd.X, d.height-(cmd.Y+cmd.Height), cmd.Width, cmd.Height, false, fpdf.ImageOptions{}, 0, "")
	return nil
}
