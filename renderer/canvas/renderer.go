package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

const (
	defaultStrokePt = 0.5
	fallbackFont    = "Go-Regular"
)

var (
	textColor   = canvas.Hex("#1e1e1e")
	headerFill  = canvas.Hex("#f0f0f0")
	strokeColor = canvas.Hex("#000000")
	transparent = color.RGBA{0, 0, 0, 0}
)

// Renderer draws layout results via github.com/tdewolff/canvas and measures
// text with the same font faces, so wrapping and output agree.
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs  map[string][]byte // by layout font name
	imageBlobs map[string][]byte // by image ref

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Backend  = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // layout font name -> TTF，覆盖内置映射
	Images  map[string]Resource // image ref -> PNG/JPEG/GIF
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		fontBlobs:  map[string][]byte{},
		imageBlobs: map[string][]byte{},
		families:   map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		if data := r.readResource(res); name != "" && len(data) > 0 {
			r.fontBlobs[name] = data
		}
	}
	for name, res := range opts.Images {
		if data := r.readResource(res); name != "" && len(data) > 0 {
			r.imageBlobs[name] = data
		}
	}
	return r
}

func (r *Renderer) readResource(res Resource) []byte {
	if len(res.Bytes) > 0 {
		return res.Bytes
	}
	if res.Path == "" {
		return nil
	}
	path := res.Path
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, _ := os.ReadFile(path) // 读取失败时按缺失处理：字体回退，图片绘制占位框
	return data
}

// TextWidth 实现 layout.Measurer，返回 pt。canvas 内部长度单位为 mm。
func (r *Renderer) TextWidth(text, font string, size float64) float64 {
	if text == "" {
		return 0
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	face, err := r.faceLocked(font, size)
	if err != nil {
		return 0
	}
	return face.TextWidth(text) * layout.MmToPt
}

func (r *Renderer) face(font string, size float64) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.faceLocked(font, size)
}

func (r *Renderer) faceLocked(font string, size float64) (*canvas.FontFace, error) {
	family, ok := r.families[font]
	if !ok {
		family = canvas.NewFontFamily(font)
		if err := family.LoadFont(r.fontBytes(font), 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", font, err)
		}
		r.families[font] = family
	}
	return family.Face(size, textColor, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) fontBytes(font string) []byte {
	if blob, ok := r.fontBlobs[font]; ok {
		return blob
	}
	if data, err := fonts.Load(font); err == nil {
		return data
	}
	// 未知字体名：按字重回退到 Go 字体
	fallback := fallbackFont
	if strings.Contains(strings.ToLower(font), "bold") {
		fallback = "Go-Bold"
	}
	data, _ := fonts.Load(fallback)
	return data
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	w := result.Config.PageWidth * layout.PtToMm
	h := result.Config.PageHeight * layout.PtToMm
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c) // 默认坐标系原点在左下角，与布局一致
		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", page.Index, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, cmd := range page.Commands {
		var err error
		switch cmd.Op {
		case layout.OpText:
			err = r.drawText(ctx, cmd)
		case layout.OpLine:
			drawLine(ctx, cmd)
		case layout.OpRect:
			drawRect(ctx, cmd)
		case layout.OpImage:
			err = r.drawImage(ctx, cmd)
		case layout.OpMoveTo:
			// 仅作定位提示，canvas 使用绝对坐标
		default:
			err = fmt.Errorf("未知的绘制指令 %q", cmd.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, cmd layout.Command) error {
	if cmd.Text == "" {
		return nil
	}
	face, err := r.face(cmd.Font, cmd.Size)
	if err != nil {
		return err
	}
	align := canvas.Left
	switch cmd.Anchor {
	case layout.AnchorRight:
		align = canvas.Right
	case layout.AnchorCenter:
		align = canvas.Center
	}
	ctx.DrawText(mm(cmd.X), mm(cmd.Y), canvas.NewTextLine(face, cmd.Text, align))
	return nil
}

func drawLine(ctx *canvas.Context, cmd layout.Command) {
	w := cmd.LineWidth
	if w <= 0 {
		w = defaultStrokePt
	}
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(strokeColor)
	ctx.SetStrokeWidth(mm(w))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(mm(cmd.X2-cmd.X), mm(cmd.Y2-cmd.Y))
	ctx.DrawPath(mm(cmd.X), mm(cmd.Y), p)
}

func drawRect(ctx *canvas.Context, cmd layout.Command) {
	if cmd.Fill {
		ctx.SetFillColor(headerFill)
	} else {
		ctx.SetFillColor(transparent)
	}
	ctx.SetStrokeColor(strokeColor)
	ctx.SetStrokeWidth(mm(defaultStrokePt / 2))
	ctx.DrawPath(mm(cmd.X), mm(cmd.Y), canvas.Rectangle(mm(cmd.Width), mm(cmd.Height)))
}

// drawImage 绘制注入的图片；未提供图片数据时绘制同尺寸的占位框。
func (r *Renderer) drawImage(ctx *canvas.Context, cmd layout.Command) error {
	blob, ok := r.imageBlobs[cmd.Ref]
	if !ok {
		drawRect(ctx, layout.Command{Op: layout.OpRect, X: cmd.X, Y: cmd.Y, Width: cmd.Width, Height: cmd.Height})
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", cmd.Ref, err)
	}
	width := mm(cmd.Width)
	dpmm := 1.0
	if width > 0 && img.Bounds().Dx() > 0 {
		dpmm = float64(img.Bounds().Dx()) / width
	}
	ctx.DrawImage(mm(cmd.X), mm(cmd.Y), img, canvas.DPMM(dpmm))
	return nil
}

// mm 将点(pt)转换为毫米(mm)。
func mm(pt float64) float64 { return pt * layout.PtToMm }
