package layout

// 该文件定义布局结果与绘制指令，供两遍排版、渲染器与调试 JSON 共用。
// 坐标单位为 pt，原点位于页面左下角，y 轴向上。

// Result 保存两遍排版后的页面与文档元信息。
type Result struct {
	Pages  []Page       `json:"pages"`
	Config Config       `json:"config"`
	Meta   DocumentMeta `json:"meta"`
}

// TotalPages 返回总页数。
func (r *Result) TotalPages() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// Page 是一页的有序绘制指令，Index 从 1 开始连续编号。
type Page struct {
	Index    int       `json:"index"`
	Commands []Command `json:"commands"`
}

// Op 标识绘制指令类型。
type Op string

const (
	OpMoveTo Op = "move"
	OpText   Op = "text"
	OpLine   Op = "line"
	OpImage  Op = "image"
	OpRect   Op = "rect"
)

// Anchor 描述文本指令的 X 坐标对应文字的哪一侧，默认左侧。
// 页码等第二遍才确定内容的文本使用 right/center，替换时无需重新测量。
type Anchor string

const (
	AnchorLeft   Anchor = ""
	AnchorCenter Anchor = "center"
	AnchorRight  Anchor = "right"
)

// Command 是一条原始绘制指令。
//   - move:  X/Y 为块起始位置
//   - text:  在基线 (X, Y) 处绘制 Text，字体 Font、字号 Size
//   - line:  (X, Y) → (X2, Y2)，线宽 LineWidth
//   - image: 左下角 (X, Y)、尺寸 Width×Height 的图片占位，Ref 为资源名
//   - rect:  左下角 (X, Y)、尺寸 Width×Height，Fill 为浅灰填充
type Command struct {
	Op        Op      `json:"op"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	X2        float64 `json:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Text      string  `json:"text,omitempty"`
	Font      string  `json:"font,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Anchor    Anchor  `json:"anchor,omitempty"`
	Template  string  `json:"template,omitempty"` // 第二遍替换的模板，例如 "${page} / ${pages}"
	Ref       string  `json:"ref,omitempty"`
	Fill      bool    `json:"fill,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
}

// MoveTo 构造定位指令。
func MoveTo(x, y float64) Command { return Command{Op: OpMoveTo, X: x, Y: y} }

// DrawText 构造文本指令。
func DrawText(text string, x, y float64, font string, size float64) Command {
	return Command{Op: OpText, X: x, Y: y, Text: text, Font: font, Size: size}
}

// DrawLine 构造直线指令。
func DrawLine(x1, y1, x2, y2, width float64) Command {
	return Command{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width}
}

// DrawImagePlaceholder 构造图片占位指令。
func DrawImagePlaceholder(ref string, x, y, w, h float64) Command {
	return Command{Op: OpImage, Ref: ref, X: x, Y: y, Width: w, Height: h}
}

// DrawRect 构造矩形指令。
func DrawRect(x, y, w, h float64, fill bool) Command {
	return Command{Op: OpRect, X: x, Y: y, Width: w, Height: h, Fill: fill}
}

// DocumentMeta 保存 PDF 元信息。Amount 为解析后的金额（未提供时为 0）。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
	Amount   float64  `json:"amount,omitempty"`
}
