package content

// 该文件定义内容模型：调用方产出的不可变块（标题、段落、键值、表格）。
// 布局引擎只读取这些值，从不修改。

// 内置样式名，布局阶段的 StyleRegistry 必须提供同名样式。
const (
	StyleTitle    = "title"
	StyleSubtitle = "subtitle"
	StyleBody     = "body"
	StyleBullet   = "bullet"
	StyleNumbered = "numbered"
	StyleKeyValue = "keyvalue"
)

// Emphasis 表示 Run 的强调状态。
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisBold
)

// Run 是段落内共享同一强调状态的连续文本。
type Run struct {
	Text     string   `json:"text"`
	Emphasis Emphasis `json:"emphasis,omitempty"`
}

// Kind 标识块的具体类型。
type Kind string

const (
	KindTitle     Kind = "title"
	KindParagraph Kind = "paragraph"
	KindKeyValue  Kind = "keyvalue"
	KindTable     Kind = "table"
)

// Block 是封闭的块类型集合：Title、Paragraph、KeyValue、Table。
type Block interface {
	Kind() Kind
	isBlock()
}

// Title 为单行或可折行的标题文字，不会被跨页拆分。
type Title struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// Paragraph 由有序的 Run 组成，按样式折行与对齐。
type Paragraph struct {
	Runs  []Run  `json:"runs"`
	Style string `json:"style"`
}

// KeyValue 渲染为「标签: 值」一行，标签加粗。
type KeyValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Row 是表格的一行数据，单元格顺序与表头一致。
type Row struct {
	Cells []string `json:"cells"`
}

// Table 描述表头、数据行与列宽（pt）。Widths 为空时由布局均分可用宽度。
// Align 可选，逐列给出 left/center/right。
type Table struct {
	Header []string  `json:"header"`
	Rows   []Row     `json:"rows"`
	Widths []float64 `json:"widths,omitempty"`
	Align  []string  `json:"align,omitempty"`
}

func (Title) Kind() Kind     { return KindTitle }
func (Paragraph) Kind() Kind { return KindParagraph }
func (KeyValue) Kind() Kind  { return KindKeyValue }
func (Table) Kind() Kind     { return KindTable }

func (Title) isBlock()     {}
func (Paragraph) isBlock() {}
func (KeyValue) isBlock()  {}
func (Table) isBlock()     {}

// Columns 返回表格列数（取表头与各行的最大值）。
func (t Table) Columns() int {
	n := len(t.Header)
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// Metadata 保存页眉页脚需要的文档信息。Amount 为调用方已格式化的金额文本。
type Metadata struct {
	Client   string `json:"client"`
	Title    string `json:"title"`
	Validity string `json:"validity"`
	Amount   string `json:"amount,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Logo     string `json:"logo,omitempty"`
}

// Document 是一次布局的完整输入。
type Document struct {
	Meta   Metadata `json:"meta"`
	Blocks []Block  `json:"-"`
}

// Text 返回段落的纯文本（去除强调）。
func (p Paragraph) Text() string {
	n := 0
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}
