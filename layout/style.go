package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ByLCY/quire/content"
)

var (
	// ErrUnknownStyle 表示块引用了注册表中不存在的样式。
	ErrUnknownStyle = errors.New("layout: 未定义的样式")
	// ErrInvalidStyle 表示样式参数不合法（字号或行距不为正等）。
	ErrInvalidStyle = errors.New("layout: 无效的样式")
)

// 页眉、页脚与表格使用的样式名，正文样式名见 content 包。
const (
	StyleHeaderTitle   = "header-title"
	StyleHeaderText    = "header-text"
	StyleFooterPage    = "footer-page"
	StyleFooterContact = "footer-contact"
	StyleTableHeader   = "table-header"
	StyleTableCell     = "table-cell"
)

// Align 段落水平对齐方式。
type Align string

const (
	AlignLeft    Align = "left"
	AlignRight   Align = "right"
	AlignCenter  Align = "center"
	AlignJustify Align = "justify"
)

// ParseAlign 规范化对齐写法，未知值返回 false。
func ParseAlign(v string) (Align, bool) {
	switch v {
	case "", "left", "start":
		return AlignLeft, true
	case "right", "end":
		return AlignRight, true
	case "center":
		return AlignCenter, true
	case "justify":
		return AlignJustify, true
	}
	return "", false
}

// Style 是一个命名的段落样式。BoldFont 用于 ** 强调片段。
type Style struct {
	Name        string  `json:"name"`
	Font        string  `json:"font"`
	BoldFont    string  `json:"boldFont"`
	Size        float64 `json:"size"`
	Leading     float64 `json:"leading"`
	Align       Align   `json:"align"`
	SpaceBefore float64 `json:"spaceBefore"`
	SpaceAfter  float64 `json:"spaceAfter"`
	Indent      float64 `json:"indent,omitempty"`
}

// FontFor 返回某一强调级别对应的字体。
func (s Style) FontFor(e content.Emphasis) string {
	if e == content.EmphasisBold {
		return s.BoldFont
	}
	return s.Font
}

func (s Style) normalized() (Style, error) {
	if s.Name == "" {
		return s, fmt.Errorf("%w: 缺少样式名", ErrInvalidStyle)
	}
	if s.Font == "" {
		return s, fmt.Errorf("%w: %s 缺少字体", ErrInvalidStyle, s.Name)
	}
	if s.Size <= 0 || s.Leading <= 0 {
		return s, fmt.Errorf("%w: %s 字号 %g 行距 %g", ErrInvalidStyle, s.Name, s.Size, s.Leading)
	}
	if s.SpaceBefore < 0 || s.SpaceAfter < 0 || s.Indent < 0 {
		return s, fmt.Errorf("%w: %s 间距不能为负", ErrInvalidStyle, s.Name)
	}
	align, ok := ParseAlign(string(s.Align))
	if !ok {
		return s, fmt.Errorf("%w: %s 对齐方式 %q", ErrInvalidStyle, s.Name, s.Align)
	}
	s.Align = align
	if s.BoldFont == "" {
		s.BoldFont = s.Font
	}
	return s, nil
}

// StyleRegistry 是只读的样式表，构造后不再修改，可在多个 goroutine 间共享。
type StyleRegistry struct {
	styles map[string]Style
}

// NewStyleRegistry 校验并登记样式，同名样式以后出现者为准。
func NewStyleRegistry(styles ...Style) (*StyleRegistry, error) {
	r := &StyleRegistry{styles: make(map[string]Style, len(styles))}
	for _, s := range styles {
		ns, err := s.normalized()
		if err != nil {
			return nil, err
		}
		r.styles[ns.Name] = ns
	}
	return r, nil
}

// Lookup 按名称查找样式。
func (r *StyleRegistry) Lookup(name string) (Style, bool) {
	if r == nil {
		return Style{}, false
	}
	s, ok := r.styles[name]
	return s, ok
}

// Style 与 Lookup 相同，但在缺失时返回 ErrUnknownStyle。
func (r *StyleRegistry) Style(name string) (Style, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return s, nil
}

// Names 返回排序后的样式名。
func (r *StyleRegistry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.styles))
	for n := range r.styles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// With 返回在当前样式表基础上覆盖/追加后的新注册表，原表不变。
func (r *StyleRegistry) With(styles ...Style) (*StyleRegistry, error) {
	merged := make([]Style, 0, len(styles)+len(r.Names()))
	for _, n := range r.Names() {
		merged = append(merged, r.styles[n])
	}
	return NewStyleRegistry(append(merged, styles...)...)
}

// DefaultStyleList 返回内置样式，字体为 PDF 标准 14 字体名。
func DefaultStyleList() []Style {
	const (
		regular = "Helvetica"
		bold    = "Helvetica-Bold"
	)
	return []Style{
		{Name: content.StyleTitle, Font: bold, BoldFont: bold, Size: 12, Leading: 15, Align: AlignLeft, SpaceBefore: 6, SpaceAfter: 12},
		{Name: content.StyleSubtitle, Font: bold, BoldFont: bold, Size: 11, Leading: 15, Align: AlignLeft, SpaceBefore: 4, SpaceAfter: 4},
		{Name: content.StyleBody, Font: regular, BoldFont: bold, Size: 11, Leading: 15, Align: AlignJustify, SpaceAfter: 8},
		{Name: content.StyleBullet, Font: regular, BoldFont: bold, Size: 11, Leading: 15, Align: AlignLeft, SpaceAfter: 4, Indent: 12},
		{Name: content.StyleNumbered, Font: regular, BoldFont: bold, Size: 11, Leading: 15, Align: AlignLeft, SpaceAfter: 4, Indent: 12},
		{Name: content.StyleKeyValue, Font: regular, BoldFont: bold, Size: 11, Leading: 15, Align: AlignLeft, SpaceAfter: 4},
		{Name: StyleTableHeader, Font: bold, BoldFont: bold, Size: 9, Leading: 12, Align: AlignLeft},
		{Name: StyleTableCell, Font: regular, BoldFont: bold, Size: 9, Leading: 12, Align: AlignLeft, SpaceBefore: 4, SpaceAfter: 12},
		{Name: StyleHeaderTitle, Font: bold, BoldFont: bold, Size: 14, Leading: 17, Align: AlignRight},
		{Name: StyleHeaderText, Font: regular, BoldFont: bold, Size: 11, Leading: 14, Align: AlignRight},
		{Name: StyleFooterPage, Font: regular, BoldFont: bold, Size: 9, Leading: 11, Align: AlignRight},
		{Name: StyleFooterContact, Font: regular, BoldFont: bold, Size: 8, Leading: 10, Align: AlignCenter},
	}
}

// DefaultStyles 返回内置样式注册表。
func DefaultStyles() *StyleRegistry {
	r, err := NewStyleRegistry(DefaultStyleList()...)
	if err != nil {
		panic(err)
	}
	return r
}
