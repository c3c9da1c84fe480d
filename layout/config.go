package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 表示页面几何不合法（例如正文区域高度不为正）。
var ErrInvalidConfig = errors.New("layout: 无效的页面配置")

// Margin 页面四边距（pt）。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Config 描述页面几何，所有长度单位为 pt。
// 页眉带位于上边距之下，高 HeaderHeight，下方再留 HeaderGap；页脚带位于下边距之上，高 FooterHeight。
type Config struct {
	PageWidth      float64 `json:"pageWidth"`
	PageHeight     float64 `json:"pageHeight"`
	Margin         Margin  `json:"margin"`
	HeaderHeight   float64 `json:"headerHeight"`
	HeaderGap      float64 `json:"headerGap"`
	FooterHeight   float64 `json:"footerHeight"`
	TableRowHeight float64 `json:"tableRowHeight"`
	CellPadding    float64 `json:"cellPadding"`
	LogoWidth      float64 `json:"logoWidth"`
	LogoHeight     float64 `json:"logoHeight"`
	RuleWidth      float64 `json:"ruleWidth"`
}

// DefaultConfig 返回 A4 纵向的默认版式。
func DefaultConfig() Config {
	return Config{
		PageWidth:      210 * MmToPt,
		PageHeight:     297 * MmToPt,
		Margin:         Margin{Top: 2.5 * Cm, Right: 2.5 * Cm, Bottom: 1.5 * Cm, Left: 2.5 * Cm},
		HeaderHeight:   4 * Cm,
		HeaderGap:      28,
		FooterHeight:   1.5 * Cm,
		TableRowHeight: 18,
		CellPadding:    4,
		LogoWidth:      3.2 * Cm,
		LogoHeight:     3.2 * Cm,
		RuleWidth:      0.5,
	}
}

// UsableWidth 正文可用宽度。
func (c Config) UsableWidth() float64 { return c.PageWidth - c.Margin.Left - c.Margin.Right }

// HeaderBottom 正文区域上沿，游标在新页上从这里开始。
func (c Config) HeaderBottom() float64 {
	return c.PageHeight - c.Margin.Top - c.HeaderHeight - c.HeaderGap
}

// FooterTop 正文区域下沿，同时是页脚分隔线的位置。
func (c Config) FooterTop() float64 { return c.Margin.Bottom + c.FooterHeight }

// UsableHeight 每页正文区域高度。
func (c Config) UsableHeight() float64 { return c.HeaderBottom() - c.FooterTop() }

// Validate 检查几何是否可用于排版。
func (c Config) Validate() error {
	switch {
	case c.PageWidth <= 0 || c.PageHeight <= 0:
		return fmt.Errorf("%w: 页面尺寸 %gx%g", ErrInvalidConfig, c.PageWidth, c.PageHeight)
	case c.Margin.Top < 0 || c.Margin.Right < 0 || c.Margin.Bottom < 0 || c.Margin.Left < 0:
		return fmt.Errorf("%w: 边距不能为负 %+v", ErrInvalidConfig, c.Margin)
	case c.HeaderHeight < 0 || c.HeaderGap < 0 || c.FooterHeight < 0:
		return fmt.Errorf("%w: 页眉/页脚高度不能为负", ErrInvalidConfig)
	case c.UsableWidth() <= 0:
		return fmt.Errorf("%w: 正文宽度 %g", ErrInvalidConfig, c.UsableWidth())
	case c.UsableHeight() <= 0:
		return fmt.Errorf("%w: 正文高度 %g", ErrInvalidConfig, c.UsableHeight())
	case c.TableRowHeight <= 0:
		return fmt.Errorf("%w: 表格行高 %g", ErrInvalidConfig, c.TableRowHeight)
	case c.CellPadding < 0:
		return fmt.Errorf("%w: 单元格内边距 %g", ErrInvalidConfig, c.CellPadding)
	}
	return nil
}
