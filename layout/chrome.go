package layout

import (
	"github.com/ByLCY/quire/binding"
	"github.com/ByLCY/quire/content"
)

// 页眉/页脚内元素相对于分隔线的垂直偏移。
const (
	titleInset      = 0.5 * Cm // 标题首行基线距上边距
	clientDrop      = 1.1 * Cm // 客户行距标题末行基线
	validityDrop    = 1.0 * Cm // 有效期行距客户行
	pageNumberDrop  = 0.4 * Cm // 页码距页脚分隔线
	contactDrop     = 1.0 * Cm // 联系方式距页脚分隔线
	logoGap         = 0.5 * Cm // 徽标与标题列之间的间距
	logoPlaceholder = "logo"
)

// Chrome 定义每页重复的页眉页脚文案。模板中的 ${client}、${title}、${validity}、
// ${amount}、${contact} 在第一遍替换；引用 ${page} 或 ${pages} 的模板推迟到第二遍。
type Chrome struct {
	Heading        string `json:"heading"`        // 文档未提供标题时的页眉标题
	ClientFormat   string `json:"clientFormat"`   // 例如 "Cliente: ${client}"
	ValidityFormat string `json:"validityFormat"` // 例如 "Validade: ${validity}"
	PageFormat     string `json:"pageFormat"`     // 例如 "${page} / ${pages}"
	Contact        string `json:"contact"`        // 文档未提供联系方式时的页脚文字
	TitleMaxLines  int    `json:"titleMaxLines"`
	Logo           bool   `json:"logo"` // 是否在页眉左侧保留徽标位
}

// DefaultChrome 返回默认页眉页脚文案。
func DefaultChrome() Chrome {
	return Chrome{
		Heading:        "PROPOSTA COMERCIAL",
		ClientFormat:   "${client}",
		ValidityFormat: "Validade: ${validity}",
		PageFormat:     "${page} / ${pages}",
		TitleMaxLines:  2,
		Logo:           true,
	}
}

func (c Chrome) withDefaults() Chrome {
	d := DefaultChrome()
	if c.PageFormat == "" {
		c.PageFormat = d.PageFormat
	}
	if c.TitleMaxLines <= 0 {
		c.TitleMaxLines = d.TitleMaxLines
	}
	return c
}

// chromeBands 是预先排好的页眉与页脚指令，每页复制一份后盖章。
type chromeBands struct {
	header []Command
	footer []Command
}

func metaValues(meta content.Metadata) binding.Values {
	return binding.Values{
		"client":   meta.Client,
		"title":    meta.Title,
		"validity": meta.Validity,
		"amount":   meta.Amount,
		"contact":  meta.Contact,
	}
}

// chromeText 用元数据填充模板；模板依赖页码时保留 Template 供第二遍替换。
func chromeText(tmpl string, values binding.Values, x, y float64, s Style, anchor Anchor) Command {
	text := binding.Interpolate(tmpl, values)
	cmd := DrawText("", x, y, s.Font, s.Size)
	cmd.Anchor = anchor
	if binding.Uses(text, "page") || binding.Uses(text, "pages") {
		cmd.Template = text
		return cmd
	}
	cmd.Text = text
	return cmd
}

// buildChrome 计算页眉（标题、客户、有效期、徽标、分隔线）与页脚（分隔线、页码、联系方式）。
func buildChrome(cfg Config, chrome Chrome, meta content.Metadata, styles *StyleRegistry, m Measurer) (chromeBands, error) {
	var bands chromeBands
	titleStyle, err := styles.Style(StyleHeaderTitle)
	if err != nil {
		return bands, err
	}
	textStyle, err := styles.Style(StyleHeaderText)
	if err != nil {
		return bands, err
	}
	pageStyle, err := styles.Style(StyleFooterPage)
	if err != nil {
		return bands, err
	}
	contactStyle, err := styles.Style(StyleFooterContact)
	if err != nil {
		return bands, err
	}

	values := metaValues(meta)
	left := cfg.Margin.Left
	right := cfg.PageWidth - cfg.Margin.Right
	top := cfg.PageHeight - cfg.Margin.Top
	sepY := top - cfg.HeaderHeight

	titleLeft := left
	if chrome.Logo && cfg.LogoWidth > 0 {
		ref := meta.Logo
		if ref == "" {
			ref = logoPlaceholder
		}
		logoY := sepY + (cfg.HeaderHeight-cfg.LogoHeight)/2
		bands.header = append(bands.header, DrawImagePlaceholder(ref, left, logoY, cfg.LogoWidth, cfg.LogoHeight))
		titleLeft = left + cfg.LogoWidth + logoGap
	}

	heading := meta.Title
	if heading == "" {
		heading = chrome.Heading
	}
	baseline := top - titleInset
	if heading != "" {
		lines := Wrap([]content.Run{{Text: heading}}, right-titleLeft, titleStyle, m)
		if len(lines) > chrome.TitleMaxLines {
			lines = lines[:chrome.TitleMaxLines]
		}
		for i, ln := range lines {
			if i > 0 {
				baseline -= titleStyle.Leading
			}
			bands.header = append(bands.header, lineCommands(ln, titleLeft+ln.Offset, baseline, titleStyle.Size)...)
		}
	}
	y := baseline
	if meta.Client != "" && chrome.ClientFormat != "" {
		y -= clientDrop
		bands.header = append(bands.header, chromeText(chrome.ClientFormat, values, right, y, textStyle, AnchorRight))
	}
	if meta.Validity != "" && chrome.ValidityFormat != "" {
		y -= validityDrop
		bands.header = append(bands.header, chromeText(chrome.ValidityFormat, values, right, y, textStyle, AnchorRight))
	}
	bands.header = append(bands.header, DrawLine(left, sepY, right, sepY, cfg.RuleWidth))

	footY := cfg.FooterTop()
	bands.footer = append(bands.footer,
		DrawLine(left, footY, right, footY, cfg.RuleWidth),
		chromeText(chrome.PageFormat, values, right, footY-pageNumberDrop, pageStyle, AnchorRight),
	)
	contact := meta.Contact
	if contact == "" {
		contact = chrome.Contact
	}
	if contact != "" {
		bands.footer = append(bands.footer, chromeText(contact, values, cfg.PageWidth/2, footY-contactDrop, contactStyle, AnchorCenter))
	}
	return bands, nil
}

func lineCommands(ln Line, x, baseline, size float64) []Command {
	st := &layoutState{}
	emitWords(st, ln, x, baseline, size, true)
	return st.current
}

// stamp 将页眉页脚复制到页面：页眉在正文之前，页脚在正文之后。
func (b chromeBands) stamp(p *Page) {
	cmds := make([]Command, 0, len(b.header)+len(p.Commands)+len(b.footer))
	cmds = append(cmds, b.header...)
	cmds = append(cmds, p.Commands...)
	cmds = append(cmds, b.footer...)
	p.Commands = cmds
}
