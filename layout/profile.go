package layout

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/dsl"
)

// Profile 是由配置文件得到的完整版式：页面几何、样式表与页眉页脚文案。
type Profile struct {
	Name   string
	Config Config
	Styles *StyleRegistry
	Chrome Chrome
}

// DefaultProfile 返回内置版式。
func DefaultProfile() Profile {
	return Profile{Name: "default", Config: DefaultConfig(), Styles: DefaultStyles(), Chrome: DefaultChrome()}
}

// LoadProfile 解析配置文件并叠加到内置版式上。
func LoadProfile(r io.Reader) (Profile, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: 解析失败: %w", err)
	}
	return FromProfile(doc)
}

// FromProfile 将配置文件 AST 转换为 Profile。未出现的属性保留内置默认值；
// 与内置样式同名且未声明 extends 的样式在内置样式基础上覆盖。
func FromProfile(doc *dsl.Document) (Profile, error) {
	if doc == nil {
		return Profile{}, fmt.Errorf("profile: 文档为空")
	}
	p := DefaultProfile()
	p.Name = doc.Name
	raw := map[string]rawStyle{}
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Page != nil:
			err = applyPage(&p.Config, section.Page)
		case section.Styles != nil:
			err = collectStyles(raw, section.Styles.Block)
		case section.Chrome != nil:
			err = applyChrome(&p.Chrome, section.Chrome.Block)
		}
		if err != nil {
			return Profile{}, err
		}
	}
	if err := p.Config.Validate(); err != nil {
		return Profile{}, err
	}
	styles, err := resolveStyles(raw, p.Styles)
	if err != nil {
		return Profile{}, err
	}
	if p.Styles, err = p.Styles.With(styles...); err != nil {
		return Profile{}, err
	}
	return p, nil
}

var pagePresets = map[string][2]float64{
	"A4":     {210 * MmToPt, 297 * MmToPt},
	"A5":     {148 * MmToPt, 210 * MmToPt},
	"LETTER": {612, 792},
}

func applyPage(cfg *Config, section *dsl.PageSection) error {
	size, ok := pagePresets[strings.ToUpper(section.Spec.Size)]
	if !ok {
		return fmt.Errorf("%w: 暂不支持的纸张尺寸：%s", ErrInvalidConfig, section.Spec.Size)
	}
	cfg.PageWidth, cfg.PageHeight = size[0], size[1]
	params := section.Spec.Params
	for i := 0; i < len(params); i++ {
		switch params[i].Value {
		case "landscape":
			cfg.PageWidth, cfg.PageHeight = size[1], size[0]
		case "portrait":
			cfg.PageWidth, cfg.PageHeight = size[0], size[1]
		case "margin":
			var vals []float64
			for j := i + 1; j < len(params) && len(vals) < 4 && params[j].Kind == dsl.ArgNumber; j++ {
				v, err := lengthPT(params[j].Value)
				if err != nil {
					return err
				}
				vals = append(vals, v)
				i = j
			}
			// CSS 语义：1 值四边相同；2 值上下/左右；3 值上/左右/下；4 值上/右/下/左
			switch len(vals) {
			case 0:
				return fmt.Errorf("%w: margin 缺少取值", ErrInvalidConfig)
			case 1:
				cfg.Margin = Margin{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
			case 2:
				cfg.Margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
			case 3:
				cfg.Margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
			default:
				cfg.Margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
			}
		default:
			return fmt.Errorf("%w: 未知的页面参数 %q", ErrInvalidConfig, params[i].Value)
		}
	}
	if section.Block == nil {
		return nil
	}
	fields := map[string]*float64{
		"header-height": &cfg.HeaderHeight,
		"header-gap":    &cfg.HeaderGap,
		"footer-height": &cfg.FooterHeight,
		"row-height":    &cfg.TableRowHeight,
		"cell-padding":  &cfg.CellPadding,
		"logo-width":    &cfg.LogoWidth,
		"logo-height":   &cfg.LogoHeight,
		"rule-width":    &cfg.RuleWidth,
	}
	for _, st := range section.Block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("%w: page 段落只允许属性赋值", ErrInvalidConfig)
		}
		v, err := lengthPT(a.Value.Text())
		if err != nil {
			return err
		}
		if a.Key == "logo" {
			cfg.LogoWidth, cfg.LogoHeight = v, v
			continue
		}
		dst, ok := fields[a.Key]
		if !ok {
			return fmt.Errorf("%w: 未知的页面属性 %s", ErrInvalidConfig, a.Key)
		}
		*dst = v
	}
	return nil
}

func lengthPT(v string) (float64, error) {
	l, ok := ParseRawLengthStr(v)
	if !ok {
		return 0, fmt.Errorf("%w: 无法解析长度 %q", ErrInvalidConfig, v)
	}
	return l.ToPT(), nil
}

type rawStyle struct {
	name    string
	extends string
	props   map[string]string
}

func collectStyles(raw map[string]rawStyle, block *dsl.Block) error {
	for _, st := range block.Statements {
		cmd := st.Command
		if cmd == nil || cmd.Name != "style" || len(cmd.Args) == 0 {
			return fmt.Errorf("%w: styles 段落只允许 style 声明", ErrInvalidStyle)
		}
		rs := rawStyle{name: cmd.Args[0].Value, props: map[string]string{}}
		if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
			rs.extends = cmd.Args[2].Value
		}
		if cmd.Block != nil {
			for _, prop := range cmd.Block.Statements {
				if prop.Assignment == nil {
					return fmt.Errorf("%w: style %s 只允许属性赋值", ErrInvalidStyle, rs.name)
				}
				rs.props[prop.Assignment.Key] = prop.Assignment.Value.Text()
			}
		}
		raw[rs.name] = rs
	}
	return nil
}

// resolveStyles 按 extends 关系深度优先展开样式，检测循环继承。
// 未声明 extends 的样式以同名内置样式为基础。
func resolveStyles(raw map[string]rawStyle, base *StyleRegistry) ([]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		rs, ok := raw[name]
		if !ok {
			if style, ok := base.Lookup(name); ok {
				return style, nil
			}
			return Style{}, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("%w: style 继承存在循环：%s", ErrInvalidStyle, name)
		}
		visiting[name] = true

		var parent Style
		if rs.extends != "" {
			p, err := dfs(rs.extends)
			if err != nil {
				return Style{}, err
			}
			parent = p
		} else if style, ok := base.Lookup(name); ok {
			parent = style
		}
		style, err := applyStyleProps(parent, rs.props)
		if err != nil {
			return Style{}, fmt.Errorf("style %s: %w", name, err)
		}
		style.Name = name
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Style, 0, len(names))
	for _, name := range names {
		style, err := dfs(name)
		if err != nil {
			return nil, err
		}
		out = append(out, style)
	}
	return out, nil
}

func applyStyleProps(s Style, props map[string]string) (Style, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := props[k]
		switch k {
		case "font":
			s.Font = v
		case "bold", "bold-font":
			s.BoldFont = v
		case "align":
			a, ok := ParseAlign(v)
			if !ok {
				return s, fmt.Errorf("%w: 对齐方式 %q", ErrInvalidStyle, v)
			}
			s.Align = a
		case "size", "before", "space-before", "after", "space-after", "indent":
			l, ok := ParseRawLengthStr(v)
			if !ok {
				return s, fmt.Errorf("%w: %s 无法解析 %q", ErrInvalidStyle, k, v)
			}
			switch k {
			case "size":
				s.Size = l.ToPT()
			case "before", "space-before":
				s.SpaceBefore = l.ToPT()
			case "after", "space-after":
				s.SpaceAfter = l.ToPT()
			default:
				s.Indent = l.ToPT()
			}
		case "leading", "line-height":
			// 字号确定后再解析
		default:
			return s, fmt.Errorf("%w: 未知属性 %s", ErrInvalidStyle, k)
		}
	}
	for _, k := range []string{"leading", "line-height"} {
		if v, ok := props[k]; ok {
			lh, ok := ParseLineHeight(v)
			if !ok {
				return s, fmt.Errorf("%w: 行距 %q", ErrInvalidStyle, v)
			}
			s.Leading = lh.Resolve(s.Size)
		}
	}
	return s, nil
}

func applyChrome(c *Chrome, block *dsl.Block) error {
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("profile: chrome 段落只允许属性赋值")
		}
		v := a.Value.Text()
		switch a.Key {
		case "heading":
			c.Heading = v
		case "client":
			c.ClientFormat = v
		case "validity":
			c.ValidityFormat = v
		case "page-format":
			c.PageFormat = v
		case "contact":
			c.Contact = v
		case "title-lines":
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("profile: title-lines 必须为正整数，实际 %q", v)
			}
			c.TitleMaxLines = n
		case "logo":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("profile: logo 必须为 true/false，实际 %q", v)
			}
			c.Logo = b
		default:
			return fmt.Errorf("profile: 未知的 chrome 属性 %s", a.Key)
		}
	}
	return nil
}
