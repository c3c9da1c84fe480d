package layout

import (
	"fmt"

	"github.com/ByLCY/quire/binding"
	"github.com/ByLCY/quire/content"
	"github.com/ByLCY/quire/money"
)

const creator = "Quire"

// Build 对文档做两遍排版并返回每页的绘制指令。
//
// 第一遍放置正文块并在每页盖上页眉页脚，页码处仅留模板；
// 第二遍总页数已知，只替换页码文本，不重新测量或折行，因此两遍的分页完全一致。
// Build 不持有全局状态，可在多个 goroutine 中并发调用。
func Build(doc content.Document, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量器 Measurer")
	}
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	chrome := DefaultChrome()
	if opts.Chrome != nil {
		chrome = opts.Chrome.withDefaults()
	}

	meta := collectMeta(doc.Meta)
	if doc.Meta.Amount != "" {
		amount, err := money.ParseBRL(doc.Meta.Amount)
		if err != nil {
			return nil, fmt.Errorf("layout: 金额字段: %w", err)
		}
		meta.Amount = amount
	}

	bands, err := buildChrome(cfg, chrome, doc.Meta, styles, opts.Measurer)
	if err != nil {
		return nil, err
	}

	// 第一遍
	pages, err := newFlow(cfg, styles, opts.Measurer).run(doc.Blocks)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		bands.stamp(&pages[i])
	}

	// 第二遍
	paginate(pages)

	res := &Result{Pages: pages, Config: cfg, Meta: meta}
	if opts.Debug.Path != "" {
		if err := WriteDebugJSON(res, opts.Debug.Path, opts.Debug.Indent); err != nil {
			return nil, fmt.Errorf("layout: 写入调试 JSON: %w", err)
		}
	}
	return res, nil
}

// paginate 用最终页序号与总页数填充所有带模板的指令。
func paginate(pages []Page) {
	total := len(pages)
	for i := range pages {
		values := binding.Values{"page": pages[i].Index, "pages": total}
		for j := range pages[i].Commands {
			cmd := &pages[i].Commands[j]
			if cmd.Template != "" {
				cmd.Text = binding.Interpolate(cmd.Template, values)
			}
		}
	}
}

func collectMeta(m content.Metadata) DocumentMeta {
	meta := DocumentMeta{
		Title:   m.Title,
		Author:  m.Contact,
		Subject: m.Client,
		Creator: creator,
	}
	for _, kw := range []string{m.Client, m.Validity} {
		if kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	return meta
}
