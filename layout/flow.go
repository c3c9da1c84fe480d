package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/quire/content"
)

// ascentRatio 近似字体上升部占字号的比例，用于由行顶推算基线。
const ascentRatio = 0.8

// layoutState 是第一遍排版的可变状态：当前页序号、纵向游标与已完成的页。
// 仅由一次 Build 调用持有，不跨调用共享。
type layoutState struct {
	page    int
	cursor  float64
	current []Command
	pages   []Page
}

func newLayoutState(top float64) *layoutState {
	return &layoutState{page: 1, cursor: top}
}

func (s *layoutState) emit(cmds ...Command) { s.current = append(s.current, cmds...) }

func (s *layoutState) closePage() {
	s.pages = append(s.pages, Page{Index: s.page, Commands: s.current})
	s.current = nil
}

func (s *layoutState) newPage(top float64) {
	s.closePage()
	s.page++
	s.cursor = top
}

func (s *layoutState) finish() []Page {
	s.closePage()
	return s.pages
}

type flowState int

const (
	stateAwaitingBlock flowState = iota
	stateRendering
	statePageBreakPending
	stateDone
)

func (s flowState) String() string {
	switch s {
	case stateAwaitingBlock:
		return "awaiting-block"
	case stateRendering:
		return "rendering"
	case statePageBreakPending:
		return "page-break-pending"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("flowState(%d)", int(s))
}

type tableLayout struct {
	cols      []float64
	align     []Align
	header    []string
	rows      []content.Row
	headStyle Style
}

// placement 是已测量、等待放置的块。lines 或 table.rows 为可拆分的放置单位。
type placement struct {
	kind    content.Kind
	style   Style
	x       float64
	lines   []Line
	table   *tableLayout
	unitH   float64
	headH   float64 // 每个片段都会重复的表头高度
	next    int
	started bool
}

func (p *placement) units() int {
	if p.table != nil {
		return len(p.table.rows)
	}
	return len(p.lines)
}

func (p *placement) remaining() int { return p.units() - p.next }

func (p *placement) lead() float64 {
	if p.started {
		return 0
	}
	return p.style.SpaceBefore
}

// height 返回放置 k 个单位所需的高度，不含段后距。
func (p *placement) height(k int) float64 {
	return p.lead() + p.headH + float64(k)*p.unitH
}

// fitting 返回 avail 高度内可放下的单位数（不含段后距）。
func (p *placement) fitting(avail float64) int {
	room := avail - p.lead() - p.headH
	if room < 0 {
		return 0
	}
	return int(math.Floor((room + widthEpsilon) / p.unitH))
}

// flow 驱动块在页面间流动：等待块 → 渲染 → (必要时) 换页 → … → 完成。
type flow struct {
	cfg      Config
	styles   *StyleRegistry
	measurer Measurer
	top      float64
	bottom   float64
	state    flowState
	st       *layoutState
	pending  *placement
}

func newFlow(cfg Config, styles *StyleRegistry, m Measurer) *flow {
	top := cfg.HeaderBottom()
	return &flow{
		cfg:      cfg,
		styles:   styles,
		measurer: m,
		top:      top,
		bottom:   cfg.FooterTop(),
		st:       newLayoutState(top),
	}
}

// run 依次放置所有块，返回仅含正文的页面序列（至少一页）。
func (f *flow) run(blocks []content.Block) ([]Page, error) {
	next := 0
	f.state = stateAwaitingBlock
	for f.state != stateDone {
		switch f.state {
		case stateAwaitingBlock:
			if next >= len(blocks) {
				f.state = stateDone
				continue
			}
			p, err := f.prepare(blocks[next])
			if err != nil {
				return nil, fmt.Errorf("layout: 第 %d 个块: %w", next+1, err)
			}
			next++
			if p == nil {
				continue
			}
			f.pending = p
			f.state = stateRendering
		case stateRendering:
			f.state = f.render()
		case statePageBreakPending:
			f.st.newPage(f.top)
			f.state = stateRendering
		}
	}
	f.pending = nil
	return f.st.finish(), nil
}

func (f *flow) atTop() bool { return f.st.cursor >= f.top-widthEpsilon }

// render 尽可能多地放置 pending 块并给出下一状态。
// 能完整放进空白页的块不拆分；更高的块从当前页开始按行/表格行拆分。
// 段后距不参与容纳判断，换页时被吸收。
// 空白页连一个单位都放不下时强制放置一个单位，保证总能前进。
func (f *flow) render() flowState {
	p := f.pending
	avail := f.st.cursor - f.bottom
	rem := p.remaining()
	need := p.height(rem)
	if need <= avail+widthEpsilon {
		f.place(p, rem, true)
		return stateAwaitingBlock
	}
	atTop := f.atTop()
	if !atTop && need <= f.top-f.bottom+widthEpsilon {
		return statePageBreakPending
	}
	k := p.fitting(avail)
	if k >= rem {
		f.place(p, rem, true)
		return stateAwaitingBlock
	}
	if k > 0 {
		f.place(p, k, false)
		return statePageBreakPending
	}
	if !atTop {
		return statePageBreakPending
	}
	f.place(p, 1, rem == 1)
	if p.remaining() == 0 {
		return stateAwaitingBlock
	}
	return statePageBreakPending
}

func (f *flow) place(p *placement, k int, final bool) {
	y := f.st.cursor
	f.st.emit(MoveTo(p.x, y))
	if !p.started {
		y -= p.style.SpaceBefore
		p.started = true
	}
	if t := p.table; t != nil {
		if p.headH > 0 {
			y = f.drawRow(t, t.header, y, t.headStyle, true)
		}
		for _, row := range t.rows[p.next : p.next+k] {
			y = f.drawRow(t, row.Cells, y, p.style, false)
		}
	} else {
		for _, ln := range p.lines[p.next : p.next+k] {
			f.drawLine(p, ln, y)
			y -= p.unitH
		}
	}
	p.next += k
	if final {
		y -= p.style.SpaceAfter
	}
	f.st.cursor = math.Max(y, f.bottom)
}

func (f *flow) prepare(b content.Block) (*placement, error) {
	switch blk := b.(type) {
	case content.Title:
		return f.prepareText(blk.Kind(), pick(blk.Style, content.StyleTitle), []content.Run{{Text: blk.Text}})
	case content.Paragraph:
		return f.prepareText(blk.Kind(), pick(blk.Style, content.StyleBody), blk.Runs)
	case content.KeyValue:
		label := strings.TrimSpace(blk.Label)
		if !strings.HasSuffix(label, ":") {
			label += ":"
		}
		runs := []content.Run{{Text: label, Emphasis: content.EmphasisBold}, {Text: " " + blk.Value}}
		return f.prepareText(blk.Kind(), content.StyleKeyValue, runs)
	case content.Table:
		return f.prepareTable(blk)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("不支持的块类型 %T", b)
	}
}

func pick(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (f *flow) prepareText(kind content.Kind, styleName string, runs []content.Run) (*placement, error) {
	style, err := f.styles.Style(styleName)
	if err != nil {
		return nil, err
	}
	width := f.cfg.UsableWidth() - style.Indent
	return &placement{
		kind:  kind,
		style: style,
		x:     f.cfg.Margin.Left + style.Indent,
		lines: Wrap(runs, width, style, f.measurer),
		unitH: style.Leading,
	}, nil
}

func (f *flow) prepareTable(t content.Table) (*placement, error) {
	n := t.Columns()
	if n == 0 {
		return nil, nil
	}
	head, err := f.styles.Style(StyleTableHeader)
	if err != nil {
		return nil, err
	}
	cell, err := f.styles.Style(StyleTableCell)
	if err != nil {
		return nil, err
	}
	align := make([]Align, n)
	for i := range align {
		align[i] = AlignLeft
		if i < len(t.Align) {
			if a, ok := ParseAlign(t.Align[i]); ok && a != AlignJustify {
				align[i] = a
			}
		}
	}
	p := &placement{
		kind:  t.Kind(),
		style: cell,
		x:     f.cfg.Margin.Left,
		table: &tableLayout{
			cols:      columnWidths(t.Widths, n, f.cfg.UsableWidth()),
			align:     align,
			header:    t.Header,
			rows:      t.Rows,
			headStyle: head,
		},
		unitH: f.cfg.TableRowHeight,
	}
	if len(t.Header) > 0 {
		p.headH = f.cfg.TableRowHeight
	}
	return p, nil
}

// columnWidths 规范化列宽：缺失或非正值时均分；总和超出可用宽度时等比缩小。
func columnWidths(widths []float64, n int, usable float64) []float64 {
	out := make([]float64, n)
	sum := 0.0
	valid := len(widths) == n
	for i := 0; valid && i < n; i++ {
		if widths[i] <= 0 {
			valid = false
		}
		sum += widths[i]
	}
	if !valid {
		for i := range out {
			out[i] = usable / float64(n)
		}
		return out
	}
	scale := 1.0
	if sum > usable {
		scale = usable / sum
	}
	for i := range out {
		out[i] = widths[i] * scale
	}
	return out
}

// drawLine 在行顶 top 处绘制一行。非两端对齐的行合并同字体的相邻单词。
func (f *flow) drawLine(p *placement, ln Line, top float64) {
	s := p.style
	baseline := top - (s.Leading-s.Size)/2 - s.Size*ascentRatio
	merge := !(s.Align == AlignJustify && !ln.Last && len(ln.Words) >= 2)
	emitWords(f.st, ln, p.x+ln.Offset, baseline, s.Size, merge)
}

func emitWords(st *layoutState, ln Line, x, baseline, size float64, merge bool) {
	var (
		seg  strings.Builder
		font string
		segX float64
		open bool
	)
	flush := func() {
		if open {
			st.emit(DrawText(seg.String(), segX, baseline, font, size))
			seg.Reset()
			open = false
		}
	}
	for i, w := range ln.Words {
		if i > 0 {
			if merge && open && w.Fragments[0].Font == font {
				seg.WriteByte(' ')
			} else {
				flush()
			}
			x += ln.Gap
		}
		for _, fr := range w.Fragments {
			if open && fr.Font != font {
				flush()
			}
			if !open {
				segX, font, open = x, fr.Font, true
			}
			seg.WriteString(fr.Text)
			x += fr.Width
		}
	}
	flush()
}

// drawRow 绘制一行表格（表头时填充底色），返回下一行的行顶。
func (f *flow) drawRow(t *tableLayout, cells []string, top float64, style Style, header bool) float64 {
	rowH := f.cfg.TableRowHeight
	pad := f.cfg.CellPadding
	baseline := top - rowH/2 - style.Size*0.35
	x := f.cfg.Margin.Left
	for c, w := range t.cols {
		f.st.emit(DrawRect(x, top-rowH, w, rowH, header))
		text := ""
		if c < len(cells) {
			text = fitText(strings.TrimSpace(cells[c]), style.Font, style.Size, w-2*pad, f.measurer)
		}
		if text != "" {
			tw := f.measurer.TextWidth(text, style.Font, style.Size)
			tx := x + pad
			switch t.align[c] {
			case AlignRight:
				tx = x + w - pad - tw
			case AlignCenter:
				tx = x + (w-tw)/2
			}
			f.st.emit(DrawText(text, tx, baseline, style.Font, style.Size))
		}
		x += w
	}
	return top - rowH
}
