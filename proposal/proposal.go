// Package proposal 组装交由 layout 排版的商务方案与技术方案文档。
package proposal

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/quire/content"
	"github.com/ByLCY/quire/money"
	"github.com/ByLCY/quire/pricing"
)

// TechnicalHeading 是技术方案的页眉标题。
const TechnicalHeading = "PROPOSTA TÉCNICA"

// Input 是商务方案的输入。MonthlyAmount 为已格式化的月度金额，例如 "R$ 12.345,67"。
type Input struct {
	Client           string `json:"client"`
	Title            string `json:"title"`
	Validity         string `json:"validity"`
	Contact          string `json:"contact,omitempty"`
	Logo             string `json:"logo,omitempty"`
	ExecutiveSummary string `json:"executiveSummary"`
	CommercialText   string `json:"commercialText"`
	MonthlyAmount    string `json:"monthlyAmount"`
}

// Meta 返回页眉页脚使用的文档信息。
func (in Input) Meta() content.Metadata {
	return content.Metadata{
		Client:   in.Client,
		Title:    in.Title,
		Validity: in.Validity,
		Amount:   in.MonthlyAmount,
		Contact:  in.Contact,
		Logo:     in.Logo,
	}
}

// Commercial 生成商务方案：执行摘要、商务摘要与合同金额（月度及 12 个月）。
// 月度金额无法解析时返回 money.ErrMalformedCurrency。
func Commercial(in Input) (content.Document, error) {
	monthly, err := money.ParseBRL(in.MonthlyAmount)
	if err != nil {
		return content.Document{}, fmt.Errorf("解析月度金额失败: %w", err)
	}

	var blocks []content.Block
	blocks = append(blocks, section("Resumo Executivo")...)
	blocks = append(blocks, content.Parse(in.ExecutiveSummary)...)
	blocks = append(blocks, section("Resumo Comercial")...)
	blocks = append(blocks, content.Parse(in.CommercialText)...)
	blocks = append(blocks, section("Valores do Contrato")...)
	blocks = append(blocks,
		content.KeyValue{Label: "Valor mensal do contrato", Value: money.FormatBRL(monthly)},
		content.KeyValue{Label: "Valor anual do contrato (12 meses)", Value: money.FormatBRL(monthly * 12)},
	)
	return content.Document{Meta: in.Meta(), Blocks: blocks}, nil
}

// Technical 生成技术方案：岗位成本表、各岗位税费明细与财务汇总。
// 页眉标题固定为 TechnicalHeading。
func Technical(q pricing.Quote, meta content.Metadata) content.Document {
	meta.Title = TechnicalHeading
	if meta.Amount == "" {
		meta.Amount = money.FormatBRL(q.Totals.FinalPrice)
	}

	var blocks []content.Block
	blocks = append(blocks, section("Custos por Cargo")...)
	blocks = append(blocks, costTable(q.Lines))

	blocks = append(blocks, section("Impostos por Cargo")...)
	for _, l := range q.Lines {
		blocks = append(blocks,
			content.Title{Text: l.Role, Style: content.StyleSubtitle},
			taxTable(l.TaxDetail),
			content.KeyValue{Label: "Total de Impostos do Cargo", Value: money.FormatBRL(l.Taxes)},
		)
	}

	blocks = append(blocks, section("Resumo Financeiro")...)
	blocks = append(blocks,
		content.Paragraph{Style: content.StyleBody, Runs: []content.Run{
			{Text: "Regime tributário: "},
			{Text: q.Regime, Emphasis: content.EmphasisBold},
			{Text: " | Margem de lucro: "},
			{Text: money.FormatPercent(q.Margin), Emphasis: content.EmphasisBold},
		}},
		content.KeyValue{Label: "Custo CLT Total", Value: money.FormatBRL(q.Totals.CLTCost)},
		content.KeyValue{Label: "Impostos Totais", Value: money.FormatBRL(q.Totals.Taxes)},
		content.KeyValue{Label: "Lucro Mensal Total", Value: money.FormatBRL(q.Totals.Profit)},
		content.KeyValue{Label: "Valor da Nota Fiscal", Value: money.FormatBRL(q.Totals.FinalPrice)},
	)
	return content.Document{Meta: meta, Blocks: blocks}
}

func section(title string) []content.Block {
	return []content.Block{content.Title{Text: title, Style: content.StyleTitle}}
}

func costTable(lines []pricing.RoleLine) content.Table {
	t := content.Table{
		Header: []string{"Cargo", "Qtd", "Custo Unitário", "Custo Total", "Impostos", "Preço Total"},
		Widths: []float64{130, 40, 75, 75, 65, 75},
		Align:  []string{"left", "center", "right", "right", "right", "right"},
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, content.Row{Cells: []string{
			l.Role,
			strconv.Itoa(l.Quantity),
			money.FormatBRL(l.UnitCost),
			money.FormatBRL(l.TotalCost),
			money.FormatBRL(l.Taxes),
			money.FormatBRL(l.TotalPrice),
		}})
	}
	return t
}

func taxTable(detail pricing.Breakdown) content.Table {
	t := content.Table{
		Header: []string{"Imposto", "Valor"},
		Widths: []float64{200, 100},
		Align:  []string{"left", "right"},
	}
	for _, a := range detail {
		t.Rows = append(t.Rows, content.Row{Cells: []string{a.Name, money.FormatBRL(a.Value)}})
	}
	return t
}
