package pricing

import "fmt"

// Role 是报价中的一个岗位。
type Role struct {
	Name     string  `json:"name"`
	Salary   float64 `json:"salary"`
	Quantity int     `json:"quantity"`
}

// Params 为定价参数：每人福利（例如餐补）、利润率与税制。
type Params struct {
	Benefit float64
	Margin  float64
	Regime  Regime
}

// Totals 是整份报价的汇总金额。
type Totals struct {
	CLTCost    float64
	PreTax     float64
	Taxes      float64
	Profit     float64
	FinalPrice float64
}

// RoleLine 是按成本占比分摊后的单个岗位明细，对应技术方案中的一行表格。
type RoleLine struct {
	Role       string
	Quantity   int
	UnitCost   float64
	TotalCost  float64
	Taxes      float64
	Profit     float64
	UnitProfit float64
	TotalPrice float64
	UnitPrice  float64
	TaxDetail  Breakdown
}

// Quote 是一次定价的完整结果。
type Quote struct {
	Regime    string
	Margin    float64
	Totals    Totals
	TaxDetail Breakdown
	Lines     []RoleLine
}

// Compute 计算全部岗位的 CLT 成本、税前价格、税额与利润，并按各岗位成本占比分摊。
func Compute(roles []Role, p Params) (Quote, error) {
	if len(roles) == 0 {
		return Quote{}, ErrNoRoles
	}
	units := make([]float64, len(roles))
	var total float64
	for i, r := range roles {
		if r.Quantity <= 0 {
			return Quote{}, fmt.Errorf("岗位 %q 的数量必须为正数: %d", r.Name, r.Quantity)
		}
		_, units[i] = CLTCost(r.Salary, p.Benefit)
		total += units[i] * float64(r.Quantity)
	}
	if total <= 0 {
		return Quote{}, fmt.Errorf("总成本必须为正数: %g", total)
	}

	preTax, profit, err := CostPlus(total, p.Margin)
	if err != nil {
		return Quote{}, err
	}
	taxes, detail := p.Regime.Taxes(preTax)

	q := Quote{
		Regime: p.Regime.Name,
		Margin: p.Margin,
		Totals: Totals{
			CLTCost:    total,
			PreTax:     preTax,
			Taxes:      taxes,
			Profit:     profit,
			FinalPrice: preTax + taxes,
		},
		TaxDetail: detail,
		Lines:     make([]RoleLine, len(roles)),
	}
	for i, r := range roles {
		qty := float64(r.Quantity)
		cost := units[i] * qty
		share := cost / total
		roleTaxes := detail.Scale(share)
		line := RoleLine{
			Role:      r.Name,
			Quantity:  r.Quantity,
			UnitCost:  units[i],
			TotalCost: cost,
			Taxes:     roleTaxes.Total(),
			Profit:    profit * share,
			TaxDetail: roleTaxes,
		}
		line.UnitProfit = line.Profit / qty
		line.TotalPrice = cost + line.Taxes + line.Profit
		line.UnitPrice = line.TotalPrice / qty
		q.Lines[i] = line
	}
	return q, nil
}
