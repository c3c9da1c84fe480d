// Package pricing 计算 CLT 用工成本、成本加成定价与税费，并按成本占比分摊回各岗位。
package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMargin 表示利润率不在 [0, 1) 区间内。
	ErrInvalidMargin = errors.New("pricing: 利润率必须位于 [0, 1) 区间")
	// ErrNoRoles 表示报价中没有可定价的岗位。
	ErrNoRoles = errors.New("pricing: 没有可定价的岗位")
)

// Charge 是按基本工资比例计算的一项 CLT 劳动附加费用。
type Charge struct {
	Name string
	Rate float64
}

// CLTCharges 为模型采用的劳动附加费用，均按基本工资计算。
var CLTCharges = []Charge{
	{"INSS Patronal", 0.20},
	{"RAT", 0.01},
	{"FGTS", 0.08},
	{"FGTS adicional", 0.032},
	{"13º salário", 0.0833},
	{"Férias", 0.1111},
	{"1/3 constitucional", 0.037},
}

// Amount 是带名称的金额，保持输入顺序以便逐行展示。
type Amount struct {
	Name  string
	Value float64
}

// Breakdown 是有序的金额明细。
type Breakdown []Amount

// Total 返回明细合计。
func (b Breakdown) Total() float64 {
	var sum float64
	for _, a := range b {
		sum += a.Value
	}
	return sum
}

// Scale 返回按 k 等比缩放的新明细。
func (b Breakdown) Scale(k float64) Breakdown {
	out := make(Breakdown, len(b))
	for i, a := range b {
		out[i] = Amount{Name: a.Name, Value: a.Value * k}
	}
	return out
}

// CLTCost 返回各项附加费用明细与每名员工的月度总成本（工资 + 附加费用 + 福利）。
func CLTCost(salary, benefit float64) (Breakdown, float64) {
	charges := make(Breakdown, len(CLTCharges))
	for i, c := range CLTCharges {
		charges[i] = Amount{Name: c.Name, Value: salary * c.Rate}
	}
	return charges, salary + charges.Total() + benefit
}

// CostPlus 按目标利润率定价：price = cost / (1 - margin)，profit = price - cost。
func CostPlus(cost, margin float64) (price, profit float64, err error) {
	if margin < 0 || margin >= 1 {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidMargin, margin)
	}
	price = cost / (1 - margin)
	return price, price - cost, nil
}

// Regime 描述一种税制。Shares 为 true 时各分项为总税额的份额，否则为作用于税前价格的税率。
type Regime struct {
	Name       string
	Rate       float64
	Components []Charge
	Shares     bool
}

var (
	// SimplesAnexoIII 为 Simples Nacional 附件 III，总税率 21%，分项为总税额的份额。
	SimplesAnexoIII = Regime{
		Name: "Simples Nacional – Anexo III",
		Rate: 0.21,
		Components: []Charge{
			{"IRPJ", 0.04},
			{"CSLL", 0.035},
			{"PIS", 0.028},
			{"COFINS", 0.127},
			{"CPP", 0.285},
			{"ISS", 0.485},
		},
		Shares: true,
	}
	// LucroReal 总税率 18%，分项直接作用于税前价格。
	LucroReal = Regime{
		Name: "Lucro Real",
		Rate: 0.18,
		Components: []Charge{
			{"IRPJ", 0.06},
			{"CSLL", 0.035},
			{"PIS", 0.02},
			{"COFINS", 0.05},
			{"CPRB", 0.015},
		},
	}
)

// Taxes 返回税前价格 price 对应的总税额与分项明细。
func (r Regime) Taxes(price float64) (float64, Breakdown) {
	total := price * r.Rate
	detail := make(Breakdown, len(r.Components))
	for i, c := range r.Components {
		base := price
		if r.Shares {
			base = total
		}
		detail[i] = Amount{Name: c.Name, Value: base * c.Rate}
	}
	return total, detail
}

// RegimeByName 按名称或常用简称（simples、real）查找税制。
func RegimeByName(name string) (Regime, bool) {
	switch name {
	case "simples", "simples-iii", SimplesAnexoIII.Name:
		return SimplesAnexoIII, true
	case "real", "lucro-real", LucroReal.Name:
		return LucroReal, true
	}
	return Regime{}, false
}
