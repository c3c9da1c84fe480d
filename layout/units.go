package layout

import (
	"strconv"
	"strings"
)

// 版式内部统一使用 pt；配置文件中的长度保留原始单位，按需换算。

// Unit 表示长度在配置中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按 pt 处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 之间的换算常量（1in = 72pt = 25.4mm）。
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
	Cm     = 10 * MmToPt // 1cm 对应的 pt
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	pt := l.Value
	switch l.Unit {
	case UnitMM:
		pt = l.Value * MmToPt
	case UnitCM:
		pt = l.Value * Cm
	case UnitIN:
		pt = l.Value * 72
	}
	if target == UnitMM {
		return pt * PtToMm
	}
	return pt
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseRawLengthStr parses a length string such as "2.5cm" or "18pt",
// preserving its unit. Unparseable input yields a zero length and ok=false.
func ParseRawLengthStr(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 记录行距的书写方式：倍数（"1.4x"）或绝对长度（"15pt"）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.4x" 或长度字符串。
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l, ok := ParseRawLengthStr(v)
	if !ok {
		return LineHeightSpec{}, false
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// Resolve 按字号（pt）计算绝对行距（pt）。
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPT()
	default:
		return fontSize * 1.4
	}
}
