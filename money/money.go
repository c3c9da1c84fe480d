// Package money 解析与格式化巴西雷亚尔金额（"R$ 1.234,56"）。
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedCurrency 表示金额字符串无法解析为数值。
var ErrMalformedCurrency = errors.New("money: 无法解析的金额")

// ParseBRL 将格式化金额转换为数值。"." 为千分位、"," 为小数点；
// 同时出现且 "." 在后时按 "1,234.56" 解析。仅含 "." 时，"." 后恰为三位数字视为千分位，
// 因此 "1.500" 为 1500，"1234.56" 为 1234.56。
func ParseBRL(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCurrency, raw)
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot > comma:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && thousands(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCurrency, raw)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// thousands 判断不含 "," 的金额中 "." 是否均为千分位：每个 "." 后恰有三位数字。
func thousands(s string) bool {
	parts := strings.Split(s, ".")
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// FormatBRL 保留两位小数，例如 FormatBRL(1234.5) == "R$ 1.234,50"。
func FormatBRL(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if neg && cents != 0 {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	fmt.Fprintf(&b, ",%02d", cents%100)
	return b.String()
}

// FormatPercent 将比例渲染为 "20,00%"。
func FormatPercent(ratio float64) string {
	s := strconv.FormatFloat(ratio*100, 'f', 2, 64)
	return strings.Replace(s, ".", ",", 1) + "%"
}
