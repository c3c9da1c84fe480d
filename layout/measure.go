package layout

import "unicode/utf8"

// Measurer 返回文本在给定字体与字号下的前进宽度（pt）。
// 实现必须是纯函数：相同输入总是得到相同结果，并可被多个 goroutine 同时调用。
type Measurer interface {
	TextWidth(text, font string, size float64) float64
}

// MeasurerFunc 将普通函数适配为 Measurer。
type MeasurerFunc func(text, font string, size float64) float64

func (f MeasurerFunc) TextWidth(text, font string, size float64) float64 { return f(text, font, size) }

// FixedMeasurer 按字符数等宽估算：宽度 = 字符数 × 字号 × Advance。
// 用于终端预览与确定性测试；Bold 为加粗字体额外的宽度系数（0 表示与常规相同）。
type FixedMeasurer struct {
	Advance float64
	Bold    map[string]float64
}

func (m FixedMeasurer) TextWidth(text, font string, size float64) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = 0.5
	}
	if k, ok := m.Bold[font]; ok && k > 0 {
		adv *= k
	}
	return float64(utf8.RuneCountInString(text)) * size * adv
}
