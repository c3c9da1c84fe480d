package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Values 是占位符的取值表，键为占位符名。
type Values map[string]any

// Interpolate 将文本中的 ${name} 替换为 data 中的值。
// 若 data 为空或名称不存在，则保留原占位符。
func Interpolate(text string, data Values) string {
	if len(data) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if val, ok := data[strings.TrimSpace(groups[1])]; ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Names 返回模板中出现的占位符名（按出现顺序，去重）。
func Names(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Uses 判断模板是否引用了给定占位符。
func Uses(text, name string) bool {
	for _, n := range Names(text) {
		if n == name {
			return true
		}
	}
	return false
}
