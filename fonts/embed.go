package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体：Go 字体家族（TTF）。PDF 标准 14 字体名映射到度量接近的 Go 字体。
var builtin = map[string][]byte{
	"Go-Regular":    goregular.TTF,
	"Go-Bold":       gobold.TTF,
	"Go-Italic":     goitalic.TTF,
	"Go-BoldItalic": gobolditalic.TTF,
	"Go-Mono":       gomono.TTF,
	"Go-Mono-Bold":  gomonobold.TTF,
}

var aliases = map[string]string{
	"helvetica":             "Go-Regular",
	"helvetica-bold":        "Go-Bold",
	"helvetica-oblique":     "Go-Italic",
	"helvetica-boldoblique": "Go-BoldItalic",
	"times-roman":           "Go-Regular",
	"times-bold":            "Go-Bold",
	"times-italic":          "Go-Italic",
	"times-bolditalic":      "Go-BoldItalic",
	"courier":               "Go-Mono",
	"courier-bold":          "Go-Mono-Bold",
	"courier-oblique":       "Go-Mono",
	"courier-boldoblique":   "Go-Mono-Bold",
}

// Resolve 返回字体名对应的内置字体名，可写为 "embed:Go-Bold"、"Go-Bold" 或 "Helvetica-Bold"。
func Resolve(name string) (string, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "embed:")
	if _, ok := builtin[name]; ok {
		return name, true
	}
	if target, ok := aliases[strings.ToLower(name)]; ok {
		return target, true
	}
	return "", false
}

// Load 返回内置字体的字节数据。
func Load(name string) ([]byte, error) {
	target, ok := Resolve(name)
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return builtin[target], nil
}

// Names 返回所有内置字体名（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
