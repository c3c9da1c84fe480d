package fonts

import "testing"

func TestResolveAliases(t *testing.T) {
	cases := map[string]string{
		"Helvetica":         "Go-Regular",
		"Helvetica-Bold":    "Go-Bold",
		"embed:Go-Italic":   "Go-Italic",
		"Courier-Bold":      "Go-Mono-Bold",
		" helvetica-bold  ": "Go-Bold",
	}
	for in, want := range cases {
		got, ok := Resolve(in)
		if !ok || got != want {
			t.Fatalf("Resolve(%q) = %q,%v，期望 %q", in, got, ok, want)
		}
	}
	if _, err := Load("Comic Sans"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
	for _, n := range Names() {
		data, err := Load(n)
		if err != nil || len(data) == 0 {
			t.Fatalf("内置字体 %s 为空: %v", n, err)
		}
	}
}
