package binding

import (
	"reflect"
	"testing"
)

func TestInterpolate(t *testing.T) {
	data := Values{
		"page":   2,
		"pages":  7,
		"client": "Acme",
	}
	cases := map[string]string{
		"${page} / ${pages}":  "2 / 7",
		"Cliente: ${client}":  "Cliente: Acme",
		"${client.name} fica": "${client.name} fica",
		"${missing} fica":     "${missing} fica",
		"sem placeholder":     "sem placeholder",
		"${ page }":           "2",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${page}", nil); got != "${page}" {
		t.Fatalf("nil data should keep template, got %q", got)
	}
}

func TestNames(t *testing.T) {
	got := Names("Página ${page} de ${pages} (${page})")
	if want := []string{"page", "pages"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	if !Uses("${page} / ${pages}", "pages") || Uses("Validade: ${validity}", "pages") {
		t.Fatalf("Uses reported wrong placeholders")
	}
}
