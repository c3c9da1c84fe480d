package money

import (
	"errors"
	"math"
	"testing"
)

func TestParseBRL(t *testing.T) {
	cases := map[string]float64{
		"R$ 1.234,56":     1234.56,
		"R$ 12.345.678,9": 12345678.9,
		"1234.56":         1234.56,
		"1.234.567":       1234567,
		" R$ 0,50 ":       0.5,
		"R$ 1.500":        1500,
		"1.500":           1500,
		"R$ 1,234.56":     1234.56,
		"R$\u00a0980,00":  980,
		"-R$ 42,10":       -42.1,
	}
	for in, want := range cases {
		got, err := ParseBRL(in)
		if err != nil {
			t.Fatalf("ParseBRL(%q) error: %v", in, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("ParseBRL(%q) = %g, want %g", in, got, want)
		}
	}
}

func TestParseBRLMalformed(t *testing.T) {
	for _, in := range []string{"", "R$", "abc", "R$ 1,2,3", "NaN", "1.2.3"} {
		if _, err := ParseBRL(in); !errors.Is(err, ErrMalformedCurrency) {
			t.Fatalf("ParseBRL(%q) expected ErrMalformedCurrency, got %v", in, err)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := map[float64]string{
		0:          "R$ 0,00",
		1234.5:     "R$ 1.234,50",
		999.999:    "R$ 1.000,00",
		1234567.89: "R$ 1.234.567,89",
		-42.1:      "-R$ 42,10",
	}
	for in, want := range cases {
		if got := FormatBRL(in); got != want {
			t.Fatalf("FormatBRL(%g) = %q, want %q", in, got, want)
		}
	}
	for _, v := range []float64{0, 1500, 98765.43, 1234567.89, -42.1} {
		if got, err := ParseBRL(FormatBRL(v)); err != nil || math.Abs(got-v) > 1e-9 {
			t.Fatalf("format/parse mismatch for %g: %g %v", v, got, err)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.2); got != "20,00%" {
		t.Fatalf("FormatPercent(0.2) = %q", got)
	}
}
