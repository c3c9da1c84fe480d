package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/quire/dsl"
)

const sampleProfile = `
// perfil padrão das propostas
profile Proposta {
  page A4 portrait margin 2.5cm 2.5cm 1.5cm 2.5cm {
    header-height: 4cm
    header-gap: 28pt
    footer-height: 1.5cm
  }

  styles {
    style body {
      font: "Helvetica"
      bold: "Helvetica-Bold"
      size: 11pt
      leading: 1.4x
      align: justify
    }
    style bullet extends body { indent: 12pt; align: left }
  }

  chrome {
    heading: "PROPOSTA COMERCIAL"
    page-format: "Página ${page} de ${pages}"
  }
}
`

func TestParseProfile(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Proposta" {
		t.Fatalf("expected profile name Proposta, got %s", doc.Name)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "page,styles,chrome" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	page := doc.Sections[0].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 6 {
		t.Fatalf("expected 6 page params, got %d", len(page.Spec.Params))
	}
	if page.Spec.Params[0].Value != "portrait" || page.Spec.Params[4].Value != "1.5cm" || page.Spec.Params[4].Kind != dsl.ArgNumber {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}
	if page.Block == nil || len(page.Block.Statements) != 3 {
		t.Fatalf("page block missing assignments")
	}
	if a := page.Block.Statements[0].Assignment; a == nil || a.Key != "header-height" || a.Value.Text() != "4cm" {
		t.Fatalf("unexpected header-height assignment: %+v", page.Block.Statements[0])
	}

	styles := doc.Sections[1].Styles
	if len(styles.Block.Statements) != 2 {
		t.Fatalf("expected 2 style declarations, got %d", len(styles.Block.Statements))
	}
	body := styles.Block.Statements[0].Command
	if body == nil || body.Name != "style" || body.Args[0].Value != "body" {
		t.Fatalf("expected style body, got %+v", styles.Block.Statements[0])
	}
	if len(body.Block.Statements) != 5 {
		t.Fatalf("style body should have 5 properties, got %d", len(body.Block.Statements))
	}
	if got := body.Block.Statements[0].Assignment.Value.Text(); got != "Helvetica" {
		t.Fatalf("expected unquoted font, got %q", got)
	}
	if got := body.Block.Statements[4].Assignment.Value; got.Ident == nil || *got.Ident != "justify" {
		t.Fatalf("align should parse as identifier, got %+v", got)
	}

	bullet := styles.Block.Statements[1].Command
	if bullet == nil || len(bullet.Args) != 3 || bullet.Args[1].Value != "extends" || bullet.Args[2].Value != "body" {
		t.Fatalf("unexpected bullet args: %+v", bullet)
	}
	if len(bullet.Block.Statements) != 2 {
		t.Fatalf("inline style block should have 2 properties, got %d", len(bullet.Block.Statements))
	}

	chrome := doc.Sections[2].Chrome
	if got := chrome.Block.Statements[1].Assignment.Value.Text(); !strings.Contains(got, "${pages}") {
		t.Fatalf("expected page placeholder, got %s", got)
	}
}

func TestParseProfileErrors(t *testing.T) {
	for _, src := range []string{
		`doc X v1 {}`,
		`profile P { page }`,
		`profile P { styles { style body { size: } } }`,
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestParseArgKinds(t *testing.T) {
	doc, err := dsl.ParseString(`profile P { styles { style "nota fiscal" extends body } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cmd := doc.Sections[0].Styles.Block.Statements[0].Command
	if cmd == nil || len(cmd.Args) != 3 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Args[0].Kind != dsl.ArgString || cmd.Args[0].Value != "nota fiscal" {
		t.Fatalf("quoted argument should be unquoted: %+v", cmd.Args[0])
	}
	if cmd.Args[1].Kind != dsl.ArgIdent || cmd.Args[2].Value != "body" {
		t.Fatalf("unexpected identifier args: %+v %+v", cmd.Args[1], cmd.Args[2])
	}
	if cmd.Args[0].Pos.Line != 1 {
		t.Fatalf("argument should carry its position: %+v", cmd.Args[0].Pos)
	}
}
