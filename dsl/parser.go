package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	newlineTokenType = tokenType("Newline")
	lbraceTokenType  = tokenType("LBrace")
	rbraceTokenType  = tokenType("RBrace")
	numberTokenType  = tokenType("Number")
	symbolTokenType  = tokenType("Symbol")
	stringTokenType  = tokenType("String")

	profileParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a layout profile:
//
//	profile Proposta {
//	  page A4 portrait margin 2.5cm 2.5cm 1.5cm 2.5cm { header-height: 4cm }
//	  styles { style body { font: "Helvetica" size: 11pt leading: 15pt } }
//	  chrome { heading: "PROPOSTA COMERCIAL" }
//	}
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'profile' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (page/styles/chrome).
type Section struct {
	Page   *PageSection   `parser:"  @@"`
	Styles *StylesSection `parser:"| @@"`
	Chrome *ChromeSection `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Page != nil:
		return "page"
	case s.Styles != nil:
		return "styles"
	case s.Chrome != nil:
		return "chrome"
	default:
		return "unknown"
	}
}

// PageSection describes page size, orientation, margins and the reserved bands.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@?"`
}

// PageSpec is the page size followed by orientation and margin arguments.
type PageSpec struct {
	Size   string `parser:"@Ident"`
	Params []*Arg `parser:"@@*"`
}

// StylesSection groups style declarations.
type StylesSection struct {
	Block *Block `parser:"'styles' @@"`
}

// ChromeSection holds header/footer strings.
type ChromeSection struct {
	Block *Block `parser:"'chrome' @@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment/command).
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a named declaration such as `style bullet extends body { ... }`.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Value represents a scalar property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as written, with strings unquoted.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// ArgKind classifies a positional argument.
type ArgKind int

const (
	ArgIdent ArgKind = iota
	ArgNumber
	ArgString
	ArgSymbol
)

// Arg is one positional argument of a page spec or a command, e.g. the
// "2.5cm" in `margin 2.5cm` or the "body" in `style bullet extends body`.
type Arg struct {
	Kind  ArgKind        `json:"kind"`
	Value string         `json:"value"` // strings are unquoted
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: an argument is any token up to
// a newline, a brace or ';'.
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if endsArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	arg := Arg{Value: tok.Value, Pos: tok.Pos}
	switch tok.Type {
	case numberTokenType:
		arg.Kind = ArgNumber
	case stringTokenType:
		v, err := strconv.Unquote(tok.Value)
		if err != nil {
			return participle.Errorf(tok.Pos, "非法字符串 %s: %v", tok.Value, err)
		}
		arg.Kind, arg.Value = ArgString, v
	case symbolTokenType:
		arg.Kind = ArgSymbol
	}
	*a = arg
	return nil
}

func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, lbraceTokenType, rbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	}
	return false
}

// StringLiteral is a quoted value, unquoted on capture.
type StringLiteral string

func (s *StringLiteral) Capture(values []string) error {
	v, err := strconv.Unquote(strings.Join(values, ""))
	if err != nil {
		return fmt.Errorf("非法字符串 %s: %w", strings.Join(values, ""), err)
	}
	*s = StringLiteral(v)
	return nil
}

// Parse reads a profile. Syntax errors carry the line and column of the
// offending token.
func Parse(r io.Reader) (*Document, error) {
	return profileParser.Parse("", r)
}

// ParseString is Parse for an in-memory profile.
func ParseString(input string) (*Document, error) {
	return profileParser.ParseString("", input)
}

func tokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("dsl: 未定义的词法单元 %s", name))
	}
	return tt
}
