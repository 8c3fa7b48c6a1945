package lexer

import (
	"strings"
	"testing"

	"spool/internal/diag"
	"spool/internal/source"
	"spool/internal/testkit"
	"spool/internal/token"
)

func newIndentLexer(input string) (*IndentLexer, *[]diag.Diagnostic) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.yarn", []byte(input))
	var items []diag.Diagnostic
	rep := diag.SliceReporter{Items: &items}
	return NewIndentLexer(New(fs.Get(id), Options{Reporter: rep}), rep), &items
}

func drain(il *IndentLexer) []token.Token {
	var toks []token.Token
	for {
		tok := il.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func count(toks []token.Token, kind token.Kind) int {
	n := 0
	for _, tok := range toks {
		if tok.Kind == kind {
			n++
		}
	}
	return n
}

func TestIndentAroundOptionBody(t *testing.T) {
	src := strings.Join([]string{
		"title: Start",
		"---",
		"-> A",
		"    Line in A",
		"-> B",
		"Done",
		"===",
		"",
	}, "\n")
	il, diags := newIndentLexer(src)
	toks := drain(il)
	if len(*diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", *diags)
	}
	want := []token.Kind{
		token.ID, token.HeaderDelimiter, token.RestOfLine, token.BodyStart,
		token.ShortcutArrow, token.Text, token.Newline, token.Indent,
		token.Text, token.Newline, token.Dedent,
		token.ShortcutArrow, token.Text, token.Newline,
		token.Text, token.Newline,
		token.BodyEnd, token.EOF,
	}
	if err := testkit.SameKinds(testkit.Kinds(toks), want); err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckTokenInvariants(toks, il.File()); err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		if tok.Kind == token.Indent && (tok.Line != 4 || tok.Col != 5) {
			t.Errorf("indent stamped at %d:%d, want 4:5", tok.Line, tok.Col)
		}
	}
}

func TestNestedOptionsDedentAll(t *testing.T) {
	src := "title: A\n---\n-> A\n    -> A1\n        deep\nafter\n===\n"
	il, _ := newIndentLexer(src)
	toks := drain(il)
	if got := count(toks, token.Indent); got != 2 {
		t.Fatalf("indents = %d, want 2", got)
	}
	if got := count(toks, token.Dedent); got != 2 {
		t.Fatalf("dedents = %d, want 2", got)
	}
	if err := testkit.CheckTokenInvariants(toks, il.File()); err != nil {
		t.Fatal(err)
	}
}

func TestBlankLineFollowingOptionOnce(t *testing.T) {
	src := "title: A\n---\n-> A\n-> B\n\n\nAfter\n===\n"
	il, _ := newIndentLexer(src)
	toks := drain(il)
	if got := count(toks, token.BlankLineFollowingOption); got != 1 {
		t.Fatalf("blank-line markers = %d, want 1", got)
	}
	want := []token.Kind{
		token.ID, token.HeaderDelimiter, token.RestOfLine, token.BodyStart,
		token.ShortcutArrow, token.Text, token.Newline,
		token.ShortcutArrow, token.Text, token.Newline,
		token.BlankLineFollowingOption,
		token.Text, token.Newline,
		token.BodyEnd, token.EOF,
	}
	if err := testkit.SameKinds(testkit.Kinds(toks), want); err != nil {
		t.Fatal(err)
	}
}

func TestBlankLineWithoutOptionsInsertsNothing(t *testing.T) {
	il, _ := newIndentLexer("title: A\n---\nOne\n\nTwo\n===\n")
	toks := drain(il)
	for _, tok := range toks {
		if tok.IsSynthetic() {
			t.Fatalf("unexpected synthetic %s", tok.Kind)
		}
	}
}

func TestIndentationLength(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		want  int
		warns int
	}{
		{"none", "\n", 0, 0},
		{"spaces", "\n    ", 4, 0},
		{"tab", "\n\t", 8, 0},
		{"two tabs", "\r\n\t\t", 16, 0},
		{"tab and space", "\n\t ", 9, 1},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			il, diags := newIndentLexer("")
			got := il.indentationLength(token.Token{Kind: token.Newline, Text: tt.text})
			if got != tt.want {
				t.Errorf("length = %d, want %d", got, tt.want)
			}
			if len(*diags) != tt.warns {
				t.Errorf("warnings = %d, want %d", len(*diags), tt.warns)
			}
		})
	}
}

func TestIndentationLengthPanicsOnOtherTokens(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-newline token")
		}
	}()
	il, _ := newIndentLexer("")
	il.indentationLength(token.Token{Kind: token.Text, Text: "  "})
}

func TestMixedIndentationWarning(t *testing.T) {
	src := "title: A\n---\n-> Opt\n\t  indented\n\t  again\n===\n"
	il, diags := newIndentLexer(src)
	drain(il)
	if len(*diags) != 2 {
		t.Fatalf("expected one warning per mixed line, got %d: %+v", len(*diags), *diags)
	}
	d := (*diags)[0]
	if d.Severity != diag.SevWarning || d.Message != "Indentation contains tabs and spaces" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	wantRange := diag.Range{Start: diag.Position{Line: 4, Character: 0}, End: diag.Position{Line: 4, Character: 4}}
	if d.Range != wantRange {
		t.Errorf("range = %+v, want %+v", d.Range, wantRange)
	}
	if d.Context != "\t  " {
		t.Errorf("context = %q", d.Context)
	}
	if d.File != "test.yarn" {
		t.Errorf("file = %q", d.File)
	}
}

func TestEOFClosesOpenIndents(t *testing.T) {
	il, _ := newIndentLexer("title: A\n---\n-> Opt\n    -> Inner\n        body")
	toks := drain(il)
	if count(toks, token.Indent) != 2 || count(toks, token.Dedent) != 2 {
		t.Fatalf("unbalanced stream: %v", testkit.Kinds(toks))
	}
	if toks[len(toks)-2].Kind != token.Dedent {
		t.Errorf("dedents must come right before EOF")
	}
	if il.Depth() != 0 {
		t.Errorf("depth after EOF = %d", il.Depth())
	}
	for i := 0; i < 2; i++ {
		if tok := il.Next(); tok.Kind != token.EOF {
			t.Fatalf("after EOF got %s", tok.Kind)
		}
	}
}

func TestBodyEndClearsStack(t *testing.T) {
	il, _ := newIndentLexer("title: A\n---\n-> Opt\n    body\n    ===\ntitle: B\n---\n===\n")
	for {
		tok := il.Next()
		if tok.Kind == token.BodyEnd {
			break
		}
		if tok.Kind == token.EOF {
			t.Fatal("no BodyEnd")
		}
	}
	if il.Depth() != 0 {
		t.Fatalf("depth after BodyEnd = %d", il.Depth())
	}
	rest := drain(il)
	if count(rest, token.Dedent) != 0 {
		t.Errorf("cleared indents must not be closed again: %v", testkit.Kinds(rest))
	}
}

func TestEmptyInput(t *testing.T) {
	il, diags := newIndentLexer("")
	toks := drain(il)
	if len(toks) != 1 || len(*diags) != 0 {
		t.Fatalf("empty input: %v, %+v", testkit.Kinds(toks), *diags)
	}
}
