package lexer

import (
	"testing"

	"spool/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.yarn", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF")
	}
	if cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Error("reads past EOF must yield 0")
	}
}

func TestCursorPrefixAndMark(t *testing.T) {
	cursor := NewCursor(createFile("<<set>>"))
	if !cursor.HasPrefix("<<") || cursor.HasPrefix(">>") {
		t.Fatal("HasPrefix mismatch at start")
	}
	m := cursor.Mark()
	cursor.Advance(2)
	if sp := cursor.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Errorf("SpanFrom = %v", sp)
	}
	if cursor.PeekAt(1) != 'e' {
		t.Errorf("PeekAt(1) = %q", cursor.PeekAt(1))
	}
	cursor.Advance(100)
	if !cursor.EOF() {
		t.Error("Advance must stop at the limit")
	}
	cursor.Reset(m)
	if !cursor.Eat('<') || cursor.Eat('>') {
		t.Error("Eat mismatch after Reset")
	}
}
