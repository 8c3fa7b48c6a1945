package lexer

import (
	"fmt"
	"strings"

	"spool/internal/diag"
	"spool/internal/source"
	"spool/internal/token"
)

// Source is a pull-based token source. Both Lexer and IndentLexer
// implement it, so the indentation layer can stand in for the lexer.
type Source interface {
	Next() token.Token
	File() *source.File
	Offset() uint32
	Line() uint32
	Column() uint32
}

var _ Source = (*Lexer)(nil)
var _ Source = (*IndentLexer)(nil)

// IndentLexer wraps a Source and injects Indent, Dedent and
// BlankLineFollowingOption tokens around shortcut-option blocks. Every
// other token passes through unchanged and in order.
//
// It is not safe for concurrent use.
type IndentLexer struct {
	src      Source
	reporter diag.Reporter

	pending []token.Token
	hitEOF  bool

	last    token.Token
	hasLast bool

	// lineContainsShortcut is set by '->' and consumed by the next line break.
	lineContainsShortcut bool
	lastIndent           int
	// unbalanced holds indentation depths opened by option bodies.
	unbalanced []int
	// lastSeenOption is the line right after the last option line or the
	// last fully closed option block.
	lastSeenOption    uint32
	hasLastSeenOption bool
}

// NewIndentLexer wraps src. Mixed-indentation warnings go to r, which may be nil.
func NewIndentLexer(src Source, r diag.Reporter) *IndentLexer {
	return &IndentLexer{src: src, reporter: r}
}

func (il *IndentLexer) File() *source.File { return il.src.File() }
func (il *IndentLexer) Offset() uint32     { return il.src.Offset() }
func (il *IndentLexer) Line() uint32       { return il.src.Line() }
func (il *IndentLexer) Column() uint32     { return il.src.Column() }

// Depth reports how many option-body indents are currently open.
func (il *IndentLexer) Depth() int { return len(il.unbalanced) }

// Next returns the next token of the transformed stream. Once EOF has been
// returned every further call returns EOF again.
func (il *IndentLexer) Next() token.Token {
	if il.hitEOF {
		if len(il.pending) > 0 {
			return il.dequeue()
		}
		return il.syntheticEOF()
	}
	il.pull()
	return il.dequeue()
}

func (il *IndentLexer) dequeue() token.Token {
	tok := il.pending[0]
	il.pending[0] = token.Token{}
	il.pending = il.pending[1:]
	return tok
}

// pull reads exactly one token from the wrapped source and enqueues it,
// plus whatever synthetic tokens it triggers.
func (il *IndentLexer) pull() {
	current := il.src.Next()

	switch current.Kind {
	case token.Newline:
		il.handleNewline(current)
	case token.EOF:
		il.handleEOF(current)
	case token.ShortcutArrow:
		il.enqueue(current)
		il.lineContainsShortcut = true
	case token.BodyEnd:
		// the stack should already be empty here; reset regardless
		il.lineContainsShortcut = false
		il.lastIndent = 0
		il.unbalanced = il.unbalanced[:0]
		il.hasLastSeenOption = false
		il.enqueue(current)
	default:
		il.enqueue(current)
	}

	il.last = current
	il.hasLast = true
}

func (il *IndentLexer) handleNewline(current token.Token) {
	il.enqueue(current)

	if il.hasLastSeenOption && il.hasLast && il.last.Kind == current.Kind {
		// two line breaks in a row: this is a blank line
		if il.src.Line()-il.lastSeenOption == 1 {
			il.insert(token.BlankLineFollowingOption)
		}
		il.hasLastSeenOption = false
	}

	depth := il.indentationLength(current)

	if il.lineContainsShortcut {
		if depth > il.lastIndent {
			il.unbalanced = append(il.unbalanced, depth)
			il.insert(token.Indent)
		}
		il.lineContainsShortcut = false
		il.lastSeenOption = il.src.Line()
		il.hasLastSeenOption = true
	}

	if len(il.unbalanced) > 0 {
		top := il.unbalanced[len(il.unbalanced)-1]
		for depth < top {
			il.insert(token.Dedent)
			il.unbalanced = il.unbalanced[:len(il.unbalanced)-1]
			if len(il.unbalanced) > 0 {
				top = il.unbalanced[len(il.unbalanced)-1]
			} else {
				// left the option block entirely
				il.lastSeenOption = il.src.Line()
				il.hasLastSeenOption = true
				top = 0
			}
		}
	}

	il.lastIndent = depth
}

func (il *IndentLexer) handleEOF(current token.Token) {
	for range il.unbalanced {
		il.insert(token.Dedent)
	}
	il.unbalanced = il.unbalanced[:0]
	il.enqueue(current)
	il.hitEOF = true
}

// indentationLength measures the whitespace after a line break: a space
// counts 1, a tab counts 8. Mixing both on one line is reported once.
func (il *IndentLexer) indentationLength(tok token.Token) int {
	if tok.Kind != token.Newline {
		panic(fmt.Sprintf("indentation measured on %s token", tok.Kind))
	}
	length := 0
	sawSpaces, sawTabs := false, false
	for i := 0; i < len(tok.Text); i++ {
		switch tok.Text[i] {
		case ' ':
			length++
			sawSpaces = true
		case '\t':
			length += 8
			sawTabs = true
		}
	}
	if sawSpaces && sawTabs {
		il.warnMixedIndentation(tok)
	}
	return length
}

// warnMixedIndentation points at the line the indentation belongs to, which
// is the line after the one the line break token starts on.
func (il *IndentLexer) warnMixedIndentation(tok token.Token) {
	if il.reporter == nil {
		return
	}
	line := int(tok.Line) + 1
	diag.ReportWarning(il.reporter, diag.LexMixedIndentation, il.src.File(), tok.Span, "Indentation contains tabs and spaces").
		WithRange(diag.Range{
			Start: diag.PositionOf(line, 0),
			End:   diag.PositionOf(line, len(tok.Text)),
		}).
		WithContext(strings.TrimLeft(tok.Text, "\r\n")).
		Emit()
}

func (il *IndentLexer) enqueue(tok token.Token) {
	il.pending = append(il.pending, tok)
}

// insert enqueues a synthetic token stamped with the wrapped source's
// current position.
func (il *IndentLexer) insert(kind token.Kind) {
	off := il.src.Offset()
	il.pending = append(il.pending, token.Token{
		Kind:    kind,
		Channel: token.ChannelDefault,
		Span:    source.Span{File: il.src.File().ID, Start: off, End: off},
		Line:    il.src.Line(),
		Col:     il.src.Column(),
	})
}

func (il *IndentLexer) syntheticEOF() token.Token {
	off := il.src.Offset()
	return token.Token{
		Kind: token.EOF,
		Span: source.Span{File: il.src.File().ID, Start: off, End: off},
		Line: il.src.Line(),
		Col:  il.src.Column(),
	}
}
