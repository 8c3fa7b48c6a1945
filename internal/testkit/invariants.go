package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"spool/internal/source"
	"spool/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a token stream
// produced by the indentation-aware lexer:
// 1) the stream ends with exactly one EOF
// 2) lexed tokens carry the exact source text of their span
// 3) synthetic tokens are empty
// 4) Indent/Dedent never go negative and are balanced at EOF; BodyEnd resets
//    the open count, the same way the lexer clears its stack there
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	depth := 0
	for i, tok := range toks {
		if tok.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at position %d of %d", i, len(toks))
		}
		if tok.Span.End < tok.Span.Start || tok.Span.End > lenContent {
			return fmt.Errorf("token %d (%s) has bad span %v", i, tok.Kind, tok.Span)
		}
		if tok.IsSynthetic() {
			if tok.Text != "" || !tok.Span.Empty() {
				return fmt.Errorf("synthetic token %d (%s) is not empty: %q", i, tok.Kind, tok.Text)
			}
		} else if got := string(sf.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			return fmt.Errorf("token %d (%s) text %q does not match source %q", i, tok.Kind, tok.Text, got)
		}

		switch tok.Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth < 0 {
				return fmt.Errorf("dedent without indent at token %d", i)
			}
		case token.BodyEnd:
			depth = 0
		}
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, not EOF", last.Kind)
	}
	if depth != 0 {
		return fmt.Errorf("%d indents left open at EOF", depth)
	}
	return nil
}

// Kinds returns the kinds of the default-channel tokens, for compact
// expectations in tests.
func Kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		if !tok.IsHidden() {
			out = append(out, tok.Kind)
		}
	}
	return out
}

// SameKinds compares two kind lists and describes the first mismatch.
func SameKinds(got, want []token.Kind) error {
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			return fmt.Errorf("kind %d: got %s, want %s\n got: %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("got %d kinds, want %d\n got: %v\nwant: %v", len(got), len(want), got, want)
	}
	return nil
}
