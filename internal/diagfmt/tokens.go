package diagfmt

import (
	"fmt"
	"io"
	"sort"

	"spool/internal/token"
)

type TokenOutput struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	Channel string `json:"channel"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Start   uint32 `json:"start"`
	End     uint32 `json:"end"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
// Hidden tokens are printed only when showHidden is set.
func FormatTokensPretty(w io.Writer, tokens []token.Token, showHidden bool) error {
	n := 0
	for _, tok := range tokens {
		if tok.IsHidden() && !showHidden {
			continue
		}
		n++
		if _, err := fmt.Fprintf(w, "%4d: %-26s %4d:%-3d", n, tok.Kind.String(), tok.Line, tok.Col); err != nil {
			return err
		}
		switch {
		case tok.IsSynthetic():
			fmt.Fprint(w, " (synthetic)")
		case tok.Text != "":
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if tok.IsHidden() {
			fmt.Fprint(w, " [hidden]")
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате.
func FormatTokensJSON(w io.Writer, tokens []token.Token, showHidden bool) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsHidden() && !showHidden {
			continue
		}
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Channel: tok.Channel.String(),
			Line:    tok.Line,
			Col:     tok.Col,
			Start:   tok.Span.Start,
			End:     tok.Span.End,
		})
	}
	return encode(w, out)
}

func sortStrings(s []string) { sort.Strings(s) }
