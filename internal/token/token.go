package token

import (
	"spool/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind    Kind
	Channel Channel
	Span    source.Span
	Text    string
	Line    uint32 // 1-based line of the first byte
	Col     uint32 // 1-based column of the first byte
}

// IsHidden reports whether the parser skips the token.
func (t Token) IsHidden() bool { return t.Channel == ChannelHidden }

// IsSynthetic reports whether the token was injected by the indentation layer.
func (t Token) IsSynthetic() bool {
	switch t.Kind {
	case Indent, Dedent, BlankLineFollowingOption:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is an expression operator.
func (t Token) IsOperator() bool {
	return t.Kind >= OpEquals && t.Kind <= OpModAssign
}

// IsLiteral reports whether the token is a constant literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KeywordTrue, KeywordFalse, KeywordNull:
		return true
	default:
		return false
	}
}
