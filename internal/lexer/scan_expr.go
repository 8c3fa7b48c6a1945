package lexer

import (
	"spool/internal/diag"
	"spool/internal/token"
)

// operators lists expression punctuation, longest spelling first.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"==", token.OpEquals},
	{"!=", token.OpNotEquals},
	{"<=", token.OpLessEqual},
	{">=", token.OpGreaterEqual},
	{"&&", token.OpAnd},
	{"||", token.OpOr},
	{"+=", token.OpAddAssign},
	{"-=", token.OpSubAssign},
	{"*=", token.OpMulAssign},
	{"/=", token.OpDivAssign},
	{"%=", token.OpModAssign},
	{"<", token.OpLess},
	{">", token.OpGreater},
	{"^", token.OpXor},
	{"!", token.OpNot},
	{"=", token.OpAssign},
	{"+", token.OpAdd},
	{"-", token.OpSub},
	{"*", token.OpMul},
	{"/", token.OpDiv},
	{"%", token.OpMod},
	{"(", token.LParen},
	{")", token.RParen},
	{",", token.Comma},
}

func (lx *Lexer) lexExpression() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case isLineBreak(b):
		lx.unterminated(m, "unterminated expression")
		return token.Token{}, false
	case b == '}':
		lx.cursor.Bump()
		lx.pop()
		return lx.make(token.ExpressionEnd, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix(">>"):
		lx.cursor.Advance(2)
		lx.pop()
		return lx.make(token.CommandEnd, m, token.ChannelDefault), true
	case isDec(b):
		return lx.scanNumber(m), true
	case b == '"':
		return lx.scanString(m), true
	case b == '$':
		lx.cursor.Bump()
		if !lx.atIdentStart() {
			lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(m), "expected variable name after '$'")
			return lx.make(token.Invalid, m, token.ChannelHidden), true
		}
		lx.scanIdent()
		return lx.make(token.VarID, m, token.ChannelDefault), true
	case lx.atIdentStart():
		lx.scanIdent()
		word := string(lx.file.Content[m:lx.cursor.Off])
		if kind, ok := token.LookupWord(word); ok {
			return lx.make(kind, m, token.ChannelDefault), true
		}
		if lx.followedByParen() {
			return lx.make(token.FuncID, m, token.ChannelDefault), true
		}
		return lx.make(token.ID, m, token.ChannelDefault), true
	}
	for _, op := range operators {
		if lx.cursor.HasPrefix(op.text) {
			lx.cursor.Advance(len(op.text))
			return lx.make(op.kind, m, token.ChannelDefault), true
		}
	}
	return lx.unknown(m), true
}

// followedByParen peeks past spaces for '(' without consuming anything.
func (lx *Lexer) followedByParen() bool {
	var n uint32
	for isSpace(lx.cursor.PeekAt(n)) {
		n++
	}
	return lx.cursor.PeekAt(n) == '('
}

func (lx *Lexer) scanNumber(m Mark) token.Token {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if lx.atIdentStart() {
		for lx.atIdentStart() || isDec(lx.cursor.Peek()) {
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(m)
		lx.errLex(diag.LexBadNumber, sp, "malformed number "+string(lx.file.Content[sp.Start:sp.End]))
		return lx.make(token.Invalid, m, token.ChannelHidden)
	}
	return lx.make(token.Number, m, token.ChannelDefault)
}

// scanString reads a double-quoted literal; backslash escapes any byte.
// An unterminated literal is reported and still returned as String.
func (lx *Lexer) scanString(m Mark) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			return lx.make(token.String, m, token.ChannelDefault)
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() && !isLineBreak(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			continue
		case isLineBreak(b):
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(m), "newline in string literal")
			return lx.make(token.String, m, token.ChannelDefault)
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(m), "unterminated string literal")
	return lx.make(token.String, m, token.ChannelDefault)
}
