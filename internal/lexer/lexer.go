package lexer

import (
	"spool/internal/diag"
	"spool/internal/source"
	"spool/internal/token"
)

// mode is one state of the lexer's mode stack.
type mode uint8

const (
	modeHeader mode = iota
	modeHeaderValue
	modeHashtag
	modeBody
	modeText
	modeTextTail
	modeCommand
	modeCommandClose
	modeCommandText
	modeExpression
	modeJump
)

// Lexer is the primitive, indentation-unaware tokenizer. It emits every
// token, hidden ones included, and never stops early: after the input is
// exhausted it keeps returning EOF.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	modes  []mode
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		modes:  []mode{modeHeader},
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Offset returns the byte offset of the next unread byte.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// Line returns the 1-based line of the next unread byte.
func (lx *Lexer) Line() uint32 { return lx.file.Position(lx.cursor.Off).Line }

// Column returns the 1-based column of the next unread byte.
func (lx *Lexer) Column() uint32 { return lx.file.Position(lx.cursor.Off).Col }

// Next returns the next token on any channel.
func (lx *Lexer) Next() token.Token {
	for {
		if lx.cursor.EOF() {
			return lx.make(token.EOF, lx.cursor.Mark(), token.ChannelDefault)
		}
		var (
			tok token.Token
			ok  bool
		)
		switch lx.top() {
		case modeHeader:
			tok, ok = lx.lexHeader()
		case modeHeaderValue:
			tok, ok = lx.lexHeaderValue()
		case modeHashtag:
			tok, ok = lx.lexHashtag()
		case modeBody:
			tok, ok = lx.lexBody()
		case modeText:
			tok, ok = lx.lexText()
		case modeTextTail:
			tok, ok = lx.lexTextTail()
		case modeCommand:
			tok, ok = lx.lexCommand()
		case modeCommandClose:
			tok, ok = lx.lexCommandClose()
		case modeCommandText:
			tok, ok = lx.lexCommandText()
		case modeExpression:
			tok, ok = lx.lexExpression()
		case modeJump:
			tok, ok = lx.lexJump()
		}
		if ok {
			return tok
		}
	}
}

func (lx *Lexer) top() mode { return lx.modes[len(lx.modes)-1] }

func (lx *Lexer) push(m mode) { lx.modes = append(lx.modes, m) }

// pop never removes the header mode at the bottom of the stack.
func (lx *Lexer) pop() {
	if len(lx.modes) > 1 {
		lx.modes = lx.modes[:len(lx.modes)-1]
	}
}

func (lx *Lexer) replace(m mode) { lx.modes[len(lx.modes)-1] = m }

func (lx *Lexer) make(kind token.Kind, m Mark, ch token.Channel) token.Token {
	sp := lx.cursor.SpanFrom(m)
	pos := lx.file.Position(sp.Start)
	return token.Token{
		Kind:    kind,
		Channel: ch,
		Span:    sp,
		Text:    string(lx.file.Content[sp.Start:sp.End]),
		Line:    pos.Line,
		Col:     pos.Col,
	}
}

// lexTrivia handles whitespace, comments and (hidden) line breaks, shared
// by the modes that treat them as insignificant.
func (lx *Lexer) lexTrivia(m Mark) (token.Token, bool) {
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case isLineBreak(b):
		lx.scanNewline()
		return lx.make(token.Newline, m, token.ChannelHidden), true
	case lx.cursor.HasPrefix("//"):
		lx.skipToEOL()
		return lx.make(token.Comment, m, token.ChannelHidden), true
	}
	return token.Token{}, false
}

func (lx *Lexer) lexHeader() (token.Token, bool) {
	m := lx.cursor.Mark()
	if tok, ok := lx.lexTrivia(m); ok {
		return tok, true
	}
	b := lx.cursor.Peek()
	switch {
	case lx.cursor.HasPrefix("---"):
		lx.cursor.Advance(3)
		lx.push(modeBody)
		return lx.make(token.BodyStart, m, token.ChannelDefault), true
	case b == '#':
		lx.cursor.Bump()
		lx.push(modeHashtag)
		return lx.make(token.Hashtag, m, token.ChannelDefault), true
	case b == ':':
		lx.cursor.Bump()
		lx.skipSpaces()
		lx.push(modeHeaderValue)
		return lx.make(token.HeaderDelimiter, m, token.ChannelDefault), true
	case lx.atIdentStart():
		lx.scanIdent()
		return lx.make(token.ID, m, token.ChannelDefault), true
	}
	return lx.unknown(m), true
}

func (lx *Lexer) lexHeaderValue() (token.Token, bool) {
	m := lx.cursor.Mark()
	lx.pop()
	lx.skipToEOL()
	if lx.cursor.Off == uint32(m) {
		return token.Token{}, false
	}
	return lx.make(token.RestOfLine, m, token.ChannelDefault), true
}

func (lx *Lexer) lexHashtag() (token.Token, bool) {
	m := lx.cursor.Mark()
	lx.pop()
	for !lx.cursor.EOF() && !isHashtagStop(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Off == uint32(m) {
		return token.Token{}, false
	}
	return lx.make(token.HashtagText, m, token.ChannelDefault), true
}

func (lx *Lexer) lexBody() (token.Token, bool) {
	m := lx.cursor.Mark()
	if tok, ok := lx.lexTrivia(m); ok {
		return tok, true
	}
	switch {
	case lx.cursor.HasPrefix("==="):
		lx.cursor.Advance(3)
		lx.pop()
		return lx.make(token.BodyEnd, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("->"):
		lx.cursor.Advance(2)
		return lx.make(token.ShortcutArrow, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("<<"):
		lx.cursor.Advance(2)
		lx.push(modeCommand)
		return lx.make(token.CommandStart, m, token.ChannelDefault), true
	}
	lx.push(modeText)
	return token.Token{}, false
}

func (lx *Lexer) lexText() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isLineBreak(b):
		lx.scanNewline()
		lx.pop()
		return lx.make(token.Newline, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("//"):
		lx.skipToEOL()
		return lx.make(token.Comment, m, token.ChannelHidden), true
	case b == '{':
		lx.cursor.Bump()
		lx.push(modeExpression)
		return lx.make(token.ExpressionStart, m, token.ChannelDefault), true
	case b == '#':
		lx.cursor.Bump()
		lx.replace(modeTextTail)
		lx.push(modeHashtag)
		return lx.make(token.Hashtag, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("<<"):
		lx.cursor.Advance(2)
		lx.replace(modeTextTail)
		lx.push(modeCommand)
		return lx.make(token.CommandStart, m, token.ChannelDefault), true
	}
	lx.scanText()
	return lx.make(token.Text, m, token.ChannelDefault), true
}

// lexTextTail covers the end of a line after its first hashtag or
// condition: only more hashtags, commands and the line break may follow.
func (lx *Lexer) lexTextTail() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case isLineBreak(b):
		lx.scanNewline()
		lx.pop()
		return lx.make(token.Newline, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("//"):
		lx.skipToEOL()
		return lx.make(token.Comment, m, token.ChannelHidden), true
	case b == '#':
		lx.cursor.Bump()
		lx.push(modeHashtag)
		return lx.make(token.Hashtag, m, token.ChannelDefault), true
	case lx.cursor.HasPrefix("<<"):
		lx.cursor.Advance(2)
		lx.push(modeCommand)
		return lx.make(token.CommandStart, m, token.ChannelDefault), true
	}
	lx.replace(modeText)
	return token.Token{}, false
}

func (lx *Lexer) lexCommand() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case lx.cursor.HasPrefix(">>"):
		lx.cursor.Advance(2)
		lx.pop()
		return lx.make(token.CommandTextEnd, m, token.ChannelDefault), true
	case lx.atIdentStart():
		lx.scanIdent()
		word := string(lx.file.Content[m:lx.cursor.Off])
		if kind, ok := token.LookupCommand(word); ok {
			switch kind {
			case token.CommandElse, token.CommandEndIf:
				lx.replace(modeCommandClose)
			case token.CommandJump:
				lx.replace(modeJump)
			default:
				lx.replace(modeExpression)
			}
			return lx.make(kind, m, token.ChannelDefault), true
		}
		lx.cursor.Reset(m)
	}
	lx.replace(modeCommandText)
	return token.Token{}, false
}

func (lx *Lexer) lexCommandClose() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case lx.cursor.HasPrefix(">>"):
		lx.cursor.Advance(2)
		lx.pop()
		return lx.make(token.CommandEnd, m, token.ChannelDefault), true
	case isLineBreak(b):
		lx.unterminated(m, "unterminated command")
		return token.Token{}, false
	}
	return lx.unknown(m), true
}

func (lx *Lexer) lexCommandText() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case lx.cursor.HasPrefix(">>"):
		lx.cursor.Advance(2)
		lx.pop()
		return lx.make(token.CommandTextEnd, m, token.ChannelDefault), true
	case b == '{':
		lx.cursor.Bump()
		lx.push(modeExpression)
		return lx.make(token.CommandExpressionStart, m, token.ChannelDefault), true
	case isLineBreak(b):
		lx.unterminated(m, "unterminated command")
		return token.Token{}, false
	}
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		if c == '{' || isLineBreak(c) || lx.cursor.HasPrefix(">>") {
			break
		}
		lx.cursor.Bump()
	}
	return lx.make(token.CommandText, m, token.ChannelDefault), true
}

func (lx *Lexer) lexJump() (token.Token, bool) {
	m := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case isSpace(b):
		lx.skipSpaces()
		return lx.make(token.WS, m, token.ChannelHidden), true
	case lx.cursor.HasPrefix(">>"):
		lx.cursor.Advance(2)
		lx.pop()
		return lx.make(token.CommandEnd, m, token.ChannelDefault), true
	case b == '{':
		lx.cursor.Bump()
		lx.push(modeExpression)
		return lx.make(token.ExpressionStart, m, token.ChannelDefault), true
	case isLineBreak(b):
		lx.unterminated(m, "unterminated jump")
		return token.Token{}, false
	case lx.atIdentStart():
		lx.scanIdent()
		return lx.make(token.ID, m, token.ChannelDefault), true
	}
	return lx.unknown(m), true
}

// unterminated reports a command cut short by a line break and leaves the
// break for the enclosing mode.
func (lx *Lexer) unterminated(m Mark, msg string) {
	lx.errLex(diag.LexUnterminatedCommand, lx.cursor.SpanFrom(m), msg)
	lx.pop()
}

// unknown consumes one rune and reports it. Invalid tokens go to the hidden
// channel so the parser does not pile a syntax error on top.
func (lx *Lexer) unknown(m Mark) token.Token {
	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(m)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character "+quoteRune(r))
	return lx.make(token.Invalid, m, token.ChannelHidden)
}
