package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущую руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

func (lx *Lexer) atIdentStart() bool {
	r, sz := lx.peekRune()
	return sz > 0 && isIdentStartRune(r)
}

// scanIdent consumes [letter_][letter digit _ .]*.
func (lx *Lexer) scanIdent() {
	lx.bumpRune()
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

func (lx *Lexer) skipSpaces() {
	for isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipToEOL() {
	for !lx.cursor.EOF() && !isLineBreak(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// scanNewline consumes one line break (\r\n, \n or \r) and the next line's
// leading spaces and tabs.
func (lx *Lexer) scanNewline() {
	if lx.cursor.Eat('\r') {
		lx.cursor.Eat('\n')
	} else {
		lx.cursor.Eat('\n')
	}
	lx.skipSpaces()
}

// scanText consumes a run of line text up to the next line break, '{',
// '#', "<<" or "//". A backslash keeps the following byte in the text.
func (lx *Lexer) scanText() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isLineBreak(b) || b == '{' || b == '#' || lx.cursor.HasPrefix("<<") || lx.cursor.HasPrefix("//") {
			return
		}
		if b == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() && !isLineBreak(lx.cursor.Peek()) {
				lx.bumpRune()
			}
			continue
		}
		lx.bumpRune()
	}
}

// ===== Классификаторы =====

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isLineBreak(b byte) bool { return b == '\n' || b == '\r' }

func isHashtagStop(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '#', '$', '<':
		return true
	}
	return false
}

func quoteRune(r rune) string {
	return strconv.QuoteRune(r)
}
