package parser

import (
	"spool/internal/ast"
	"spool/internal/diag"
	"spool/internal/lexer"
	"spool/internal/source"
	"spool/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Dialogue *ast.Dialogue
	// Tokens is the complete stream the parser consumed, hidden channel and
	// synthetic tokens included, ending with EOF.
	Tokens []token.Token
}

// Parser: состояние парсера на один файл
type Parser struct {
	ts       *tokenStream
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile parses one file from src, normally an *lexer.IndentLexer.
func ParseFile(file *source.File, src lexer.Source, opts Options) Result {
	p := Parser{
		ts:       newTokenStream(src),
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	d := p.parseDialogue()
	return Result{
		Dialogue: d,
		Tokens:   p.ts.drain(),
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.ts.Peek().Kind == k
}

// atCommand reports whether the next tokens are `<<` followed by kind.
func (p *Parser) atCommand(kind token.Kind) bool {
	return p.at(token.CommandStart) && p.ts.Peek2().Kind == kind
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseDialogue: file hashtags, then nodes until EOF.
func (p *Parser) parseDialogue() *ast.Dialogue {
	d := &ast.Dialogue{}
	start := p.ts.Peek().Span
	for p.at(token.Hashtag) {
		if h := p.parseHashtag(); h != nil {
			d.FileTags = append(d.FileTags, h)
		}
	}
	for !p.at(token.EOF) {
		before := p.ts.Peek()
		if n := p.parseNode(); n != nil {
			d.Nodes = append(d.Nodes, n)
		}
		if p.ts.Peek() == before {
			p.advance()
		}
	}
	d.Sp = start.Cover(p.lastSpan)
	return d
}

func (p *Parser) parseHashtag() *ast.Hashtag {
	hashTok := p.advance()
	if !p.at(token.HashtagText) {
		return nil
	}
	textTok := p.advance()
	return &ast.Hashtag{Text: textTok.Text, Sp: hashTok.Span.Cover(textTok.Span)}
}

// parseNode: headers, `---`, statements, `===`.
func (p *Parser) parseNode() *ast.DialogueNode {
	startTok := p.ts.Peek()
	n := &ast.DialogueNode{Sp: startTok.Span}

	for p.at(token.ID) {
		n.Headers = append(n.Headers, p.parseHeader())
	}
	if len(n.Headers) == 0 && !p.at(token.BodyStart) {
		p.err(diag.SynExpectHeader, "expected a node header, got "+describe(p.ts.Peek()))
		p.resyncUntil(token.BodyEnd, token.ID)
		if p.at(token.BodyEnd) {
			p.advance()
		}
		return nil
	}

	if _, ok := p.expect(token.BodyStart, diag.SynExpectBodyStart, "expected '---' to start the node body"); !ok {
		p.resyncUntil(token.BodyEnd, token.ID)
		if p.at(token.BodyEnd) {
			p.advance()
		}
		return nil
	}

	n.Body = p.parseStatements(func() bool { return p.at(token.BodyEnd) })
	p.expect(token.BodyEnd, diag.SynExpectBodyEnd, "expected '===' to end the node body")
	n.Sp = startTok.Span.Cover(p.lastSpan)

	if n.Title() == "" {
		p.report(diag.SynMissingTitle, diag.SevError, startTok.Span, "node is missing a 'title' header")
	}
	return n
}

func (p *Parser) parseHeader() *ast.Header {
	keyTok := p.advance()
	h := &ast.Header{Key: keyTok.Text, Sp: keyTok.Span}
	if _, ok := p.expect(token.HeaderDelimiter, diag.SynUnexpectedToken, "expected ':' after header name "+keyTok.Text); !ok {
		return h
	}
	if p.at(token.RestOfLine) {
		valTok := p.advance()
		h.Value = valTok.Text
	}
	h.Sp = keyTok.Span.Cover(p.lastSpan)
	return h
}

// resyncUntil: прокручиваем токены до одного из stop или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) {
		k := p.ts.Peek().Kind
		for _, s := range stop {
			if k == s {
				return
			}
		}
		p.advance()
	}
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	if tok.Text == "" {
		return tok.Kind.String()
	}
	return "'" + tok.Text + "'"
}

// Parse lexes file through the indentation-aware lexer and parses it.
// Lexer and parser diagnostics both go to opts.Reporter.
func Parse(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	return ParseFile(file, lexer.NewIndentLexer(lx, opts.Reporter), opts)
}
