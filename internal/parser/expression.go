package parser

import (
	"strconv"
	"strings"

	"spool/internal/ast"
	"spool/internal/diag"
	"spool/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений.
// Never returns nil: failures yield *ast.BadExpr.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(1)
}

// parseBinaryExpr: precedence climbing, all operators left-associative.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		opTok := p.ts.Peek()
		prec := getBinaryOperatorPrec(opTok.Kind)
		if prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = &ast.BinaryExpr{
			Op: opTok.Kind,
			X:  left,
			Y:  right,
			Sp: left.Span().Cover(right.Span()),
		}
	}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.at(token.OpSub) || p.at(token.OpNot) {
		opTok := p.advance()
		x := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: opTok.Kind, X: x, Sp: opTok.Span.Cover(x.Span())}
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.ts.Peek()
	switch tok.Kind {
	case token.Number:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(diag.LexBadNumber, diag.SevError, tok.Span, "malformed number "+tok.Text)
		}
		return &ast.NumberLit{Value: v, Raw: tok.Text, Sp: tok.Span}
	case token.String:
		p.advance()
		return &ast.StringLit{Value: unquote(tok.Text), Raw: tok.Text, Sp: tok.Span}
	case token.KeywordTrue, token.KeywordFalse:
		p.advance()
		return &ast.BoolLit{Value: tok.Kind == token.KeywordTrue, Sp: tok.Span}
	case token.KeywordNull:
		p.advance()
		return &ast.NullLit{Sp: tok.Span}
	case token.VarID:
		p.advance()
		return &ast.VarExpr{Name: tok.Text, Sp: tok.Span}
	case token.FuncID:
		return p.parseCallExpr()
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return &ast.ParenExpr{X: x, Sp: tok.Span.Cover(p.lastSpan)}
	case token.ID:
		p.advance()
		p.report(diag.SynExpectExpression, diag.SevError, tok.Span, "'"+tok.Text+"' is not a value; function calls need parentheses")
		return &ast.BadExpr{Sp: tok.Span}
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return &ast.BadExpr{Sp: p.getDiagnosticSpan()}
}

// parseCallExpr: FUNC_ID '(' (expr (',' expr)*)? ')'
func (p *Parser) parseCallExpr() *ast.CallExpr {
	nameTok := p.advance()
	call := &ast.CallExpr{Name: nameTok.Text, Sp: nameTok.Span}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+nameTok.Text); !ok {
		return call
	}
	if !p.at(token.RParen) {
		for {
			call.Args = append(call.Args, p.parseExpr())
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close the call to "+nameTok.Text)
	call.Sp = nameTok.Span.Cover(p.lastSpan)
	return call
}

// unquote strips the quotes of a string literal and resolves backslash
// escapes: \n and \t are control characters, any other escaped character
// stands for itself.
func unquote(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			return b.String()
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
