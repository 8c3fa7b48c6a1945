package parser

import (
	"spool/internal/ast"
	"spool/internal/diag"
	"spool/internal/token"
)

// parseStatements reads statements until stop reports true or EOF.
func (p *Parser) parseStatements(stop func() bool) []ast.Stmt {
	var out []ast.Stmt
	for !p.at(token.EOF) && !stop() {
		before := p.ts.Peek()
		if s := p.parseStatement(); s != nil {
			out = append(out, s)
		}
		if p.ts.Peek() == before {
			// ничего не съели, пропускаем токен, чтобы не зациклиться
			p.advance()
		}
	}
	return out
}

// atClauseEnd reports whether an if arm ends here.
func (p *Parser) atClauseEnd() bool {
	return p.atCommand(token.CommandElseIf) || p.atCommand(token.CommandElse) || p.atCommand(token.CommandEndIf) ||
		p.at(token.BodyEnd)
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.ts.Peek()
	switch tok.Kind {
	case token.Text, token.ExpressionStart, token.Hashtag:
		return p.parseLine()
	case token.ShortcutArrow:
		return p.parseShortcutOptions()
	case token.Indent:
		return p.parseIndentBlock()
	case token.CommandStart:
		switch p.ts.Peek2().Kind {
		case token.CommandIf:
			return p.parseIf()
		case token.CommandSet:
			return p.parseSet()
		case token.CommandCall:
			return p.parseCall()
		case token.CommandDeclare:
			return p.parseDeclare()
		case token.CommandJump:
			return p.parseJump()
		case token.CommandElseIf, token.CommandElse, token.CommandEndIf:
			p.err(diag.SynUnexpectedToken, "'"+p.ts.Peek2().Text+"' without a matching <<if>>")
			p.skipCommand()
			return nil
		default:
			return p.parseCommand()
		}
	case token.BlankLineFollowingOption, token.Newline, token.Dedent:
		// stray structure tokens carry no statement
		p.advance()
		return nil
	}
	p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok))
	p.advance()
	return nil
}

// skipCommand drops tokens up to and including the command's closing '>>'.
func (p *Parser) skipCommand() {
	p.resyncUntil(token.CommandEnd, token.CommandTextEnd, token.Newline, token.BodyEnd)
	if p.at(token.CommandEnd) || p.at(token.CommandTextEnd) {
		p.advance()
	}
}

// parseLine: (text | {expr})+ then conditions and hashtags, then a line break.
func (p *Parser) parseLine() *ast.LineStmt {
	first := p.ts.Peek()
	line := &ast.LineStmt{Sp: first.Span, Line: first.Line}

parts:
	for {
		switch {
		case p.at(token.Text):
			tok := p.advance()
			line.Parts = append(line.Parts, ast.LinePart{Text: tok.Text, Sp: tok.Span})
		case p.at(token.ExpressionStart):
			open := p.advance()
			expr := p.parseExpr()
			p.expect(token.ExpressionEnd, diag.SynUnclosedExpression, "expected '}' to close the inline expression")
			line.Parts = append(line.Parts, ast.LinePart{Expr: expr, Sp: open.Span.Cover(p.lastSpan)})
		default:
			break parts
		}
	}

	for {
		switch {
		case p.at(token.Hashtag):
			if h := p.parseHashtag(); h != nil {
				line.Hashtags = append(line.Hashtags, h)
			}
			continue
		case p.atCommand(token.CommandIf):
			p.advance()
			p.advance()
			line.Condition = p.parseExpr()
			p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' to close the line condition")
			continue
		case p.at(token.CommandStart):
			p.err(diag.SynUnexpectedToken, "only <<if>> conditions may follow line text")
			p.skipCommand()
			continue
		}
		break
	}

	line.Sp = line.Sp.Cover(p.lastSpan)
	p.endLine()
	return line
}

// endLine consumes the line break that ends a line; EOF and '===' also end it.
func (p *Parser) endLine() {
	switch {
	case p.at(token.Newline):
		p.advance()
	case p.at(token.EOF), p.at(token.BodyEnd):
	default:
		p.err(diag.SynUnexpectedToken, "expected end of line, got "+describe(p.ts.Peek()))
		p.resyncUntil(token.Newline, token.BodyEnd)
		if p.at(token.Newline) {
			p.advance()
		}
	}
}

// parseShortcutOptions: one or more `->` options, optionally closed by a
// blank line.
func (p *Parser) parseShortcutOptions() *ast.ShortcutOptions {
	group := &ast.ShortcutOptions{Sp: p.ts.Peek().Span}
	for p.at(token.ShortcutArrow) {
		group.Options = append(group.Options, p.parseShortcutOption())
	}
	group.Sp = group.Sp.Cover(p.lastSpan)
	if p.at(token.BlankLineFollowingOption) {
		p.advance()
	}
	return group
}

func (p *Parser) parseShortcutOption() *ast.ShortcutOption {
	arrow := p.advance()
	opt := &ast.ShortcutOption{Sp: arrow.Span}
	opt.Line = p.parseLine()
	if p.at(token.Indent) {
		p.advance()
		opt.Body = p.parseStatements(func() bool { return p.at(token.Dedent) || p.at(token.BodyEnd) })
		if p.at(token.Dedent) {
			p.advance()
		}
	}
	opt.Sp = arrow.Span.Cover(p.lastSpan)
	return opt
}

func (p *Parser) parseIndentBlock() *ast.IndentBlock {
	p.advance() // indent
	start := p.ts.Peek().Span
	block := &ast.IndentBlock{}
	block.Body = p.parseStatements(func() bool { return p.at(token.Dedent) || p.at(token.BodyEnd) })
	if p.at(token.Dedent) {
		p.advance()
	}
	block.Sp = start.Cover(p.lastSpan)
	return block
}

// parseIf: <<if>> ... (<<elseif>> ...)* (<<else>> ...)? <<endif>>
func (p *Parser) parseIf() *ast.IfStmt {
	start := p.advance()
	p.advance() // if
	stmt := &ast.IfStmt{Sp: start.Span}

	cond := p.parseExpr()
	p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' after the if condition")
	stmt.Clauses = append(stmt.Clauses, p.parseClause(start, cond))

	for p.atCommand(token.CommandElseIf) {
		open := p.advance()
		p.advance()
		c := p.parseExpr()
		p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' after the elseif condition")
		stmt.Clauses = append(stmt.Clauses, p.parseClause(open, c))
	}
	if p.atCommand(token.CommandElse) {
		open := p.advance()
		p.advance()
		p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' after else")
		stmt.Clauses = append(stmt.Clauses, p.parseClause(open, nil))
	}

	if p.atCommand(token.CommandEndIf) {
		p.advance()
		p.advance()
		p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' after endif")
	} else {
		p.report(diag.SynUnclosedIf, diag.SevError, start.Span, "<<if>> is missing its <<endif>>")
	}
	stmt.Sp = start.Span.Cover(p.lastSpan)
	return stmt
}

func (p *Parser) parseClause(open token.Token, cond ast.Expr) *ast.IfClause {
	c := &ast.IfClause{Cond: cond, Sp: open.Span}
	c.Body = p.parseStatements(p.atClauseEnd)
	c.Sp = open.Span.Cover(p.lastSpan)
	return c
}

// parseSet: <<set $v (=|to|+=|-=|*=|/=|%=) expr>>
// Commands that cannot be recovered return a nil interface, never a typed
// nil pointer, so parseStatements drops them.
func (p *Parser) parseSet() ast.Stmt {
	start := p.advance()
	p.advance() // set
	stmt := &ast.SetStmt{Sp: start.Span}

	varTok, ok := p.expect(token.VarID, diag.SynExpectVariable, "expected a variable after 'set'")
	if !ok {
		p.skipCommand()
		return nil
	}
	stmt.Var = &ast.VarExpr{Name: varTok.Text, Sp: varTok.Span}

	switch k := p.ts.Peek().Kind; k {
	case token.OpAssign, token.OpAddAssign, token.OpSubAssign, token.OpMulAssign, token.OpDivAssign, token.OpModAssign:
		p.advance()
		stmt.Op = k
	default:
		p.err(diag.SynUnexpectedToken, "expected '=' or 'to' after "+varTok.Text)
		p.skipCommand()
		return nil
	}

	stmt.Value = p.parseExpr()
	p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' to close the set command")
	stmt.Sp = start.Span.Cover(p.lastSpan)
	return stmt
}

// parseCall: <<call func(args)>>
func (p *Parser) parseCall() ast.Stmt {
	start := p.advance()
	p.advance() // call
	if !p.at(token.FuncID) {
		p.err(diag.SynExpectExpression, "expected a function call after 'call'")
		p.skipCommand()
		return nil
	}
	call := p.parseCallExpr()
	p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' to close the call command")
	return &ast.CallStmt{Call: call, Sp: start.Span.Cover(p.lastSpan)}
}

// parseDeclare: <<declare $v = value [as Type]>>
func (p *Parser) parseDeclare() ast.Stmt {
	start := p.advance()
	p.advance() // declare
	stmt := &ast.DeclareStmt{Sp: start.Span, Line: start.Line}

	varTok, ok := p.expect(token.VarID, diag.SynExpectVariable, "expected a variable after 'declare'")
	if !ok {
		p.skipCommand()
		return nil
	}
	stmt.Var = &ast.VarExpr{Name: varTok.Text, Sp: varTok.Span}

	if _, ok := p.expect(token.OpAssign, diag.SynUnexpectedToken, "expected '=' after "+varTok.Text); !ok {
		p.skipCommand()
		return nil
	}
	stmt.Value = p.parseExpr()

	if p.at(token.KeywordAs) {
		p.advance()
		if p.at(token.ID) || p.at(token.FuncID) {
			typeTok := p.advance()
			stmt.TypeName = typeTok.Text
			stmt.TypeSp = typeTok.Span
		} else {
			p.err(diag.SynUnexpectedToken, "expected a type name after 'as'")
		}
	}
	p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' to close the declare command")
	stmt.Sp = start.Span.Cover(p.lastSpan)
	return stmt
}

// parseJump: <<jump Node>> or <<jump {expr}>>
func (p *Parser) parseJump() ast.Stmt {
	start := p.advance()
	p.advance() // jump
	stmt := &ast.JumpStmt{Sp: start.Span}

	switch {
	case p.at(token.ID):
		stmt.Target = p.advance().Text
	case p.at(token.ExpressionStart):
		p.advance()
		stmt.TargetExpr = p.parseExpr()
		p.expect(token.ExpressionEnd, diag.SynUnclosedExpression, "expected '}' after the jump expression")
	default:
		p.err(diag.SynExpectNodeName, "expected a node name after 'jump'")
		p.skipCommand()
		return nil
	}
	p.expect(token.CommandEnd, diag.SynUnclosedCommand, "expected '>>' to close the jump command")
	stmt.Sp = start.Span.Cover(p.lastSpan)
	return stmt
}

// parseCommand: free-text command, e.g. <<wait {$t}>>.
func (p *Parser) parseCommand() *ast.CommandStmt {
	start := p.advance()
	cmd := &ast.CommandStmt{Sp: start.Span}
	for {
		switch {
		case p.at(token.CommandText):
			tok := p.advance()
			cmd.Parts = append(cmd.Parts, ast.LinePart{Text: tok.Text, Sp: tok.Span})
			continue
		case p.at(token.CommandExpressionStart):
			open := p.advance()
			expr := p.parseExpr()
			p.expect(token.ExpressionEnd, diag.SynUnclosedExpression, "expected '}' inside the command")
			cmd.Parts = append(cmd.Parts, ast.LinePart{Expr: expr, Sp: open.Span.Cover(p.lastSpan)})
			continue
		case p.at(token.CommandTextEnd):
			p.advance()
		default:
			p.report(diag.SynUnclosedCommand, diag.SevError, start.Span, "command is missing its closing '>>'")
		}
		break
	}
	cmd.Sp = start.Span.Cover(p.lastSpan)
	return cmd
}
