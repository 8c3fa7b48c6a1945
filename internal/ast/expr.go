package ast

import (
	"spool/internal/source"
	"spool/internal/token"
)

// Expr is an expression inside `{...}` or a command.
type Expr interface {
	Node
	exprNode()
}

type NumberLit struct {
	Value float64
	Raw   string
	Sp    source.Span
}

// StringLit holds the unescaped value; Raw keeps the quotes.
type StringLit struct {
	Value string
	Raw   string
	Sp    source.Span
}

type BoolLit struct {
	Value bool
	Sp    source.Span
}

type NullLit struct {
	Sp source.Span
}

// VarExpr is a `$name` reference; Name keeps the dollar sign.
type VarExpr struct {
	Name string
	Sp   source.Span
}

type CallExpr struct {
	Name string
	Args []Expr
	Sp   source.Span
}

type UnaryExpr struct {
	Op token.Kind
	X  Expr
	Sp source.Span
}

type BinaryExpr struct {
	Op token.Kind
	X  Expr
	Y  Expr
	Sp source.Span
}

type ParenExpr struct {
	X  Expr
	Sp source.Span
}

// BadExpr stands in for an expression that failed to parse.
type BadExpr struct {
	Sp source.Span
}

func (e *NumberLit) Span() source.Span  { return e.Sp }
func (e *StringLit) Span() source.Span  { return e.Sp }
func (e *BoolLit) Span() source.Span    { return e.Sp }
func (e *NullLit) Span() source.Span    { return e.Sp }
func (e *VarExpr) Span() source.Span    { return e.Sp }
func (e *CallExpr) Span() source.Span   { return e.Sp }
func (e *UnaryExpr) Span() source.Span  { return e.Sp }
func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *ParenExpr) Span() source.Span  { return e.Sp }
func (e *BadExpr) Span() source.Span    { return e.Sp }

func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*VarExpr) exprNode()    {}
func (*CallExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*ParenExpr) exprNode()  {}
func (*BadExpr) exprNode()    {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
