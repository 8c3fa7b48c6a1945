package ast

import (
	"strings"

	"spool/internal/source"
	"spool/internal/token"
)

// Stmt is a statement inside a node body.
type Stmt interface {
	Node
	stmtNode()
}

// LinePart is one piece of a line: literal text or an inline expression.
type LinePart struct {
	Text string
	Expr Expr // nil for literal text
	Sp   source.Span
}

// LineStmt is a line of user-visible dialogue.
type LineStmt struct {
	Parts     []LinePart
	Condition Expr // `<<if ...>>` at the end of the line, or nil
	Hashtags  []*Hashtag
	Sp        source.Span
	// Line is the 1-based source line the statement starts on.
	Line uint32
}

// HasTag reports whether the line carries a hashtag with exactly this text.
func (l *LineStmt) HasTag(text string) bool {
	for _, h := range l.Hashtags {
		if h.Text == text {
			return true
		}
	}
	return false
}

// TagWithPrefix returns the first hashtag starting with prefix.
func (l *LineStmt) TagWithPrefix(prefix string) (*Hashtag, bool) {
	for _, h := range l.Hashtags {
		if strings.HasPrefix(h.Text, prefix) {
			return h, true
		}
	}
	return nil, false
}

// AddTag appends a synthetic hashtag with an empty span at the end of the line.
func (l *LineStmt) AddTag(text string) {
	l.Hashtags = append(l.Hashtags, &Hashtag{Text: text, Sp: l.Sp.ZeroideToEnd()})
}

// ShortcutOptions is a group of consecutive `->` options.
type ShortcutOptions struct {
	Options []*ShortcutOption
	Sp      source.Span
}

// ShortcutOption is one `-> line` with an optional indented body.
type ShortcutOption struct {
	Line *LineStmt
	Body []Stmt
	Sp   source.Span
}

// IfClause is one arm of an if statement; Cond is nil for `<<else>>`.
type IfClause struct {
	Cond Expr
	Body []Stmt
	Sp   source.Span
}

type IfStmt struct {
	Clauses []*IfClause
	Sp      source.Span
}

// SetStmt is `<<set $v = expr>>` or a compound assignment such as `+=`.
type SetStmt struct {
	Var   *VarExpr
	Op    token.Kind
	Value Expr
	Sp    source.Span
}

type CallStmt struct {
	Call *CallExpr
	Sp   source.Span
}

// CommandStmt is a free-text command such as `<<wait 2>>`. Parts alternate
// between text and inline expressions the same way a line does.
type CommandStmt struct {
	Parts []LinePart
	Sp    source.Span
}

// DeclareStmt is `<<declare $v = value [as Type]>>`.
type DeclareStmt struct {
	Var      *VarExpr
	Value    Expr
	TypeName string // empty without `as`
	TypeSp   source.Span
	Sp       source.Span
	Line     uint32
}

// JumpStmt is `<<jump Target>>` or `<<jump {expr}>>`.
type JumpStmt struct {
	Target     string
	TargetExpr Expr
	Sp         source.Span
}

// IndentBlock is an indented run of statements outside an option body.
type IndentBlock struct {
	Body []Stmt
	Sp   source.Span
}

func (s *LineStmt) Span() source.Span        { return s.Sp }
func (s *ShortcutOptions) Span() source.Span { return s.Sp }
func (s *ShortcutOption) Span() source.Span  { return s.Sp }
func (s *IfClause) Span() source.Span        { return s.Sp }
func (s *IfStmt) Span() source.Span          { return s.Sp }
func (s *SetStmt) Span() source.Span         { return s.Sp }
func (s *CallStmt) Span() source.Span        { return s.Sp }
func (s *CommandStmt) Span() source.Span     { return s.Sp }
func (s *DeclareStmt) Span() source.Span     { return s.Sp }
func (s *JumpStmt) Span() source.Span        { return s.Sp }
func (s *IndentBlock) Span() source.Span     { return s.Sp }

func (*LineStmt) stmtNode()        {}
func (*ShortcutOptions) stmtNode() {}
func (*IfStmt) stmtNode()          {}
func (*SetStmt) stmtNode()         {}
func (*CallStmt) stmtNode()        {}
func (*CommandStmt) stmtNode()     {}
func (*DeclareStmt) stmtNode()     {}
func (*JumpStmt) stmtNode()        {}
func (*IndentBlock) stmtNode()     {}
