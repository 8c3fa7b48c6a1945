package ast

// Inspect traverses the tree rooted at n depth-first in source order. It
// calls f(n); if that returns true, Inspect descends into n's children.
// Option lines, if conditions and the inline expressions of lines and
// commands are all visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Dialogue:
		for _, h := range n.FileTags {
			Inspect(h, f)
		}
		for _, node := range n.Nodes {
			Inspect(node, f)
		}
	case *DialogueNode:
		for _, h := range n.Headers {
			Inspect(h, f)
		}
		inspectStmts(n.Body, f)
	case *LineStmt:
		inspectParts(n.Parts, f)
		if n.Condition != nil {
			Inspect(n.Condition, f)
		}
		for _, h := range n.Hashtags {
			Inspect(h, f)
		}
	case *ShortcutOptions:
		for _, opt := range n.Options {
			Inspect(opt, f)
		}
	case *ShortcutOption:
		if n.Line != nil {
			Inspect(n.Line, f)
		}
		inspectStmts(n.Body, f)
	case *IfStmt:
		for _, c := range n.Clauses {
			Inspect(c, f)
		}
	case *IfClause:
		if n.Cond != nil {
			Inspect(n.Cond, f)
		}
		inspectStmts(n.Body, f)
	case *SetStmt:
		if n.Var != nil {
			Inspect(n.Var, f)
		}
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *CallStmt:
		if n.Call != nil {
			Inspect(n.Call, f)
		}
	case *CommandStmt:
		inspectParts(n.Parts, f)
	case *DeclareStmt:
		if n.Var != nil {
			Inspect(n.Var, f)
		}
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *JumpStmt:
		if n.TargetExpr != nil {
			Inspect(n.TargetExpr, f)
		}
	case *IndentBlock:
		inspectStmts(n.Body, f)
	case *CallExpr:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *UnaryExpr:
		Inspect(n.X, f)
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *ParenExpr:
		Inspect(n.X, f)
	}
}

func inspectStmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

func inspectParts(parts []LinePart, f func(Node) bool) {
	for _, p := range parts {
		if p.Expr != nil {
			Inspect(p.Expr, f)
		}
	}
}

// Bodies calls f for every statement list in the tree: node bodies, option
// bodies, if arms and indent blocks, outermost first.
func Bodies(n Node, f func([]Stmt)) {
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *DialogueNode:
			f(n.Body)
		case *ShortcutOption:
			f(n.Body)
		case *IfClause:
			f(n.Body)
		case *IndentBlock:
			f(n.Body)
		case Expr:
			return false
		}
		return true
	})
}
