package compiler

import (
	"fmt"
	"strings"

	"spool/internal/ast"
	"spool/internal/diag"
	"spool/internal/token"
	"spool/internal/types"
)

// declarationVisitor collects the <<declare>> statements of one file.
type declarationVisitor struct {
	pf  *parsedFile
	r   diag.Reporter
	out []Declaration

	comments map[uint32]token.Token // line -> last comment on it
	code     map[uint32]bool        // lines holding default-channel tokens
}

func newDeclarationVisitor(pf *parsedFile, diags *[]diag.Diagnostic) *declarationVisitor {
	v := &declarationVisitor{
		pf:       pf,
		r:        fileReporter{name: pf.name, items: diags},
		comments: make(map[uint32]token.Token),
		code:     make(map[uint32]bool),
	}
	for _, tok := range pf.tokens {
		switch {
		case tok.Kind == token.Comment:
			v.comments[tok.Line] = tok
		case !tok.IsHidden() && !tok.IsSynthetic() && tok.Kind != token.EOF:
			v.code[tok.Line] = true
		}
	}
	return v
}

func (v *declarationVisitor) visit() {
	for _, node := range v.pf.tree.Nodes {
		title := node.Title()
		ast.Inspect(node, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.DeclareStmt:
				v.declare(n, title)
				return false
			case ast.Expr:
				return false
			}
			return true
		})
	}
}

func (v *declarationVisitor) declare(stmt *ast.DeclareStmt, node string) {
	if stmt.Var == nil || stmt.Value == nil {
		return
	}
	name := stmt.Var.Name
	value, ok := constantValue(stmt.Value)
	if !ok {
		diag.ReportError(v.r, diag.SemaNonConstantInitializer, v.pf.file, stmt.Value.Span(),
			"Initial value for "+name+" must be a constant").Emit()
		return
	}

	if stmt.TypeName != "" {
		kind, known := types.ParseKind(stmt.TypeName)
		if !known {
			diag.ReportError(v.r, diag.SemaUnknownType, v.pf.file, stmt.TypeSp,
				"Unknown type "+stmt.TypeName).Emit()
			return
		}
		if kind != value.Kind {
			diag.ReportError(v.r, diag.SemaDeclarationTypeMismatch, v.pf.file, stmt.TypeSp,
				fmt.Sprintf("Type %s does not match initial value %s (%s)", kind, quoteValue(value), value.Kind)).Emit()
			return
		}
	}

	v.out = append(v.out, Declaration{
		Name:        name,
		Type:        value.Kind,
		Default:     value,
		Description: v.description(stmt),
		SourceFile:  v.pf.name,
		SourceNode:  node,
		Range:       diag.RangeOf(v.pf.file, stmt.Sp),
		Origin:      Explicit,
	})
}

// description prefers a comment trailing the declaration on its own line,
// then a comment alone on the line above.
func (v *declarationVisitor) description(stmt *ast.DeclareStmt) string {
	if c, ok := v.comments[stmt.Line]; ok && c.Span.Start >= stmt.Sp.End {
		return commentText(c)
	}
	above := stmt.Line - 1
	if c, ok := v.comments[above]; ok && above > 0 && !v.code[above] {
		return commentText(c)
	}
	return ""
}

func commentText(tok token.Token) string {
	return strings.TrimSpace(strings.TrimPrefix(tok.Text, "//"))
}

// constantValue accepts literals and negated numbers.
func constantValue(e ast.Expr) (types.Value, bool) {
	switch e := ast.Unparen(e).(type) {
	case *ast.NumberLit:
		return types.NumberValue(e.Value), true
	case *ast.StringLit:
		return types.StringValue(e.Value), true
	case *ast.BoolLit:
		return types.BoolValue(e.Value), true
	case *ast.UnaryExpr:
		if e.Op != token.OpSub {
			return types.Value{}, false
		}
		if n, ok := ast.Unparen(e.X).(*ast.NumberLit); ok {
			return types.NumberValue(-n.Value), true
		}
	}
	return types.Value{}, false
}

func quoteValue(v types.Value) string {
	if v.Kind == types.String {
		return fmt.Sprintf("%q", v.Str)
	}
	return v.String()
}

func fileTags(tree *ast.Dialogue) []string {
	tags := make([]string, 0, len(tree.FileTags))
	for _, h := range tree.FileTags {
		tags = append(tags, h.Text)
	}
	return tags
}

// getDeclarations collects explicit declarations and file tags, file by file.
func getDeclarations(st *state) {
	for _, pf := range st.parsed {
		v := newDeclarationVisitor(pf, &st.result.Diagnostics)
		v.visit()
		st.result.Declarations = append(st.result.Declarations, v.out...)
		st.known = append(st.known, v.out...)
		st.result.FileTags[pf.name] = fileTags(pf.tree)
	}
}
