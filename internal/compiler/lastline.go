package compiler

import "spool/internal/ast"

const lastLineTag = "lastline"

// tagLastLines marks every line directly followed by a group of options, so
// a runtime can show it alongside the choices.
func tagLastLines(tree *ast.Dialogue) {
	ast.Bodies(tree, func(list []ast.Stmt) {
		for i := 0; i+1 < len(list); i++ {
			line, ok := list[i].(*ast.LineStmt)
			if !ok {
				continue
			}
			if _, ok := list[i+1].(*ast.ShortcutOptions); ok && !line.HasTag(lastLineTag) {
				line.AddTag(lastLineTag)
			}
		}
	})
}
