package compiler

import (
	"fmt"
	"strings"

	"spool/internal/ast"
	"spool/internal/diag"
)

const lineIDPrefix = "line:"

// generateStrings adds every line of pf, option lines included, to table.
func generateStrings(pf *parsedFile, table map[string]StringInfo) []diag.Diagnostic {
	var diags []diag.Diagnostic
	r := fileReporter{name: pf.name, items: &diags}
	for _, node := range pf.tree.Nodes {
		title := node.Title()
		ast.Inspect(node, func(n ast.Node) bool {
			line, ok := n.(*ast.LineStmt)
			if !ok {
				return true
			}
			info := StringInfo{
				Text:       lineText(line),
				File:       pf.name,
				Node:       title,
				LineNumber: line.Line,
				Tags:       lineTags(line),
			}
			if tag, ok := line.TagWithPrefix(lineIDPrefix); ok {
				if _, dup := table[tag.Text]; dup {
					diag.ReportError(r, diag.SemaDuplicateLineID, pf.file, tag.Sp, "Duplicate line ID "+tag.Text).Emit()
					return false
				}
				table[tag.Text] = info
				return false
			}
			info.IsImplicitTag = true
			table[implicitLineID(table, pf.name, title)] = info
			return false
		})
	}
	return diags
}

// implicitLineID is line:<file>-<node>-<n>, n starting at the table size.
func implicitLineID(table map[string]StringInfo, file, node string) string {
	for n := len(table); ; n++ {
		id := fmt.Sprintf("%s%s-%s-%d", lineIDPrefix, file, node, n)
		if _, taken := table[id]; !taken {
			return id
		}
	}
}

// lineText joins the literal parts and numbers inline expressions {0}, {1}, ...
func lineText(line *ast.LineStmt) string {
	var sb strings.Builder
	n := 0
	for _, part := range line.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		fmt.Fprintf(&sb, "{%d}", n)
		n++
	}
	return strings.TrimSpace(sb.String())
}

func lineTags(line *ast.LineStmt) []string {
	tags := make([]string, 0, len(line.Hashtags))
	for _, h := range line.Hashtags {
		if strings.HasPrefix(h.Text, lineIDPrefix) {
			continue
		}
		tags = append(tags, h.Text)
	}
	return tags
}
