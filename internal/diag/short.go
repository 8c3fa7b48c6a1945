package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShort renders diagnostics one per line as
// `<severity> <code> <file>:<line>:<col> <message>`, sorted with Less.
// Columns are 1-based. Used by golden tests and `--format short`.
func FormatShort(ds []Diagnostic) string {
	if len(ds) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	var b strings.Builder
	for i, d := range sorted {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			strings.ToLower(d.Severity.String()), d.Code.ID(),
			d.File, d.Range.Start.Line, d.Range.Start.Character+1,
			sanitizeMessage(d.Message))
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
