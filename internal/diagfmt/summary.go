package diagfmt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spool/internal/compiler"
	"spool/internal/diag"
)

var (
	summaryOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 1)
	summaryFailed = summaryOK.
			Foreground(lipgloss.Color("9")).
			BorderForeground(lipgloss.Color("9"))
)

// Summary renders one line of totals: errors, warnings, lines, declarations
// and files. With color it is framed in a rounded box.
func Summary(res *compiler.Result, files int, colored bool) string {
	errs, warns, _ := diag.Count(res.Diagnostics)
	parts := []string{
		plural(errs, "error"),
		plural(warns, "warning"),
		plural(len(res.StringTable), "line"),
		plural(len(res.Declarations), "declaration"),
		plural(files, "file"),
	}
	mark := "ok"
	if errs > 0 {
		mark = "failed"
	}
	text := mark + ": " + strings.Join(parts, ", ")
	if !colored {
		return text
	}
	if errs > 0 {
		return summaryFailed.Render(text)
	}
	return summaryOK.Render(text)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
