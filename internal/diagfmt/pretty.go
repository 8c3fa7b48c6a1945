package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"spool/internal/diag"
)

type palette struct {
	err, warn, info, loc, caret, gutter, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		loc:    mk(color.Bold),
		caret:  mk(color.FgGreen, color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty печатает диагностики в человекочитаемом виде, в переданном порядке:
//
//	<file>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | offending line
//	     |     ^~~~
func Pretty(w io.Writer, ds []diag.Diagnostic, opts PrettyOpts) {
	p := newPalette(opts.Color)
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	for i := range ds {
		d := &ds[i]
		loc := fmt.Sprintf("%s:%d:%d:", formatPath(d.File, opts.PathMode, opts.BaseDir), d.Range.Start.Line, d.Range.Start.Character+1)
		fmt.Fprintf(w, "%s %s %s: %s\n",
			p.loc.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)

		if d.Context != "" && d.Range.Start.Line > 0 {
			writeContext(w, p, d, tab)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			}
		}
	}
}

func writeContext(w io.Writer, p palette, d *diag.Diagnostic, tab int) {
	line := strings.TrimRight(d.Context, "\r\n")
	gutter := fmt.Sprintf("%4d | ", d.Range.Start.Line)
	blank := strings.Repeat(" ", len(gutter)-2) + "| "

	start := clamp(int(d.Range.Start.Character), len(line))
	end := len(line)
	if d.Range.End.Line == d.Range.Start.Line {
		end = clamp(int(d.Range.End.Character), len(line))
	}
	if end < start {
		end = start
	}

	pad := displayWidth(line[:start], tab)
	width := displayWidth(line[start:end], tab)
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(w, "%s%s\n", p.gutter.Sprint(gutter), expandTabs(line, tab))
	fmt.Fprintf(w, "%s%s%s\n", p.gutter.Sprint(blank), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func expandTabs(s string, tab int) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tab))
}

// displayWidth counts terminal cells, so wide runes keep the caret aligned.
func displayWidth(s string, tab int) int {
	return runewidth.StringWidth(expandTabs(s, tab))
}
