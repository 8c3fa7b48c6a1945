package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"spool/internal/compiler"
)

// PrettyResult prints the declarations, the string table and the file tags
// as aligned columns. Diagnostics are printed separately by Pretty.
func PrettyResult(w io.Writer, res *compiler.Result, opts PrettyOpts) {
	p := newPalette(opts.Color)

	if len(res.Declarations) > 0 {
		fmt.Fprintln(w, p.loc.Sprint("declarations:"))
		width := 0
		for _, d := range res.Declarations {
			width = max(width, runewidth.StringWidth(d.Name))
		}
		for _, d := range res.Declarations {
			fmt.Fprintf(w, "  %s %-6s = %s", runewidth.FillRight(d.Name, width), d.Type, d.Default)
			if d.Origin == compiler.Derived {
				fmt.Fprint(w, p.gutter.Sprint("  (derived)"))
			}
			if d.Description != "" {
				fmt.Fprintf(w, "  %s", p.note.Sprint("// "+d.Description))
			}
			fmt.Fprintln(w)
		}
	}

	if len(res.StringTable) > 0 {
		fmt.Fprintln(w, p.loc.Sprint("strings:"))
		ids := res.LineIDs()
		width := 0
		for _, id := range ids {
			width = max(width, runewidth.StringWidth(id))
		}
		for _, id := range ids {
			info := res.StringTable[id]
			fmt.Fprintf(w, "  %s %q", runewidth.FillRight(id, width), info.Text)
			if len(info.Tags) > 0 {
				fmt.Fprintf(w, " #%s", strings.Join(info.Tags, " #"))
			}
			fmt.Fprintf(w, "  %s\n", p.gutter.Sprintf("%s:%d", formatPath(info.File, opts.PathMode, opts.BaseDir), info.LineNumber))
		}
	}

	tagged := make([]string, 0, len(res.FileTags))
	for name, tags := range res.FileTags {
		if len(tags) > 0 {
			tagged = append(tagged, name)
		}
	}
	if len(tagged) == 0 {
		return
	}
	sortStrings(tagged)
	fmt.Fprintln(w, p.loc.Sprint("file tags:"))
	for _, name := range tagged {
		fmt.Fprintf(w, "  %s #%s\n", formatPath(name, opts.PathMode, opts.BaseDir), strings.Join(res.FileTags[name], " #"))
	}
}
