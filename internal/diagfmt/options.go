package diagfmt

import "spool/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shortens long absolute paths.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
	// PathModeAsIs prints the file name exactly as the job named it.
	PathModeAsIs
)

// ParsePathMode accepts auto|absolute|relative|basename|as-is.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	case "as-is", "":
		return PathModeAsIs, true
	}
	return PathModeAsIs, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string // для PathModeRelative
	ShowNotes bool
	// TabWidth expands tabs in context lines; 0 means 4.
	TabWidth int
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода диагностик, 0 - без ограничений
	IncludeNotes bool
}

func formatPath(name string, mode PathMode, baseDir string) string {
	if name == "" {
		return "<unknown>"
	}
	f := source.File{Path: name}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return name
}
