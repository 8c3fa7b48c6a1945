package diag

import (
	"spool/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Position is a location inside a file: Line is 1-based, Character is a
// 0-based byte offset within that line.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open [Start, End) range of positions.
type Range struct {
	Start Position
	End   Position
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// File is the name of the compiled file the diagnostic belongs to.
	File  string
	Range Range
	// Context is the source text the diagnostic points into, usually the
	// whole offending line.
	Context string
	Primary source.Span
	Notes   []Note
}

// New builds a diagnostic without location metadata.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Less orders diagnostics by file, position, severity (desc) and code.
func Less(a, b Diagnostic) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Range.Start.Line != b.Range.Start.Line {
		return a.Range.Start.Line < b.Range.Start.Line
	}
	if a.Range.Start.Character != b.Range.Start.Character {
		return a.Range.Start.Character < b.Range.Start.Character
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.Message < b.Message
}
