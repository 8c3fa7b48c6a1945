package compiler

import (
	"spool/internal/trace"
)

// File is one named source text of a job.
type File struct {
	Name   string
	Source string
}

// CompilationType selects how much of the pipeline runs.
type CompilationType uint8

const (
	// FullCompilation runs every pass.
	FullCompilation CompilationType = iota
	// StringsOnly stops after declarations; no tracking variables are derived.
	StringsOnly
)

func (t CompilationType) String() string {
	switch t {
	case FullCompilation:
		return "full"
	case StringsOnly:
		return "strings"
	default:
		return "unknown"
	}
}

// ParseCompilationType accepts "full" and "strings".
func ParseCompilationType(s string) (CompilationType, bool) {
	switch s {
	case "", "full":
		return FullCompilation, true
	case "strings", "strings-only":
		return StringsOnly, true
	}
	return FullCompilation, false
}

// Job is the input of Compile.
type Job struct {
	Files []File
	// Library registers callable functions; nil means StandardLibrary().
	Library *Library
	Type    CompilationType
	// VariableDeclarations are known to the passes before any file is read,
	// e.g. from the project manifest. They are not echoed into the Result.
	VariableDeclarations []Declaration
	// Jobs > 1 lexes and parses files concurrently with at most Jobs workers.
	Jobs int
	// Tracer overrides the tracer carried by the context.
	Tracer trace.Tracer
}
