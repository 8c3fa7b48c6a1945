package compiler

import (
	"sort"

	"spool/internal/diag"
)

// StringInfo is one user-visible line of the string table.
type StringInfo struct {
	Text       string   `msgpack:"text"`
	File       string   `msgpack:"file"`
	Node       string   `msgpack:"node"`
	LineNumber uint32   `msgpack:"line"`
	Tags       []string `msgpack:"tags"`
	// IsImplicitTag marks ids the compiler generated because the line had
	// no #line: tag.
	IsImplicitTag bool `msgpack:"implicit"`
}

// Result is the output of Compile.
type Result struct {
	// Diagnostics are in emission order: pass by pass, file by file.
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics"`
	// Declarations holds explicit declarations in file order followed by
	// derived tracking variables sorted by node title.
	Declarations []Declaration        `msgpack:"declarations"`
	StringTable  map[string]StringInfo `msgpack:"strings"`
	FileTags     map[string][]string   `msgpack:"file_tags"`
}

func newResult() *Result {
	return &Result{
		Diagnostics:  []diag.Diagnostic{},
		Declarations: []Declaration{},
		StringTable:  map[string]StringInfo{},
		FileTags:     map[string][]string{},
	}
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return r != nil && diag.HasErrors(r.Diagnostics)
}

// LineIDs returns the string table keys sorted.
func (r *Result) LineIDs() []string {
	ids := make([]string, 0, len(r.StringTable))
	for id := range r.StringTable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Declaration finds a declaration by variable name.
func (r *Result) Declaration(name string) (Declaration, bool) {
	for _, d := range r.Declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}
