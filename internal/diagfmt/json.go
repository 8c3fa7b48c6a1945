package diagfmt

import (
	"encoding/json"
	"io"

	"spool/internal/compiler"
	"spool/internal/diag"
	"spool/internal/observ"
	"spool/internal/types"
)

type PositionJSON struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type RangeJSON struct {
	Start PositionJSON `json:"start"`
	End   PositionJSON `json:"end"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	File     string    `json:"file"`
	Range    RangeJSON `json:"range"`
	Context  string    `json:"context,omitempty"`
	Notes    []string  `json:"notes,omitempty"`
}

type DeclarationJSON struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Default     types.Value `json:"default"`
	Description string      `json:"description,omitempty"`
	File        string      `json:"file,omitempty"`
	Node        string      `json:"node,omitempty"`
	Origin      string      `json:"origin"`
}

type StringJSON struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	File     string   `json:"file"`
	Node     string   `json:"node"`
	Line     uint32   `json:"line"`
	Tags     []string `json:"tags"`
	Implicit bool     `json:"implicit"`
}

// ResultOutput is the document `spool compile --format json` prints.
type ResultOutput struct {
	Diagnostics  []DiagnosticJSON    `json:"diagnostics"`
	Errors       int                 `json:"errors"`
	Warnings     int                 `json:"warnings"`
	Declarations []DeclarationJSON   `json:"declarations"`
	Strings      []StringJSON        `json:"strings"`
	FileTags     map[string][]string `json:"file_tags"`
	Timings      *observ.Report      `json:"timings,omitempty"`
}

func toRangeJSON(r diag.Range) RangeJSON {
	return RangeJSON{
		Start: PositionJSON{Line: r.Start.Line, Character: r.Start.Character},
		End:   PositionJSON{Line: r.End.Line, Character: r.End.Character},
	}
}

// BuildDiagnostics converts diagnostics without serializing them.
func BuildDiagnostics(ds []diag.Diagnostic, opts JSONOpts) []DiagnosticJSON {
	n := len(ds)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range ds[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			File:     formatPath(d.File, opts.PathMode, opts.BaseDir),
			Range:    toRangeJSON(d.Range),
			Context:  d.Context,
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, note.Msg)
			}
		}
		out = append(out, dj)
	}
	return out
}

// BuildResultOutput формирует структуру JSON-вывода без сериализации.
// Strings are sorted by id so the document is stable.
func BuildResultOutput(res *compiler.Result, timings *observ.Report, opts JSONOpts) ResultOutput {
	errs, warns, _ := diag.Count(res.Diagnostics)
	out := ResultOutput{
		Diagnostics:  BuildDiagnostics(res.Diagnostics, opts),
		Errors:       errs,
		Warnings:     warns,
		Declarations: make([]DeclarationJSON, 0, len(res.Declarations)),
		Strings:      make([]StringJSON, 0, len(res.StringTable)),
		FileTags:     res.FileTags,
		Timings:      timings,
	}
	for _, d := range res.Declarations {
		out.Declarations = append(out.Declarations, DeclarationJSON{
			Name:        d.Name,
			Type:        d.Type.String(),
			Default:     d.Default,
			Description: d.Description,
			File:        d.SourceFile,
			Node:        d.SourceNode,
			Origin:      d.Origin.String(),
		})
	}
	for _, id := range res.LineIDs() {
		info := res.StringTable[id]
		tags := info.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Strings = append(out.Strings, StringJSON{
			ID:       id,
			Text:     info.Text,
			File:     info.File,
			Node:     info.Node,
			Line:     info.LineNumber,
			Tags:     tags,
			Implicit: info.IsImplicitTag,
		})
	}
	if out.FileTags == nil {
		out.FileTags = map[string][]string{}
	}
	return out
}

// JSON writes the whole compile result as indented JSON.
func JSON(w io.Writer, res *compiler.Result, timings *observ.Report, opts JSONOpts) error {
	return encode(w, BuildResultOutput(res, timings, opts))
}

// DiagnosticsJSON writes only diagnostics, for commands that do not compile.
func DiagnosticsJSON(w io.Writer, ds []diag.Diagnostic, opts JSONOpts) error {
	return encode(w, struct {
		Diagnostics []DiagnosticJSON `json:"diagnostics"`
		Count       int              `json:"count"`
	}{BuildDiagnostics(ds, opts), len(ds)})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
