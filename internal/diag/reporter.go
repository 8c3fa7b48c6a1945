package diag

import (
	"fmt"

	"fortio.org/safecast"

	"spool/internal/source"
)

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), DedupReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter. When file is
// non-nil the file name, range and context line are derived from primary.
func NewReportBuilder(r Reporter, sev Severity, code Code, file *source.File, primary source.Span, msg string) *ReportBuilder {
	d := Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	}
	if file != nil {
		d.File = file.Path
		d.Range = RangeOf(file, primary)
		d.Context = file.GetLine(file.Position(primary.Start).Line)
	}
	return &ReportBuilder{reporter: r, diag: d}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, file *source.File, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, file, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, file *source.File, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, file, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, file *source.File, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, file, primary, msg)
}

// WithRange overrides the derived range.
func (b *ReportBuilder) WithRange(rng Range) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Range = rng
	return b
}

// WithContext overrides the derived context text.
func (b *ReportBuilder) WithContext(text string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Context = text
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// SliceReporter appends to a plain slice; used where a pass owns its list.
type SliceReporter struct{ Items *[]Diagnostic }

func (r SliceReporter) Report(d Diagnostic) {
	if r.Items == nil {
		return
	}
	*r.Items = append(*r.Items, d)
}

// RangeOf converts a byte span of file into a line/character range.
func RangeOf(file *source.File, sp source.Span) Range {
	return Range{Start: toPosition(file.Position(sp.Start)), End: toPosition(file.Position(sp.End))}
}

func toPosition(lc source.LineCol) Position {
	col := lc.Col
	if col > 0 {
		col--
	}
	return Position{Line: lc.Line, Character: col}
}

// PositionOf converts a 1-based line and 0-based byte character.
func PositionOf(line, character int) Position {
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		panic(fmt.Errorf("line overflow: %w", err))
	}
	c, err := safecast.Conv[uint32](character)
	if err != nil {
		panic(fmt.Errorf("character overflow: %w", err))
	}
	return Position{Line: l, Character: c}
}
