package diag

import (
	"testing"

	"spool/internal/source"
)

func TestReportBuilderDerivesLocation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.yarn", []byte("title: A\n---\n  bad line\n===\n"))
	file := fs.Get(id)

	bag := NewBag(0)
	ReportError(BagReporter{Bag: bag}, SynUnexpectedToken, file, source.Span{File: id, Start: 15, End: 18}, "boom").Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.File != "a.yarn" {
		t.Errorf("file = %q", d.File)
	}
	want := Range{Start: Position{Line: 3, Character: 2}, End: Position{Line: 3, Character: 5}}
	if d.Range != want {
		t.Errorf("range = %+v, want %+v", d.Range, want)
	}
	if d.Context != "  bad line" {
		t.Errorf("context = %q", d.Context)
	}
}

func TestReportBuilderOverridesAndEmitOnce(t *testing.T) {
	var items []Diagnostic
	b := ReportWarning(SliceReporter{Items: &items}, LexMixedIndentation, nil, source.Span{}, "mixed").
		WithRange(Range{Start: Position{Line: 2}, End: Position{Line: 2, Character: 3}}).
		WithContext("\t  x")
	b.Emit()
	b.Emit()
	if len(items) != 1 {
		t.Fatalf("Emit must report exactly once, got %d", len(items))
	}
	if items[0].Context != "\t  x" || items[0].Range.End.Character != 3 {
		t.Errorf("overrides not applied: %+v", items[0])
	}
	if items[0].Severity != SevWarning {
		t.Errorf("severity = %v", items[0].Severity)
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(1)
	if !b.Add(New(SevInfo, UnknownCode, source.Span{}, "one")) {
		t.Fatal("first add must succeed")
	}
	if b.Add(New(SevInfo, UnknownCode, source.Span{}, "two")) {
		t.Fatal("second add must hit the cap")
	}
	other := NewBag(0)
	other.Add(NewError(SemaDuplicateLineID, source.Span{}, "dup"))
	b.Merge(other)
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("merge lost items: len=%d", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	mk := func(file string, line uint32, sev Severity) Diagnostic {
		return Diagnostic{Severity: sev, Code: SynUnexpectedToken, File: file, Range: Range{Start: Position{Line: line}}, Message: "m"}
	}
	b.Add(mk("b.yarn", 1, SevError))
	b.Add(mk("a.yarn", 5, SevWarning))
	b.Add(mk("a.yarn", 5, SevError))
	b.Add(mk("a.yarn", 5, SevError))
	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 after dedup, got %d", len(items))
	}
	if items[0].File != "a.yarn" || items[0].Severity != SevError {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].File != "a.yarn" || items[1].Severity != SevWarning {
		t.Errorf("warning at the same spot was merged away: %+v", items[1])
	}
	if items[2].File != "b.yarn" {
		t.Errorf("unexpected last item %+v", items[2])
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := Diagnostic{Severity: SevError, Code: SemaDuplicateLineID, File: "a", Message: "x"}
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("duplicates should be filtered, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexMixedIndentation: "LEX1003",
		SynMissingTitle:     "SYN2002",
		SemaDuplicateLineID: "SEM3001",
		UnknownCode:         "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	ds := []Diagnostic{
		{Severity: SevWarning, Code: LexMixedIndentation, File: "b.yarn", Range: Range{Start: Position{Line: 4}}, Message: "Indentation contains tabs and spaces"},
		{Severity: SevError, Code: SemaDuplicateLineID, File: "a.yarn", Range: Range{Start: Position{Line: 2, Character: 6}}, Message: "Duplicate line ID line:x\n"},
	}
	want := "error SEM3001 a.yarn:2:7 Duplicate line ID line:x\n" +
		"warning LEX1003 b.yarn:4:1 Indentation contains tabs and spaces"
	if got := FormatShort(ds); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
