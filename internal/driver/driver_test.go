package driver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"spool/internal/compiler"
	"spool/internal/diag"
	"spool/internal/observ"
	"spool/internal/project"
	"spool/internal/testkit"
	"spool/internal/trace"
	"spool/internal/types"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func story(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "intro.yarn"), "title: Start\n---\n<<if visited(\"Shop\")>>\nBack again. #line:back\n<<endif>>\n<<jump Shop>>\n===\n")
	writeFile(t, filepath.Join(dir, "town", "shop.yarn"), "title: Shop\n---\nWhat will it be?\n===\n")
	writeFile(t, filepath.Join(dir, ".drafts", "old.yarn"), "title: Old\n---\n===\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not dialogue")
	return dir
}

func TestCollectFiles(t *testing.T) {
	dir := story(t)
	got, err := CollectFiles([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "intro.yarn"), filepath.Join(dir, "town", "shop.yarn")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dir: got %v, want %v", got, want)
	}

	got, err = CollectFiles([]string{filepath.Join(dir, "*.yarn"), filepath.Join(dir, "intro.yarn"), filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatal(err)
	}
	want = []string{filepath.Join(dir, "intro.yarn"), filepath.Join(dir, "notes.txt")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("glob: got %v, want %v", got, want)
	}

	if _, err := CollectFiles([]string{filepath.Join(dir, "missing.yarn")}); err == nil {
		t.Error("missing path must fail")
	}
}

func TestLoadFilesNormalizesAndReportsMissing(t *testing.T) {
	dir := t.TempDir()
	crlf := filepath.Join(dir, "crlf.yarn")
	writeFile(t, crlf, "\ufefftitle: A\r\n---\r\nHi\r\n===\r\n")
	missing := filepath.Join(dir, "gone.yarn")

	files, diags, err := LoadFiles(context.Background(), []string{missing, crlf}, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != crlf {
		t.Fatalf("files = %+v", files)
	}
	if files[0].Source != "title: A\n---\nHi\n===\n" {
		t.Errorf("source = %q", files[0].Source)
	}
	if len(diags) != 1 || diags[0].Code != diag.IOLoadFileError || diags[0].File != missing {
		t.Errorf("diags = %+v", diags)
	}
}

func TestCompileDirectory(t *testing.T) {
	dir := story(t)
	timer := observ.NewTimer()
	out, err := Compile(context.Background(), []string{dir}, Options{Jobs: 2, Logger: quiet, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cached {
		t.Error("no cache configured, result reported as cached")
	}
	if out.Result.HasErrors() {
		t.Fatalf("errors:\n%s", diag.FormatShort(out.Result.Diagnostics))
	}
	if len(out.Files) != 2 {
		t.Errorf("files = %v", out.Files)
	}
	if _, ok := out.Result.StringTable["line:back"]; !ok {
		t.Errorf("string table = %v", out.Result.LineIDs())
	}
	if _, ok := out.Result.Declaration(compiler.VisitedVariableName("Shop")); !ok {
		t.Errorf("declarations = %+v", out.Result.Declarations)
	}
	var phases []string
	for _, p := range timer.Report().Phases {
		phases = append(phases, p.Name)
	}
	if !reflect.DeepEqual(phases, []string{"collect", "load", "compile"}) {
		t.Errorf("phases = %v", phases)
	}
}

func TestCompileUsesCache(t *testing.T) {
	dir := story(t)
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache, Logger: quiet}

	first, err := Compile(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compile(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("cached: first=%v second=%v", first.Cached, second.Cached)
	}
	if !reflect.DeepEqual(first.Result.LineIDs(), second.Result.LineIDs()) {
		t.Errorf("line ids differ: %v vs %v", first.Result.LineIDs(), second.Result.LineIDs())
	}
	if len(second.Result.Declarations) != len(first.Result.Declarations) {
		t.Fatalf("declarations differ: %+v vs %+v", first.Result.Declarations, second.Result.Declarations)
	}
	for i, d := range first.Result.Declarations {
		got := second.Result.Declarations[i]
		if got.Name != d.Name || got.Type != d.Type || !got.Default.Equal(d.Default, 0) || got.Origin != d.Origin {
			t.Errorf("declaration %d: %+v vs %+v", i, got, d)
		}
	}

	writeFile(t, filepath.Join(dir, "town", "shop.yarn"), "title: Shop\n---\nClosed today.\n===\n")
	third, err := Compile(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("changed file still hit the cache")
	}

	strOpts := opts
	strOpts.Type = compiler.StringsOnly
	if out, _ := Compile(context.Background(), []string{dir}, strOpts); out.Cached {
		t.Error("compilation type is not part of the key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if out, _ := Compile(context.Background(), []string{dir}, opts); out.Cached {
		t.Error("hit after DropAll")
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) statuses(file string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.File == file {
			out = append(out, string(ev.Stage)+":"+string(ev.Status))
		}
	}
	return out
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yarn")
	bad := filepath.Join(dir, "bad.yarn")
	writeFile(t, good, "title: A\n---\nFine.\n===\n")
	writeFile(t, bad, "title: B\n---\nBroken {\n===\n")

	rec := &recorder{}
	ring := trace.NewRingTracer(64, trace.LevelPass)
	out, err := Compile(context.Background(), []string{dir}, Options{Progress: rec, Tracer: ring, Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Result.HasErrors() {
		t.Fatal("broken file compiled cleanly")
	}

	want := []string{"load:queued", "load:working", "parse:working", "compile:working", "compile:done"}
	if got := rec.statuses(good); !reflect.DeepEqual(got, want) {
		t.Errorf("good: %v, want %v", got, want)
	}
	if got := rec.statuses(bad); got[len(got)-1] != "compile:error" {
		t.Errorf("bad: %v", got)
	}
	if got := rec.statuses(""); !reflect.DeepEqual(got, []string{"compile:error"}) {
		t.Errorf("run events: %v", got)
	}

	for _, name := range ring.Names() {
		if strings.Contains(name, "parse:") {
			t.Errorf("file span leaked into a pass-level tracer: %s", name)
		}
	}
	if len(ring.Names()) == 0 {
		t.Error("pass-level tracer saw nothing")
	}
}

func TestApplyManifest(t *testing.T) {
	m := &project.Manifest{Path: "spool.toml", Config: project.Config{
		Variables: []project.Variable{{Name: "$gold", Default: int64(3)}},
		Compile:   project.CompileSection{Jobs: 8, Type: "strings"},
	}}
	opts := Options{Jobs: 2}
	if err := opts.ApplyManifest(m); err != nil {
		t.Fatal(err)
	}
	if opts.Jobs != 2 || opts.Type != compiler.StringsOnly {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Variables) != 1 || !opts.Variables[0].Default.Equal(types.NumberValue(3), 0) {
		t.Errorf("variables = %+v", opts.Variables)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yarn"), "title: A\n---\n<<set $gold to $gold + 1>>\n===\n")
	out, err := Compile(context.Background(), []string{dir}, Options{Variables: opts.Variables, Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if _, declared := out.Result.Declaration("$gold"); out.Result.HasErrors() || declared {
		t.Errorf("pre-seeded variable: diags=%v decls=%+v", out.Result.Diagnostics, out.Result.Declarations)
	}
}

func TestTokenize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yarn")
	writeFile(t, path, "title: A\n---\n-> Yes\n    Good.\n-> No\n===\n")
	res, err := Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckTokenInvariants(res.Tokens, res.File); err != nil {
		t.Error(err)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("diagnostics: %s", diag.FormatShort(res.Bag.Items()))
	}

	if _, err := Tokenize(filepath.Join(dir, "missing.yarn"), 0); err == nil {
		t.Error("missing file must fail")
	}
}

func TestTokenizeMergesLexerAndIndentDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.yarn")
	writeFile(t, path, "title: A\n---\n-> A\n\t  Nice\nDone {\"abc\n===\n")
	res, err := Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	var mixed int
	for _, d := range items {
		if d.Code == diag.LexMixedIndentation {
			mixed++
		}
		if d.File != path {
			t.Errorf("diagnostic file = %q", d.File)
		}
	}
	if mixed != 1 || !res.Bag.HasErrors() {
		t.Fatalf("diagnostics:\n%s", diag.FormatShort(items))
	}
	if !sort.SliceIsSorted(items, func(i, j int) bool { return diag.Less(items[i], items[j]) }) {
		t.Errorf("diagnostics not sorted:\n%s", diag.FormatShort(items))
	}
}
