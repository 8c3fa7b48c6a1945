package compiler

import (
	"context"

	"spool/internal/ast"
	"spool/internal/diag"
	"spool/internal/source"
	"spool/internal/token"
	"spool/internal/trace"
)

// parsedFile is one file after register_strings; later passes reuse it.
type parsedFile struct {
	name   string
	file   *source.File
	tree   *ast.Dialogue
	tokens []token.Token
	diags  []diag.Diagnostic
}

// state is threaded through the passes.
type state struct {
	ctx    context.Context
	job    Job
	lib    *Library
	fs     *source.FileSet
	result *Result
	parsed []*parsedFile

	known   []Declaration
	derived []Declaration
	tracked []string // sorted
}

type pass struct {
	name string
	run  func(*state)
	// full marks passes skipped by StringsOnly jobs.
	full bool
}

var passes = []pass{
	{name: "register_strings", run: registerStrings},
	{name: "get_declarations", run: getDeclarations},
	{name: "find_tracking_nodes", run: findTrackingNodes, full: true},
	{name: "add_tracking_declarations", run: addTrackingDeclarations, full: true},
}

// Compile runs every pass over job and returns the result. It never fails:
// problems in the input are reported as diagnostics.
func Compile(ctx context.Context, job Job) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if job.Tracer != nil {
		ctx = trace.WithTracer(ctx, job.Tracer)
	}
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "compile")

	st := &state{
		ctx:    ctx,
		job:    job,
		lib:    job.Library,
		fs:     source.NewFileSet(),
		result: newResult(),
		known:  append([]Declaration(nil), job.VariableDeclarations...),
	}
	if st.lib == nil {
		st.lib = StandardLibrary()
	}

	for _, p := range passes {
		if p.full && job.Type == StringsOnly {
			continue
		}
		passCtx, ps := trace.StartSpan(ctx, trace.ScopePass, p.name)
		st.ctx = passCtx
		before := len(st.result.Diagnostics)
		p.run(st)
		ps.WithInt("files", len(job.Files)).
			WithInt("diagnostics", len(st.result.Diagnostics)-before).
			End("")
	}

	st.result.Declarations = append(st.result.Declarations, st.derived...)
	span.WithInt("files", len(job.Files)).
		WithInt("strings", len(st.result.StringTable)).
		WithInt("declarations", len(st.result.Declarations)).
		End(job.Type.String())
	return st.result
}

// fileReporter names diagnostics after the job's file rather than the
// cleaned path the FileSet keeps.
type fileReporter struct {
	name  string
	items *[]diag.Diagnostic
}

func (r fileReporter) Report(d diag.Diagnostic) {
	d.File = r.name
	*r.items = append(*r.items, d)
}
