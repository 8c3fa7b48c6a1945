package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spool/internal/compiler"
	"spool/internal/diag"
	"spool/internal/log"
	"spool/internal/observ"
	"spool/internal/project"
	"spool/internal/trace"
)

// Options configures a driver compile. The zero value compiles serially,
// without a cache, with the standard library.
type Options struct {
	// Jobs bounds concurrent file loading and parsing; <=0 loads with
	// GOMAXPROCS workers and parses serially.
	Jobs      int
	Type      compiler.CompilationType
	Variables []compiler.Declaration
	Library   *compiler.Library
	// Cache, when set, stores results keyed by the job's content digest.
	Cache    *DiskCache
	Progress ProgressSink
	Tracer   trace.Tracer
	Logger   *slog.Logger
	Timer    *observ.Timer
}

// ApplyManifest fills options the manifest sets and the caller left at
// their zero value.
func (o *Options) ApplyManifest(m *project.Manifest) error {
	if m == nil {
		return nil
	}
	if o.Jobs == 0 {
		o.Jobs = m.Config.Compile.Jobs
	}
	if o.Type == compiler.FullCompilation {
		o.Type = m.CompilationType()
	}
	decls, err := m.Declarations()
	if err != nil {
		return err
	}
	o.Variables = append(decls, o.Variables...)
	return nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.WithComponent("driver")
}

// Output is a compile result plus what the driver did to get it.
type Output struct {
	Result *compiler.Result
	// Files lists the compiled files in job order.
	Files  []string
	Cached bool
}

// Compile expands paths, loads the files and compiles them as one job.
// Unreadable files become diagnostics; only a bad path or pattern, or a
// cancelled context, is an error.
func Compile(ctx context.Context, paths []string, opts Options) (*Output, error) {
	logger := opts.logger()

	var (
		names []string
		err   error
	)
	opts.Timer.Measure("collect", func() string {
		names, err = CollectFiles(paths)
		return fmt.Sprintf("%d files", len(names))
	})
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "collected files", slog.Int("count", len(names)))

	var (
		files     []compiler.File
		loadDiags []diag.Diagnostic
	)
	opts.Timer.Measure("load", func() string {
		files, loadDiags, err = LoadFiles(ctx, names, opts.Jobs, opts.Progress)
		return ""
	})
	if err != nil {
		return nil, err
	}
	for _, d := range loadDiags {
		logger.WarnContext(ctx, "load failed", slog.String("file", d.File), slog.String("err", d.Message))
	}

	out, err := CompileFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	if len(loadDiags) > 0 {
		// the cached result never holds load errors
		res := *out.Result
		res.Diagnostics = append(append([]diag.Diagnostic(nil), loadDiags...), res.Diagnostics...)
		out.Result = &res
	}
	return out, nil
}

// CompileFiles compiles already loaded files, consulting opts.Cache first.
func CompileFiles(ctx context.Context, files []compiler.File, opts Options) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.logger()

	next := opts.Tracer
	if next == nil {
		next = trace.FromContext(ctx)
	}
	job := compiler.Job{
		Files:                files,
		Library:              opts.Library,
		Type:                 opts.Type,
		VariableDeclarations: opts.Variables,
		Jobs:                 opts.Jobs,
		Tracer:               newProgressTracer(next, opts.Progress),
	}
	out := &Output{Files: make([]string, len(files))}
	for i, f := range files {
		out.Files[i] = f.Name
	}

	var key project.Digest
	if opts.Cache != nil {
		var err error
		if key, err = jobKey(job); err != nil {
			return nil, err
		}
		payload, ok, err := opts.Cache.Get(key)
		if err != nil {
			logger.WarnContext(ctx, "cache read failed", slog.String("key", key.String()), slog.Any("err", err))
		}
		if ok {
			logger.DebugContext(ctx, "cache hit", slog.String("key", key.String()))
			opts.Timer.Measure("compile", func() string { return "cached" })
			out.Result, out.Cached = payload.Result, true
			finish(opts.Progress, files, out.Result, 0)
			return out, nil
		}
	}

	start := time.Now()
	opts.Timer.Measure("compile", func() string {
		out.Result = compiler.Compile(ctx, job)
		return job.Type.String()
	})
	elapsed := time.Since(start)
	finish(opts.Progress, files, out.Result, elapsed)

	errs, warns, _ := diag.Count(out.Result.Diagnostics)
	logger.InfoContext(ctx, "compiled",
		slog.Int("files", len(files)),
		slog.Int("errors", errs),
		slog.Int("warnings", warns),
		slog.Int("strings", len(out.Result.StringTable)),
		slog.Duration("elapsed", elapsed))

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, &DiskPayload{Files: out.Files, Result: out.Result}); err != nil {
			logger.WarnContext(ctx, "cache write failed", slog.String("key", key.String()), slog.Any("err", err))
		}
	}
	return out, nil
}

// finish reports done or error for every file and a final run event.
func finish(sink ProgressSink, files []compiler.File, res *compiler.Result, elapsed time.Duration) {
	if sink == nil {
		return
	}
	failed := make(map[string]bool)
	for _, d := range res.Diagnostics {
		if d.Severity == diag.SevError {
			failed[d.File] = true
		}
	}
	for _, f := range files {
		status := StatusDone
		if failed[f.Name] {
			status = StatusError
		}
		sink.OnEvent(Event{File: f.Name, Stage: StageCompile, Status: status, Elapsed: elapsed})
	}
	status := StatusDone
	if res.HasErrors() {
		status = StatusError
	}
	sink.OnEvent(Event{Stage: StageCompile, Status: status, Elapsed: elapsed})
}
