package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spool/internal/compiler"
	"spool/internal/diag"
	"spool/internal/diagfmt"
	"spool/internal/driver"
	"spool/internal/log"
	"spool/internal/observ"
	"spool/internal/project"
	"spool/internal/trace"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [paths...]",
	Short: "Compile dialogue files",
	Long: `Compile checks dialogue files and prints diagnostics, variable
declarations, the string table and file tags.

Paths may be files, directories (searched for *.yarn) or globs. Without
paths the sources listed in the nearest spool.toml are compiled.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	compileCmd.Flags().Int("jobs", 0, "parallel workers for loading and parsing (0 = manifest or serial)")
	compileCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	compileCmd.Flags().String("ui", "auto", "show the progress view (auto|on|off)")
	compileCmd.Flags().String("type", "full", "compilation type (full|strings)")
	compileCmd.Flags().String("path-mode", "as-is", "how to print file paths (auto|absolute|relative|basename|as-is)")
}

type compileFlags struct {
	format   string
	jobs     int
	noCache  bool
	ui       uiMode
	typ      compiler.CompilationType
	pathMode diagfmt.PathMode
	quiet    bool
	timings  bool
	maxDiags int
}

func readCompileFlags(cmd *cobra.Command) (compileFlags, error) {
	var f compileFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, err
	}
	if f.format != "pretty" && f.format != "json" {
		return f, fmt.Errorf("unsupported format %q (must be pretty or json)", f.format)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return f, err
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	typStr, err := flags.GetString("type")
	if err != nil {
		return f, err
	}
	var ok bool
	if f.typ, ok = compiler.ParseCompilationType(typStr); !ok {
		return f, fmt.Errorf("invalid --type %q (expected full|strings)", typStr)
	}
	modeStr, err := flags.GetString("path-mode")
	if err != nil {
		return f, err
	}
	if f.pathMode, ok = diagfmt.ParsePathMode(modeStr); !ok {
		return f, fmt.Errorf("invalid --path-mode %q", modeStr)
	}
	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, err
	}
	if f.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return f, err
	}
	return f, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	logger := log.WithComponent("compile")

	opts := driver.Options{
		Jobs:   flags.jobs,
		Type:   flags.typ,
		Tracer: trace.FromContext(ctx),
		Logger: log.WithComponent("driver"),
	}
	if flags.timings {
		opts.Timer = observ.NewTimer()
	}

	paths := args
	manifest, found, err := project.LoadFrom(manifestStart(args))
	if err != nil {
		return err
	}
	if found {
		logger.DebugContext(ctx, "using manifest", slog.String("path", manifest.Path))
		if err := opts.ApplyManifest(manifest); err != nil {
			return err
		}
		if cmd.Flags().Changed("type") {
			opts.Type = flags.typ
		}
		if len(paths) == 0 {
			paths = manifest.SourcePaths()
		}
	}
	if len(paths) == 0 {
		return errors.New("no input files and no " + project.ManifestName + " found")
	}

	if !flags.noCache {
		cache, err := driver.OpenDiskCache("spool")
		if err != nil {
			logger.WarnContext(ctx, "cache disabled", slog.Any("err", err))
		} else {
			opts.Cache = cache
		}
	}

	var out *driver.Output
	if shouldUseTUI(flags.ui, flags.format) {
		files, err := driver.CollectFiles(paths)
		if err != nil {
			return err
		}
		out, err = runCompileWithUI(ctx, cmd.ErrOrStderr(), "compiling", files, paths, opts)
		if err != nil {
			return err
		}
	} else {
		out, err = driver.Compile(ctx, paths, opts)
		if err != nil {
			return err
		}
	}

	if err := renderCompile(cmd, out, opts.Timer, flags); err != nil {
		return err
	}
	if out.Result.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// manifestStart picks where to look for spool.toml: the first path's
// directory, or the working directory.
func manifestStart(args []string) string {
	if len(args) == 0 {
		return "."
	}
	if st, err := os.Stat(args[0]); err == nil && st.IsDir() {
		return args[0]
	}
	return filepath.Dir(args[0])
}

func renderCompile(cmd *cobra.Command, out *driver.Output, timer *observ.Timer, flags compileFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	res := out.Result
	baseDir, _ := os.Getwd()

	if flags.format == "json" {
		var report *observ.Report
		if timer != nil {
			r := timer.Report()
			report = &r
		}
		return diagfmt.JSON(stdout, res, report, diagfmt.JSONOpts{
			PathMode:     flags.pathMode,
			BaseDir:      baseDir,
			Max:          flags.maxDiags,
			IncludeNotes: true,
		})
	}

	pretty := diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		PathMode:  flags.pathMode,
		BaseDir:   baseDir,
		ShowNotes: true,
	}
	printDiagnostics(stderr, res.Diagnostics, flags.maxDiags, pretty)

	if !flags.quiet {
		resultOpts := pretty
		resultOpts.Color = useColor(cmd, os.Stdout)
		diagfmt.PrettyResult(stdout, res, resultOpts)
		fmt.Fprintln(stderr, diagfmt.Summary(res, len(out.Files), pretty.Color))
	}
	if timer != nil {
		fmt.Fprint(stderr, timer.Summary())
	}
	return nil
}

func printDiagnostics(w io.Writer, ds []diag.Diagnostic, limit int, opts diagfmt.PrettyOpts) {
	shown := ds
	if limit > 0 && len(ds) > limit {
		shown = ds[:limit]
	}
	diagfmt.Pretty(w, shown, opts)
	if hidden := len(ds) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "... and %d more diagnostics (raise --max-diagnostics to see them)\n", hidden)
	}
}
