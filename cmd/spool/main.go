package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spool/internal/log"
	"spool/internal/version"
)

// errDiagnostics marks a run that printed error diagnostics; main exits
// with status 1 without printing anything else.
var errDiagnostics = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:   "spool",
	Short: "Dialogue script compiler",
	Long: `spool compiles Yarn dialogue scripts: it checks them, builds the string
table of user-visible lines and collects variable declarations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		color.NoColor = !useColor(cmd, os.Stdout)
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanup()
	},
}

var traceCleanup func()

func runCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	_ = log.Close()
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = all)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error); overrides SPOOL_LOG_LEVEL")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|driver|pass|file|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
}

func main() {
	err := rootCmd.Execute()
	runCleanup()
	if err == nil {
		return
	}
	if !errors.Is(err, errDiagnostics) {
		fmt.Fprintf(os.Stderr, "spool: %v\n", err)
	}
	os.Exit(1)
}

func setupLogging(cmd *cobra.Command) error {
	opts := log.FromEnv()
	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level != "" {
		opts.Level = level
	}
	opts.Writer = cmd.ErrOrStderr()
	log.Init(opts)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output going to f. auto honours NO_COLOR.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	return resolveColor(mode, func() bool { return isTerminal(f) })
}

func resolveColor(mode string, tty func() bool) bool {
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	return os.Getenv("NO_COLOR") == "" && tty()
}
