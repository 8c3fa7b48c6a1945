package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spool/internal/diagfmt"
	"spool/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.yarn",
	Short: "Print the token stream of a dialogue file",
	Long: `Tokenize prints the tokens the parser sees, including the INDENT, DEDENT
and BLANK_LINE_FOLLOWING_OPTION tokens the indentation layer inserts around
shortcut options.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("hidden", false, "include whitespace and comment tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	hidden, err := cmd.Flags().GetBool("hidden")
	if err != nil {
		return fmt.Errorf("failed to get hidden flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag.Items(), diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			PathMode:  diagfmt.PathModeAsIs,
			ShowNotes: true,
		})
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens, hidden)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, hidden)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
