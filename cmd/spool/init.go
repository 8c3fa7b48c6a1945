package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"spool/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a spool.toml and a starter dialogue file",
	Long: `Init writes a spool.toml manifest and dialogue/start.yarn into dir (default:
the current directory), creating dir if needed. An existing spool.toml is
never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const starterDialogue = `title: Start
---
Narrator: Welcome to your first story.
-> Look around
    Narrator: There is not much here yet.
-> Leave
    <<jump End>>
===
title: End
---
Narrator: Goodbye.
===
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "story"
	}

	manifestPath, err := project.WriteDefault(target, name)
	if err != nil {
		return err
	}

	startPath := filepath.Join(target, "dialogue", "start.yarn")
	createdStart := false
	if _, err := os.Stat(startPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(startPath, []byte(starterDialogue), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", startPath, err)
		}
		createdStart = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized spool project %q in %s\n", name, rel)
	fmt.Fprintf(out, "  - %s\n", filepath.Base(manifestPath))
	if createdStart {
		fmt.Fprintln(out, "  - dialogue/start.yarn")
	} else {
		fmt.Fprintln(out, "  - dialogue/start.yarn (existing)")
	}
	return nil
}
