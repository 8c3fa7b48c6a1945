package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spool/internal/diagfmt"
	"spool/internal/version"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err = rootCmd.Execute()
	runCleanup()
	return out.String(), errOut.String(), err
}

func TestInitThenCompile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tavern")

	stdout, _, err := execute(t, "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, `Initialized spool project "tavern"`) {
		t.Errorf("init output: %q", stdout)
	}
	if _, _, err := execute(t, "init", dir); err == nil {
		t.Error("second init must refuse to overwrite spool.toml")
	}

	stdout, stderr, err := execute(t, "compile", "--no-cache", "--ui", "off", "--format", "json", dir)
	if err != nil {
		t.Fatalf("compile: %v\nstderr: %s", err, stderr)
	}
	var doc diagfmt.ResultOutput
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("json output: %v\n%s", err, stdout)
	}
	if doc.Errors != 0 {
		t.Errorf("starter story has errors: %+v", doc.Diagnostics)
	}
	if len(doc.Strings) != 5 {
		t.Errorf("strings = %+v", doc.Strings)
	}
	if len(doc.FileTags) != 1 {
		t.Errorf("file tags = %v", doc.FileTags)
	}
}

func TestCompileFailsOnErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yarn")
	if err := os.WriteFile(path, []byte("title: Bad\n---\nOops {\n===\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := execute(t, "compile", "--no-cache", "--ui", "off", "--format", "pretty", "--color", "off", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "bad.yarn:") || !strings.Contains(stderr, "ERROR") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, "failed: ") {
		t.Errorf("summary missing:\n%s", stderr)
	}
}

func TestTokenizeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yarn")
	if err := os.WriteFile(path, []byte("title: A\n---\n-> Yes\n    Ok.\n===\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := execute(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil {
		t.Fatalf("json: %v\n%s", err, stdout)
	}
	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	joined := strings.Join(kinds, " ")
	if !strings.Contains(joined, "Indent") || !strings.Contains(joined, "Dedent") {
		t.Errorf("synthetic tokens missing: %s", joined)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatal(err)
	}
	if info.Tool != "spool" || info.Version != version.Current().Version {
		t.Errorf("info = %+v", info)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("bad mode accepted")
	}
	if !shouldUseTUI(uiModeOn, "json") || shouldUseTUI(uiModeOff, "pretty") || shouldUseTUI(uiModeAuto, "json") {
		t.Error("shouldUseTUI")
	}
}

func TestResolveColor(t *testing.T) {
	tty := func() bool { return true }
	notty := func() bool { return false }
	t.Setenv("NO_COLOR", "")
	if !resolveColor("on", notty) || resolveColor("off", tty) {
		t.Error("explicit modes")
	}
	if !resolveColor("auto", tty) || resolveColor("auto", notty) {
		t.Error("auto follows the terminal")
	}
	t.Setenv("NO_COLOR", "1")
	if resolveColor("auto", tty) {
		t.Error("NO_COLOR ignored")
	}
}

func TestManifestStart(t *testing.T) {
	dir := t.TempDir()
	if got := manifestStart(nil); got != "." {
		t.Errorf("no args: %q", got)
	}
	if got := manifestStart([]string{dir}); got != dir {
		t.Errorf("dir arg: %q", got)
	}
	if got := manifestStart([]string{filepath.Join(dir, "a.yarn")}); got != dir {
		t.Errorf("file arg: %q", got)
	}
}
