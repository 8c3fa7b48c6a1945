package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spool/internal/compiler"
	"spool/internal/types"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"x\"\n")
	nested := filepath.Join(root, "dialogue", "act1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("root = %q, want %q", got, want)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "tavern"
sources = ["dialogue", "extra/*.yarn"]

[[variables]]
name = "$gold"
default = 10
description = "Coins on hand"

[[variables]]
name = "$player"
type = "String"

[[variables]]
name = "$brave"
type = "bool"
default = true

[compile]
jobs = 4
type = "strings"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Config.Project.Name != "tavern" || m.Config.Compile.Jobs != 4 {
		t.Errorf("config = %+v", m.Config)
	}
	if m.CompilationType() != compiler.StringsOnly {
		t.Errorf("type = %v", m.CompilationType())
	}
	paths := m.SourcePaths()
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "dialogue") || paths[1] != filepath.Join(dir, "extra", "*.yarn") {
		t.Errorf("SourcePaths = %v", paths)
	}

	decls, err := m.Declarations()
	if err != nil {
		t.Fatalf("Declarations: %v", err)
	}
	want := []struct {
		name string
		def  types.Value
	}{
		{"$gold", types.NumberValue(10)},
		{"$player", types.StringValue("")},
		{"$brave", types.BoolValue(true)},
	}
	if len(decls) != len(want) {
		t.Fatalf("decls = %+v", decls)
	}
	for i, w := range want {
		d := decls[i]
		if d.Name != w.name || d.Type != w.def.Kind || !d.Default.Equal(w.def, 0) {
			t.Errorf("decl[%d] = %+v, want %s = %v", i, d, w.name, w.def)
		}
	}
	if decls[0].Description != "Coins on hand" {
		t.Errorf("description = %q", decls[0].Description)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no project", "[compile]\njobs = 1\n", "missing [project]"},
		{"blank name", "[project]\nname = \" \"\n", "missing [project].name"},
		{"unknown key", "[project]\nname = \"x\"\nsorces = []\n", "unknown key project.sorces"},
		{"negative jobs", "[project]\nname = \"x\"\n[compile]\njobs = -1\n", "jobs must not be negative"},
		{"bad type", "[project]\nname = \"x\"\n[compile]\ntype = \"fast\"\n", "must be full or strings"},
		{"bad toml", "[project\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestVariableErrors(t *testing.T) {
	tests := []struct {
		name string
		v    Variable
		want string
	}{
		{"no dollar", Variable{Name: "gold", Default: int64(1)}, "must start with '$'"},
		{"no type no default", Variable{Name: "$x"}, "needs a type or a default"},
		{"unknown type", Variable{Name: "$x", Type: "Vector"}, "unknown type"},
		{"mismatch", Variable{Name: "$x", Type: "Number", Default: "five"}, "does not match"},
		{"array default", Variable{Name: "$x", Default: []any{1}}, "must be a number, string or bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Path: "spool.toml", Config: Config{Variables: []Variable{tt.v}}}
			_, err := m.Declarations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}

	m := &Manifest{Config: Config{Variables: []Variable{
		{Name: "$a", Default: int64(1)},
		{Name: "$a", Default: int64(2)},
	}}}
	if _, err := m.Declarations(); err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Errorf("duplicate err = %v", err)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "story")
	path, err := WriteDefault(dir, "story")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if m.Config.Project.Name != "story" || m.CompilationType() != compiler.FullCompilation {
		t.Errorf("config = %+v", m.Config)
	}
	if st, err := os.Stat(filepath.Join(dir, "dialogue")); err != nil || !st.IsDir() {
		t.Errorf("dialogue dir missing: %v", err)
	}
	if _, err := WriteDefault(dir, "story"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second WriteDefault err = %v", err)
	}
}

func TestDigests(t *testing.T) {
	a := HashContent([]byte("title: A"))
	if a == HashContent([]byte("title: B")) {
		t.Fatal("different content, same digest")
	}
	if Combine(a) == Combine(a, a) {
		t.Error("Combine ignores parts")
	}
	if HashStrings("ab", "c") == HashStrings("a", "bc") {
		t.Error("HashStrings must separate parts")
	}
	if len(a.String()) != 64 {
		t.Errorf("hex digest = %q", a.String())
	}
}
