package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"spool/internal/compiler"
	"spool/internal/types"
)

var (
	// ErrProjectSectionMissing indicates that [project] is absent.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is absent or blank.
	ErrProjectNameMissing = errors.New("missing [project].name")
	// ErrAlreadyInitialized is returned by WriteDefault when spool.toml exists.
	ErrAlreadyInitialized = errors.New("project already initialized")
)

// Manifest is a loaded spool.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the spool.toml layout.
type Config struct {
	Project   ProjectSection `toml:"project"`
	Variables []Variable     `toml:"variables"`
	Compile   CompileSection `toml:"compile"`
}

type ProjectSection struct {
	Name string `toml:"name"`
	// Sources are files, directories or globs relative to the manifest.
	// Empty means the manifest directory.
	Sources []string `toml:"sources"`
}

// Variable pre-declares a story variable, as <<declare>> would.
type Variable struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Default     any    `toml:"default"`
	Description string `toml:"description"`
}

type CompileSection struct {
	Jobs int    `toml:"jobs"`
	Type string `toml:"type"` // full|strings
}

// Load parses spool.toml at path. Unknown keys are rejected so typos do not
// silently drop settings.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Compile.Jobs < 0 {
		return nil, fmt.Errorf("%s: [compile].jobs must not be negative", path)
	}
	if cfg.Compile.Type != "" {
		if _, ok := compiler.ParseCompilationType(cfg.Compile.Type); !ok {
			return nil, fmt.Errorf("%s: [compile].type must be full or strings, got %q", path, cfg.Compile.Type)
		}
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadFrom finds and loads the nearest spool.toml above startDir.
// ok is false when there is none.
func LoadFrom(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	return m, true, err
}

// SourcePaths returns the source entries resolved against the project root.
func (m *Manifest) SourcePaths() []string {
	if len(m.Config.Project.Sources) == 0 {
		return []string{m.Root}
	}
	out := make([]string, 0, len(m.Config.Project.Sources))
	for _, s := range m.Config.Project.Sources {
		s = filepath.FromSlash(strings.TrimSpace(s))
		if !filepath.IsAbs(s) {
			s = filepath.Join(m.Root, s)
		}
		out = append(out, s)
	}
	return out
}

// CompilationType returns [compile].type, full by default.
func (m *Manifest) CompilationType() compiler.CompilationType {
	t, _ := compiler.ParseCompilationType(m.Config.Compile.Type)
	return t
}

// Declarations converts [[variables]] into pre-seeded declarations.
// The type may be omitted when a default is given.
func (m *Manifest) Declarations() ([]compiler.Declaration, error) {
	out := make([]compiler.Declaration, 0, len(m.Config.Variables))
	seen := make(map[string]bool, len(m.Config.Variables))
	for i, v := range m.Config.Variables {
		d, err := v.declaration()
		if err != nil {
			return nil, fmt.Errorf("%s: variables[%d]: %w", m.Path, i, err)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("%s: variables[%d]: %s declared twice", m.Path, i, d.Name)
		}
		seen[d.Name] = true
		d.SourceFile = m.Path
		out = append(out, d)
	}
	return out, nil
}

func (v Variable) declaration() (compiler.Declaration, error) {
	name := strings.TrimSpace(v.Name)
	if !strings.HasPrefix(name, "$") || len(name) < 2 {
		return compiler.Declaration{}, fmt.Errorf("variable name %q must start with '$'", v.Name)
	}

	var def types.Value
	switch x := v.Default.(type) {
	case nil:
	case int64:
		def = types.NumberValue(float64(x))
	case float64:
		def = types.NumberValue(x)
	case string:
		def = types.StringValue(x)
	case bool:
		def = types.BoolValue(x)
	default:
		return compiler.Declaration{}, fmt.Errorf("%s: default must be a number, string or bool, got %T", name, v.Default)
	}

	if v.Type == "" {
		if !def.IsValid() {
			return compiler.Declaration{}, fmt.Errorf("%s: needs a type or a default", name)
		}
		return compiler.NewDeclaration(name, def, v.Description), nil
	}
	kind, ok := types.ParseKind(v.Type)
	if !ok {
		return compiler.Declaration{}, fmt.Errorf("%s: unknown type %q", name, v.Type)
	}
	if !def.IsValid() {
		def = types.Zero(kind)
	} else if def.Kind != kind {
		return compiler.Declaration{}, fmt.Errorf("%s: type %s does not match default %s", name, kind, def)
	}
	return compiler.NewDeclaration(name, def, v.Description), nil
}

// DefaultManifest is the spool.toml written by `spool init`.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# spool project manifest
[project]
name = %q
sources = ["dialogue"]

# Variables the game declares in code. They are known to the compiler but
# are not part of its output.
# [[variables]]
# name = "$player_name"
# type = "String"
# default = "Ada"
# description = "Set by the game before the first node runs"

[compile]
jobs = 0
type = "full"
`, name)
}

// WriteDefault creates dir (if needed) with a starter spool.toml and an
// empty dialogue/ directory. It refuses to overwrite an existing manifest.
func WriteDefault(dir, name string) (string, error) {
	if err := os.MkdirAll(filepath.Join(dir, "dialogue"), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %q: %w", dir, err)
	}
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s: %w", path, ErrAlreadyInitialized)
	}
	if err := os.WriteFile(path, []byte(DefaultManifest(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
