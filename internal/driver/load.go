package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spool/internal/compiler"
	"spool/internal/diag"
	"spool/internal/source"
)

// Ext is the extension of dialogue files.
const Ext = ".yarn"

// CollectFiles expands paths into a sorted, de-duplicated list of dialogue
// files. A path may be a file (any extension), a directory (walked for
// *.yarn) or a glob.
func CollectFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", p, err)
			}
			for _, m := range matches {
				if st, err := os.Stat(m); err == nil && !st.IsDir() {
					add(m)
				}
			}
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		files, err := listYarnFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}

// listYarnFiles возвращает отсортированный список всех *.yarn файлов в директории
func listYarnFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadFiles reads paths concurrently and normalizes their text (BOM, CRLF,
// NFC). Files keep the order of paths. A file that cannot be read becomes an
// IOLoadFileError diagnostic and is left out of the returned files.
func LoadFiles(ctx context.Context, paths []string, jobs int, sink ProgressSink) ([]compiler.File, []diag.Diagnostic, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, p := range paths {
		emit(sink, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	files := make([]compiler.File, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			// #nosec G304 -- path is provided by the caller
			content, err := os.ReadFile(path)
			if err != nil {
				errs[i] = err
				emit(sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return nil
			}
			content, _ = source.Normalize(content)
			files[i] = compiler.File{Name: path, Source: string(content)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		loaded []compiler.File
		diags  []diag.Diagnostic
	)
	for i, path := range paths {
		if errs[i] != nil {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  fmt.Sprintf("cannot read %s: %v", path, errs[i]),
				File:     path,
			})
			continue
		}
		loaded = append(loaded, files[i])
	}
	return loaded, diags, nil
}
