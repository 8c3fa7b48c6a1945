package compiler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"spool/internal/parser"
	"spool/internal/source"
	"spool/internal/trace"
)

// registerStrings parses every file, tags lines before options and builds
// the string table. Parsing may run concurrently; everything that touches
// the shared result runs afterwards in job order.
func registerStrings(st *state) {
	files := make([]*source.File, len(st.job.Files))
	for i, f := range st.job.Files {
		files[i] = st.fs.Get(st.fs.AddVirtual(f.Name, []byte(f.Source)))
	}

	parsed := make([]*parsedFile, len(files))
	if st.job.Jobs > 1 && len(files) > 1 {
		g, ctx := errgroup.WithContext(st.ctx)
		g.SetLimit(st.job.Jobs)
		for i := range files {
			g.Go(func() error {
				parsed[i] = parseFile(ctx, st.job.Files[i].Name, files[i])
				return nil
			})
		}
		_ = g.Wait() // parseFile never fails
	} else {
		for i := range files {
			parsed[i] = parseFile(st.ctx, st.job.Files[i].Name, files[i])
		}
	}

	for _, pf := range parsed {
		st.result.Diagnostics = append(st.result.Diagnostics, pf.diags...)
		tagLastLines(pf.tree)
		st.result.Diagnostics = append(st.result.Diagnostics, generateStrings(pf, st.result.StringTable)...)
		st.parsed = append(st.parsed, pf)
	}
}

func parseFile(ctx context.Context, name string, file *source.File) *parsedFile {
	_, span := trace.StartSpan(ctx, trace.ScopeFile, "parse:"+name)
	pf := &parsedFile{name: name, file: file}
	res := parser.Parse(file, parser.Options{Reporter: fileReporter{name: name, items: &pf.diags}})
	pf.tree, pf.tokens = res.Dialogue, res.Tokens
	span.WithInt("nodes", len(pf.tree.Nodes)).
		WithInt("tokens", len(pf.tokens)).
		End("")
	return pf
}
