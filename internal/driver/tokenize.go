package driver

import (
	"spool/internal/diag"
	"spool/internal/lexer"
	"spool/internal/source"
	"spool/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file through the indentation layer, the same stream
// the parser sees, hidden and synthetic tokens included. Lexer and
// indentation diagnostics are kept apart (each capped at maxDiagnostics),
// then merged, sorted by position and deduplicated.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	indentBag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: diag.NewDedupReporter(namedReporter{name: path, next: diag.BagReporter{Bag: bag}}),
	})
	il := lexer.NewIndentLexer(lx, namedReporter{name: path, next: diag.BagReporter{Bag: indentBag}})

	var tokens []token.Token
	for {
		tok := il.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	bag.Merge(indentBag)
	bag.Sort()
	bag.Dedup()

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// namedReporter stamps the file name the user passed on every diagnostic.
type namedReporter struct {
	name string
	next diag.Reporter
}

func (r namedReporter) Report(d diag.Diagnostic) {
	d.File = r.name
	r.next.Report(d)
}
