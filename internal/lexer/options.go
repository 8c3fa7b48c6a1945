package lexer

import (
	"spool/internal/diag"
	"spool/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.NewReportBuilder(lx.opts.Reporter, sev, code, lx.file, sp, msg).Emit()
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevError, sp, msg)
}
