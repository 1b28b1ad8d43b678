package lexer

import (
	"weft/internal/source"

	"weft/internal/diag"
)

// Reporter is a thin contract so the lexer does not depend on diagnostic
// rendering. The lexer only calls it; collection happens outside.
type Reporter interface {
	Report(code diag.Code, span source.Span, msg string)
}

// Options configures a Lexer.
type Options struct {
	Reporter Reporter // nil means errors are ignored (lexing continues)
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sp, msg)
	}
}

// BagReporter adapts a diag.Bag to the lexer Reporter contract.
type BagReporter struct {
	Bag *diag.Bag
}

func (r *BagReporter) Report(code diag.Code, span source.Span, msg string) {
	if r == nil || r.Bag == nil {
		return
	}
	r.Bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  msg,
		Primary:  span,
	})
}
