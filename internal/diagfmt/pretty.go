package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"weft/internal/diag"
	"weft/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// Pretty renders diagnostics in a human-readable form, one per line:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by indented notes when ShowNotes is set. The bag is expected to
// be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if w == nil || bag == nil {
		return
	}
	for _, d := range bag.Items() {
		writeDiagnostic(w, &d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary), severityLabel(d.Severity, opts.Color), d.Code.ID(), d.Message)
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  note: %s: %s\n", location(fs, n.Span), n.Msg)
	}
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	path, lc, ok := fs.Position(sp)
	if !ok {
		return sp.String()
	}
	return fmt.Sprintf("%s:%d:%d", path, lc.Line, lc.Col)
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func severityLabel(sev diag.Severity, colorize bool) string {
	if !colorize {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(sev.String())
	case diag.SevWarning:
		return warningColor.Sprint(sev.String())
	default:
		return infoColor.Sprint(sev.String())
	}
}
