package diagfmt

import (
	"fmt"
	"io"

	"weft/internal/source"
	"weft/internal/token"
)

// FormatTokensPretty writes one line per token with kind, text, and position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if fs != nil {
			if _, lc, ok := fs.Position(tok.Span); ok {
				fmt.Fprintf(w, " at %d:%d", lc.Line, lc.Col)
			}
		}
		fmt.Fprintln(w)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
