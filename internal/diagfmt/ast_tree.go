package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"weft/internal/ast"
)

// FormatASTTree writes an indented dump of a parsed template.
func FormatASTTree(w io.Writer, doc *ast.Document) error {
	if _, err := fmt.Fprintln(w, "Document"); err != nil {
		return err
	}
	for i := range doc.Children {
		if err := writeASTNode(w, &doc.Children[i], 1); err != nil {
			return err
		}
	}
	return nil
}

func writeASTNode(w io.Writer, n *ast.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case ast.KindText:
		_, err := fmt.Fprintf(w, "%sText %q\n", indent, n.Text)
		return err
	case ast.KindExpr:
		_, err := fmt.Fprintf(w, "%sExpr %q\n", indent, n.Text)
		return err
	case ast.KindElement:
		return writeASTElement(w, n, depth)
	default:
		_, err := fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
		return err
	}
}

func writeASTElement(w io.Writer, n *ast.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	elem := n.Elem
	suffix := ""
	if elem.SelfClose {
		suffix = " self-close"
	}
	if _, err := fmt.Fprintf(w, "%sElement <%s>%s\n", indent, elem.Tag, suffix); err != nil {
		return err
	}
	for i := range elem.Attrs {
		a := &elem.Attrs[i]
		parts := make([]string, 0, len(a.Parts))
		for _, p := range a.Parts {
			if p.Literal {
				parts = append(parts, fmt.Sprintf("lit(%q)", p.Text))
			} else {
				parts = append(parts, fmt.Sprintf("expr(%q)", p.Text))
			}
		}
		if _, err := fmt.Fprintf(w, "%s  Attr %s %s [%s]\n", indent, a.Name, a.Structure, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	for i := range elem.Children {
		if err := writeASTNode(w, &elem.Children[i], depth+1); err != nil {
			return err
		}
	}
	return nil
}
