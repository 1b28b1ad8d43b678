package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable representation of an IR tree, one node per
// line with two-space indentation. Output is deterministic for a fixed tree
// and is what the disk cache and golden comparisons store.
func Dump(w io.Writer, root *Node) error {
	if w == nil || root == nil {
		return nil
	}
	return dumpNode(w, root, 0)
}

// DumpString renders the tree into a string.
func DumpString(root *Node) string {
	var b strings.Builder
	_ = dumpNode(&b, root, 0)
	return b.String()
}

func dumpNode(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, n.Kind, describe(n)); err != nil {
		return err
	}
	for i := 0; i < len(n.Children); i++ {
		if err := dumpNode(w, n.Children[i], depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describe(n *Node) string {
	switch d := n.Data.(type) {
	case *ClassData:
		return fmt.Sprintf(" name=%s", d.Name)
	case *ElementData:
		return fmt.Sprintf(" tag=%s", d.Tag)
	case *WriteTextData:
		return fmt.Sprintf(" text=%q", d.Text)
	case *WriteExprData:
		return fmt.Sprintf(" expr=%q", d.Expr)
	case *AttributeData:
		return fmt.Sprintf(" name=%s structure=%s", d.Name, d.Structure)
	case *PropertyData:
		s := fmt.Sprintf(" attr=%s prop=%s.%s structure=%s", d.AttributeName, d.HelperType, d.PropertyName, d.Structure)
		if d.IsIndexer {
			s += " indexer"
		}
		return s
	case *ContentData:
		parts := make([]string, 0, len(d.Tokens))
		for _, t := range d.Tokens {
			if t.Literal {
				parts = append(parts, fmt.Sprintf("lit(%q)", t.Text))
			} else {
				parts = append(parts, fmt.Sprintf("expr(%q)", t.Text))
			}
		}
		return " [" + strings.Join(parts, " ") + "]"
	case *AttrDeclData:
		return fmt.Sprintf(" var=%s name=%s value=%q structure=%s", d.VarName, d.Name, d.Value, d.Structure)
	case *PropDeclData:
		return fmt.Sprintf(" var=%s attr=%s value=%q structure=%s prop=%s.%s",
			d.VarName, d.AttributeName, d.Value, d.Structure, d.HelperType, d.PropertyName)
	case *AttrRefData:
		return fmt.Sprintf(" var=%s", d.VarName)
	case *PropRefData:
		s := fmt.Sprintf(" var=%s attr=%s prop=%s.%s", d.VarName, d.AttributeName, d.HelperType, d.PropertyName)
		if d.IsIndexer {
			s += " indexer"
		}
		return s
	default:
		return ""
	}
}
