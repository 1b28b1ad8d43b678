package ast

import (
	"weft/internal/source"
)

// AttrStructure records the quoting style of an attribute at its usage site.
// It survives lowering unchanged; the preallocation pass treats it as part
// of the attribute's identity.
type AttrStructure uint8

const (
	// StructDoubleQuoted is name="value".
	StructDoubleQuoted AttrStructure = iota
	// StructSingleQuoted is name='value'.
	StructSingleQuoted
	// StructUnquoted is name=value.
	StructUnquoted
	// StructMinimized is a bare boolean attribute with no value.
	StructMinimized
)

// String returns a human-readable name for the attribute structure.
func (s AttrStructure) String() string {
	switch s {
	case StructDoubleQuoted:
		return "DoubleQuoted"
	case StructSingleQuoted:
		return "SingleQuoted"
	case StructUnquoted:
		return "Unquoted"
	case StructMinimized:
		return "Minimized"
	default:
		return "Unknown"
	}
}

// NodeKind enumerates template syntax node kinds.
type NodeKind uint8

const (
	// KindText is a static markup text run.
	KindText NodeKind = iota
	// KindExpr is an embedded {{ expression }}.
	KindExpr
	// KindElement is one markup element.
	KindElement
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindExpr:
		return "Expr"
	case KindElement:
		return "Element"
	default:
		return "Unknown"
	}
}

// Node is one template syntax node.
type Node struct {
	Kind NodeKind
	Span source.Span
	Text string   // KindText: raw text; KindExpr: expression source
	Elem *Element // KindElement payload
}

// Element is one markup element with its attributes and children.
type Element struct {
	Tag       string
	SelfClose bool
	Attrs     []Attr
	Children  []Node
}

// Attr is one attribute at its original source position.
type Attr struct {
	Name      string
	Span      source.Span
	Structure AttrStructure
	Parts     []ValuePart // empty when Structure is StructMinimized
}

// ValuePart is one ordered unit of an attribute value: either literal text
// or an embedded expression.
type ValuePart struct {
	Literal bool
	Text    string
	Span    source.Span
}

// Document is one parsed template file.
type Document struct {
	File     source.FileID
	Span     source.Span
	Children []Node
}

// IsFullyLiteral reports whether every part of the attribute value is
// literal text (true also for minimized attributes, which have no parts).
func (a *Attr) IsFullyLiteral() bool {
	for i := range a.Parts {
		if !a.Parts[i].Literal {
			return false
		}
	}
	return true
}
