package ir

import (
	"strings"

	"weft/internal/ast"
	"weft/internal/source"
	"weft/internal/taghelpers"
)

// NodeKind enumerates codegen IR node kinds.
type NodeKind uint8

const (
	// KindDocument is the root of one compiled template.
	KindDocument NodeKind = iota
	// KindClass is the generated type's member list. Child order is
	// significant: declarations must precede anything referencing them.
	KindClass
	// KindRender is the render method body, the container for statements.
	KindRender
	// KindElement is one markup element statement.
	KindElement
	// KindWriteText emits static markup text.
	KindWriteText
	// KindWriteExpr emits the value of an embedded expression.
	KindWriteExpr
	// KindAttribute is a plain attribute-add usage at its source position.
	KindAttribute
	// KindProperty is a tag helper property-set usage at its source position.
	KindProperty
	// KindContent is an ordered run of literal and expression tokens.
	KindContent
	// KindAttrDecl is a shared preallocated plain-attribute value.
	KindAttrDecl
	// KindPropDecl is a shared preallocated tag helper attribute value.
	KindPropDecl
	// KindAttrRef replaces a plain usage with a reference to a declaration.
	KindAttrRef
	// KindPropRef replaces a property usage with a reference to a declaration.
	KindPropRef
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindClass:
		return "Class"
	case KindRender:
		return "Render"
	case KindElement:
		return "Element"
	case KindWriteText:
		return "WriteText"
	case KindWriteExpr:
		return "WriteExpr"
	case KindAttribute:
		return "Attribute"
	case KindProperty:
		return "Property"
	case KindContent:
		return "Content"
	case KindAttrDecl:
		return "AttrDecl"
	case KindPropDecl:
		return "PropDecl"
	case KindAttrRef:
		return "AttrRef"
	case KindPropRef:
		return "PropRef"
	default:
		return "Unknown"
	}
}

// Node is one IR node. The enclosing parent exclusively owns Children;
// nodes carry no back-references. Passes mutate Children in place and
// resolve positions by index, never by held references.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Children []*Node
	Data     NodeData
}

// NodeData is the kind-specific payload.
type NodeData interface {
	nodeData()
}

// ClassData is the payload of KindClass.
type ClassData struct {
	Name string
}

// ElementData is the payload of KindElement.
type ElementData struct {
	Tag string
}

// WriteTextData is the payload of KindWriteText.
type WriteTextData struct {
	Text string
}

// WriteExprData is the payload of KindWriteExpr.
type WriteExprData struct {
	Expr string
}

// AttributeData is the payload of KindAttribute: one plain attribute
// assignment at its original source position.
type AttributeData struct {
	Name      string
	Structure ast.AttrStructure
}

// PropertyData is the payload of KindProperty: one tag helper property
// assignment at its original source position.
type PropertyData struct {
	AttributeName string
	PropertyName  string
	HelperType    string
	Descriptor    *taghelpers.PropertyDescriptor
	Binding       taghelpers.Binding
	IsIndexer     bool
	Structure     ast.AttrStructure
}

// ContentToken is one unit of attribute or body content. Literal tokens are
// fixed text known at compile time; the rest hold embedded expressions.
type ContentToken struct {
	Literal bool
	Text    string
}

// ContentData is the payload of KindContent.
type ContentData struct {
	Tokens []ContentToken
}

// AllLiteral reports whether every token in the content run is literal.
func (d *ContentData) AllLiteral() bool {
	for i := range d.Tokens {
		if !d.Tokens[i].Literal {
			return false
		}
	}
	return true
}

// LiteralText concatenates the literal tokens' text in order. Only
// meaningful when AllLiteral holds.
func (d *ContentData) LiteralText() string {
	var b strings.Builder
	for i := range d.Tokens {
		b.WriteString(d.Tokens[i].Text)
	}
	return b.String()
}

// AttrDeclData is the payload of KindAttrDecl: a shared, preallocated plain
// attribute value. VarName is unique within the enclosing class.
type AttrDeclData struct {
	VarName   string
	Name      string
	Value     string
	Structure ast.AttrStructure
}

// PropDeclData is the payload of KindPropDecl. The property fields capture
// the first-encountered usage only; they are not part of the declaration's
// dedup identity.
type PropDeclData struct {
	VarName       string
	AttributeName string
	Value         string
	Structure     ast.AttrStructure

	PropertyName string
	HelperType   string
	Descriptor   *taghelpers.PropertyDescriptor
	Binding      taghelpers.Binding
	IsIndexer    bool
}

// AttrRefData is the payload of KindAttrRef.
type AttrRefData struct {
	VarName string
}

// PropRefData is the payload of KindPropRef. It keeps the usage-specific
// metadata still required to perform the assignment at this exact site.
type PropRefData struct {
	VarName       string
	AttributeName string
	PropertyName  string
	HelperType    string
	Descriptor    *taghelpers.PropertyDescriptor
	Binding       taghelpers.Binding
	IsIndexer     bool
}

func (*ClassData) nodeData()     {}
func (*ElementData) nodeData()   {}
func (*WriteTextData) nodeData() {}
func (*WriteExprData) nodeData() {}
func (*AttributeData) nodeData() {}
func (*PropertyData) nodeData()  {}
func (*ContentData) nodeData()   {}
func (*AttrDeclData) nodeData()  {}
func (*PropDeclData) nodeData()  {}
func (*AttrRefData) nodeData()   {}
func (*PropRefData) nodeData()   {}
