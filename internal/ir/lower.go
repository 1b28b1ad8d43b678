package ir

import (
	"weft/internal/ast"
	"weft/internal/taghelpers"
)

// LowerOptions configures lowering of a parsed template.
type LowerOptions struct {
	// ClassName names the generated type; defaults to "Template".
	ClassName string
	// Helpers resolves which elements bind tag helper properties.
	// A nil registry lowers every attribute as a plain usage.
	Helpers *taghelpers.Registry
}

// Lower turns a parsed template into the codegen IR consumed by the pass
// pipeline: Document > Class > Render scaffolding, with one statement node
// per template node and one usage node per attribute.
func Lower(doc *ast.Document, opts LowerOptions) *Node {
	className := opts.ClassName
	if className == "" {
		className = "Template"
	}

	render := &Node{Kind: KindRender, Span: doc.Span}
	for i := range doc.Children {
		render.Children = append(render.Children, lowerNode(&doc.Children[i], opts.Helpers))
	}

	class := &Node{
		Kind:     KindClass,
		Span:     doc.Span,
		Data:     &ClassData{Name: className},
		Children: []*Node{render},
	}
	return &Node{
		Kind:     KindDocument,
		Span:     doc.Span,
		Children: []*Node{class},
	}
}

func lowerNode(n *ast.Node, reg *taghelpers.Registry) *Node {
	switch n.Kind {
	case ast.KindText:
		return &Node{Kind: KindWriteText, Span: n.Span, Data: &WriteTextData{Text: n.Text}}
	case ast.KindExpr:
		return &Node{Kind: KindWriteExpr, Span: n.Span, Data: &WriteExprData{Expr: n.Text}}
	case ast.KindElement:
		return lowerElement(n, reg)
	default:
		return &Node{Kind: KindWriteText, Span: n.Span, Data: &WriteTextData{}}
	}
}

func lowerElement(n *ast.Node, reg *taghelpers.Registry) *Node {
	elem := n.Elem
	out := &Node{Kind: KindElement, Span: n.Span, Data: &ElementData{Tag: elem.Tag}}

	helper, _ := reg.Lookup(elem.Tag)
	for i := range elem.Attrs {
		out.Children = append(out.Children, lowerAttr(&elem.Attrs[i], helper))
	}
	for i := range elem.Children {
		out.Children = append(out.Children, lowerNode(&elem.Children[i], reg))
	}
	return out
}

// lowerAttr produces one usage node with exactly one content child. An
// attribute on a tag helper element that binds a declared property lowers
// to a property-set usage; everything else is a plain attribute-add.
func lowerAttr(a *ast.Attr, helper *taghelpers.Helper) *Node {
	content := &Node{Kind: KindContent, Span: a.Span, Data: lowerContent(a)}

	if helper != nil {
		if desc, indexer, ok := helper.Match(a.Name); ok {
			return &Node{
				Kind: KindProperty,
				Span: a.Span,
				Data: &PropertyData{
					AttributeName: a.Name,
					PropertyName:  desc.Name,
					HelperType:    helper.TypeName,
					Descriptor:    desc,
					Binding:       taghelpers.Binding{Required: desc.Required},
					IsIndexer:     indexer,
					Structure:     a.Structure,
				},
				Children: []*Node{content},
			}
		}
	}

	return &Node{
		Kind:     KindAttribute,
		Span:     a.Span,
		Data:     &AttributeData{Name: a.Name, Structure: a.Structure},
		Children: []*Node{content},
	}
}

func lowerContent(a *ast.Attr) *ContentData {
	d := &ContentData{}
	for i := range a.Parts {
		p := &a.Parts[i]
		d.Tokens = append(d.Tokens, ContentToken{Literal: p.Literal, Text: p.Text})
	}
	return d
}
