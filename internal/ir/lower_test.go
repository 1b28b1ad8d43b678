package ir_test

import (
	"testing"

	"weft/internal/ast"
	"weft/internal/ir"
	"weft/internal/taghelpers"
)

func testRegistry(t *testing.T) *taghelpers.Registry {
	t.Helper()
	reg := taghelpers.NewRegistry()
	err := reg.Register(taghelpers.Helper{
		Tag:      "user-card",
		TypeName: "UserCardHelper",
		Props: []taghelpers.PropertyDescriptor{
			{Name: "Title", AttributeName: "title", TypeName: "string", Required: true},
			{Name: "Extra", AttributeName: "data-", TypeName: "map", IsIndexer: true},
		},
	})
	if err != nil {
		t.Fatalf("register helper: %v", err)
	}
	return reg
}

func TestLower_Scaffolding(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindText, Text: "<br>"},
		{Kind: ast.KindExpr, Text: "user.Name"},
	}}

	root := ir.Lower(doc, ir.LowerOptions{ClassName: "ProfileTemplate"})

	if root.Kind != ir.KindDocument || len(root.Children) != 1 {
		t.Fatalf("root is not a single-class document")
	}
	class := root.Children[0]
	if class.Kind != ir.KindClass || class.Data.(*ir.ClassData).Name != "ProfileTemplate" {
		t.Fatalf("unexpected class node: %v", class.Kind)
	}
	if len(class.Children) != 1 || class.Children[0].Kind != ir.KindRender {
		t.Fatalf("class does not hold a single render node")
	}
	render := class.Children[0]
	if len(render.Children) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(render.Children))
	}
	if render.Children[0].Data.(*ir.WriteTextData).Text != "<br>" {
		t.Errorf("text statement lost its content")
	}
	if render.Children[1].Data.(*ir.WriteExprData).Expr != "user.Name" {
		t.Errorf("expression statement lost its source")
	}
}

func TestLower_DefaultClassName(t *testing.T) {
	root := ir.Lower(&ast.Document{}, ir.LowerOptions{})
	if name := root.Children[0].Data.(*ir.ClassData).Name; name != "Template" {
		t.Errorf("default class name is %q", name)
	}
}

func TestLower_PlainAttribute(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindElement, Elem: &ast.Element{
			Tag: "div",
			Attrs: []ast.Attr{{
				Name:      "class",
				Structure: ast.StructDoubleQuoted,
				Parts: []ast.ValuePart{
					{Literal: true, Text: "row "},
					{Literal: false, Text: "extra"},
				},
			}},
		}},
	}}

	root := ir.Lower(doc, ir.LowerOptions{Helpers: testRegistry(t)})

	elem := root.Children[0].Children[0].Children[0]
	if elem.Kind != ir.KindElement || elem.Data.(*ir.ElementData).Tag != "div" {
		t.Fatalf("unexpected element node")
	}
	usage := elem.Children[0]
	if usage.Kind != ir.KindAttribute {
		t.Fatalf("attribute on an unregistered tag lowered as %v", usage.Kind)
	}
	data := usage.Data.(*ir.AttributeData)
	if data.Name != "class" || data.Structure != ast.StructDoubleQuoted {
		t.Errorf("unexpected usage data: %+v", data)
	}
	if len(usage.Children) != 1 || usage.Children[0].Kind != ir.KindContent {
		t.Fatalf("usage does not hold exactly one content child")
	}
	tokens := usage.Children[0].Data.(*ir.ContentData).Tokens
	if len(tokens) != 2 || !tokens[0].Literal || tokens[1].Literal {
		t.Errorf("content tokens lost their shape: %+v", tokens)
	}
}

func TestLower_TagHelperProperty(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindElement, Elem: &ast.Element{
			Tag: "user-card",
			Attrs: []ast.Attr{
				{Name: "title", Structure: ast.StructDoubleQuoted, Parts: []ast.ValuePart{{Literal: true, Text: "Hi"}}},
				{Name: "data-rank", Structure: ast.StructUnquoted, Parts: []ast.ValuePart{{Literal: true, Text: "3"}}},
				{Name: "class", Structure: ast.StructDoubleQuoted, Parts: []ast.ValuePart{{Literal: true, Text: "card"}}},
			},
		}},
	}}

	root := ir.Lower(doc, ir.LowerOptions{Helpers: testRegistry(t)})
	elem := root.Children[0].Children[0].Children[0]
	if len(elem.Children) != 3 {
		t.Fatalf("expected 3 usages, got %d", len(elem.Children))
	}

	title := elem.Children[0]
	if title.Kind != ir.KindProperty {
		t.Fatalf("declared attribute lowered as %v", title.Kind)
	}
	titleData := title.Data.(*ir.PropertyData)
	if titleData.PropertyName != "Title" || titleData.HelperType != "UserCardHelper" || titleData.IsIndexer {
		t.Errorf("unexpected property data: %+v", titleData)
	}
	if !titleData.Binding.Required {
		t.Errorf("required binding fact dropped")
	}

	indexed := elem.Children[1]
	if indexed.Kind != ir.KindProperty || !indexed.Data.(*ir.PropertyData).IsIndexer {
		t.Errorf("prefix-extending attribute did not bind the indexer property")
	}

	if elem.Children[2].Kind != ir.KindAttribute {
		t.Errorf("undeclared attribute on a helper tag must stay a plain usage")
	}
}

func TestLower_NilRegistry(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindElement, Elem: &ast.Element{
			Tag:   "user-card",
			Attrs: []ast.Attr{{Name: "title", Structure: ast.StructDoubleQuoted, Parts: []ast.ValuePart{{Literal: true, Text: "Hi"}}}},
		}},
	}}

	root := ir.Lower(doc, ir.LowerOptions{})
	usage := root.Children[0].Children[0].Children[0].Children[0]
	if usage.Kind != ir.KindAttribute {
		t.Errorf("nil registry must lower every attribute as plain, got %v", usage.Kind)
	}
}

func TestLower_MinimizedAttribute(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindElement, Elem: &ast.Element{
			Tag:   "input",
			Attrs: []ast.Attr{{Name: "disabled", Structure: ast.StructMinimized}},
		}},
	}}

	root := ir.Lower(doc, ir.LowerOptions{})
	usage := root.Children[0].Children[0].Children[0].Children[0]
	content := usage.Children[0].Data.(*ir.ContentData)
	if len(content.Tokens) != 0 || !content.AllLiteral() || content.LiteralText() != "" {
		t.Errorf("minimized attribute content is not an empty literal run: %+v", content)
	}
}

func TestLower_NestedChildren(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		{Kind: ast.KindElement, Elem: &ast.Element{
			Tag: "ul",
			Children: []ast.Node{
				{Kind: ast.KindElement, Elem: &ast.Element{
					Tag:      "li",
					Children: []ast.Node{{Kind: ast.KindExpr, Text: "item"}},
				}},
			},
		}},
	}}

	root := ir.Lower(doc, ir.LowerOptions{})
	ul := root.Children[0].Children[0].Children[0]
	li := ul.Children[0]
	if li.Kind != ir.KindElement || li.Data.(*ir.ElementData).Tag != "li" {
		t.Fatalf("nested element lost")
	}
	if li.Children[0].Kind != ir.KindWriteExpr {
		t.Errorf("nested expression statement lost")
	}
}
