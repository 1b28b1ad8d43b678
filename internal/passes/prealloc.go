package passes

import (
	"fmt"

	"weft/internal/ir"
)

// preallocVarPrefix prefixes every hoisted attribute variable. Names are
// prefix + N where N counts declarations already created in the scope,
// dense and 0-based, independent of final insertion index.
const preallocVarPrefix = "__attr_"

// Prealloc hoists compile-time-constant attribute values out of their usage
// sites into shared, deduplicated declarations at the front of the
// enclosing class scope, replacing each usage with a reference node.
//
// A usage qualifies only when it has exactly one child and that child is a
// content node whose every token is literal; anything else is left entirely
// unmodified. Re-running the pass is a no-op: reference nodes never match
// the usage pattern.
type Prealloc struct{}

func (Prealloc) Name() string { return "prealloc-attributes" }

func (Prealloc) Priority() int { return PriorityPrealloc }

// Run rewrites doc in place. Only internal consistency failures surface as
// errors; ineligible usages are an expected branch, not a fault.
func (Prealloc) Run(doc *ir.Node) error {
	e := &preallocEngine{}
	w := ir.NewWalker()
	w.Handle(ir.KindClass, e.enterClass)
	w.Handle(ir.KindAttribute, e.rewriteAttribute)
	w.Handle(ir.KindProperty, e.rewriteProperty)
	w.Walk(doc)
	return e.err
}

// classScope tracks the declarations materialized for one class plus the
// insertion cursor: how many have been physically inserted into the class
// child list. New declarations go in at the cursor, keeping them contiguous
// at the front in first-encountered order no matter what else later passes
// interleave.
type classScope struct {
	class   *ir.Node
	decls   []*ir.Node // creation order, for equality lookup
	cursor  int
	created int // feeds variable numbering
}

// preallocEngine carries pass state for a single document; every Run gets a
// fresh engine, so independent documents never share scope state.
type preallocEngine struct {
	scope *classScope
	err   error
}

func (e *preallocEngine) enterClass(_ *ir.Walker, n *ir.Node) bool {
	if e.err != nil {
		return false
	}
	e.scope = &classScope{class: n}
	return true
}

func (e *preallocEngine) rewriteAttribute(w *ir.Walker, n *ir.Node) bool {
	if e.err != nil {
		return false
	}
	// Phase 1: eligibility. One child, content node, fully literal.
	content, ok := literalContent(n)
	if !ok {
		return true
	}
	// A usage before any class is a pipeline-ordering violation upstream;
	// degrade by skipping the rewrite.
	if e.scope == nil {
		return true
	}

	data, ok := n.Data.(*ir.AttributeData)
	if !ok {
		return true
	}
	value := content.LiteralText()

	// Phase 2: dedup against declarations created so far, creation order.
	var decl *ir.AttrDeclData
	for _, d := range e.scope.decls {
		if existing, isAttr := d.Data.(*ir.AttrDeclData); isAttr &&
			existing.Name == data.Name &&
			existing.Value == value &&
			existing.Structure == data.Structure {
			decl = existing
			break
		}
	}

	// Phase 3: synthesize a declaration when no triple matched.
	if decl == nil {
		decl = &ir.AttrDeclData{
			VarName:   fmt.Sprintf("%s%d", preallocVarPrefix, e.scope.created),
			Name:      data.Name,
			Value:     value,
			Structure: data.Structure,
		}
		if err := e.scope.insert(&ir.Node{Kind: ir.KindAttrDecl, Span: n.Span, Data: decl}); err != nil {
			e.err = err
			return false
		}
	}

	// Phase 4: replace the usage with a reference at its slot.
	ref := &ir.Node{Kind: ir.KindAttrRef, Span: n.Span, Data: &ir.AttrRefData{VarName: decl.VarName}}
	if !ir.ReplaceChild(w.Parent(), n, ref) {
		e.err = fmt.Errorf("attribute usage %q is not a child of its walk parent", data.Name)
	}
	return false
}

func (e *preallocEngine) rewriteProperty(w *ir.Walker, n *ir.Node) bool {
	if e.err != nil {
		return false
	}
	content, ok := literalContent(n)
	if !ok {
		return true
	}
	if e.scope == nil {
		return true
	}

	data, ok := n.Data.(*ir.PropertyData)
	if !ok {
		return true
	}
	value := content.LiteralText()

	// The dedup key is (attributeName, value, structure) only. The property
	// fields captured on the shared declaration come from whichever usage
	// got there first; later usages with a different target property reuse
	// the declaration's identity and keep their own metadata on the
	// reference node.
	var decl *ir.PropDeclData
	for _, d := range e.scope.decls {
		if existing, isProp := d.Data.(*ir.PropDeclData); isProp &&
			existing.AttributeName == data.AttributeName &&
			existing.Value == value &&
			existing.Structure == data.Structure {
			decl = existing
			break
		}
	}

	if decl == nil {
		decl = &ir.PropDeclData{
			VarName:       fmt.Sprintf("%s%d", preallocVarPrefix, e.scope.created),
			AttributeName: data.AttributeName,
			Value:         value,
			Structure:     data.Structure,
			PropertyName:  data.PropertyName,
			HelperType:    data.HelperType,
			Descriptor:    data.Descriptor,
			Binding:       data.Binding,
			IsIndexer:     data.IsIndexer,
		}
		if err := e.scope.insert(&ir.Node{Kind: ir.KindPropDecl, Span: n.Span, Data: decl}); err != nil {
			e.err = err
			return false
		}
	}

	ref := &ir.Node{
		Kind: ir.KindPropRef,
		Span: n.Span,
		Data: &ir.PropRefData{
			VarName:       decl.VarName,
			AttributeName: data.AttributeName,
			PropertyName:  data.PropertyName,
			HelperType:    data.HelperType,
			Descriptor:    data.Descriptor,
			Binding:       data.Binding,
			IsIndexer:     data.IsIndexer,
		},
	}
	if !ir.ReplaceChild(w.Parent(), n, ref) {
		e.err = fmt.Errorf("property usage %q is not a child of its walk parent", data.AttributeName)
	}
	return false
}

// insert places a freshly created declaration at the cursor and records it.
func (s *classScope) insert(decl *ir.Node) error {
	if s.cursor > len(s.class.Children) {
		return fmt.Errorf("declaration cursor %d exceeds class child count %d", s.cursor, len(s.class.Children))
	}
	ir.InsertChild(s.class, s.cursor, decl)
	s.cursor++
	s.created++
	s.decls = append(s.decls, decl)
	return nil
}

// literalContent checks the hoisting precondition: exactly one child that is
// a content node with only literal tokens. The child-count constraint is
// checked, not assumed.
func literalContent(n *ir.Node) (*ir.ContentData, bool) {
	if len(n.Children) != 1 {
		return nil, false
	}
	child := n.Children[0]
	if child.Kind != ir.KindContent {
		return nil, false
	}
	content, ok := child.Data.(*ir.ContentData)
	if !ok || !content.AllLiteral() {
		return nil, false
	}
	return content, true
}
