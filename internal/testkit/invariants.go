package testkit

import (
	"fmt"

	"weft/internal/ir"
)

// CheckIRInvariants runs the structural invariants an optimized document
// must satisfy:
// 1) exactly one class node reachable from the document root
// 2) inside the class, declarations form a contiguous prefix of the child list
// 3) declaration variable names are unique within the class
// 4) every reference resolves to a declaration in the same class
func CheckIRInvariants(doc *ir.Node) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}

	var class *ir.Node
	w := ir.NewWalker()
	w.Handle(ir.KindClass, func(_ *ir.Walker, n *ir.Node) bool {
		if class != nil {
			return true
		}
		class = n
		return true
	})
	w.Walk(doc)
	if class == nil {
		return fmt.Errorf("no class node in document")
	}

	// 2) declarations contiguous at the front; 3) unique variable names
	vars := make(map[string]bool)
	pastDecls := false
	for i, child := range class.Children {
		name, isDecl := declVarName(child)
		if !isDecl {
			pastDecls = true
			continue
		}
		if pastDecls {
			return fmt.Errorf("declaration at index %d follows a non-declaration sibling", i)
		}
		if vars[name] {
			return fmt.Errorf("duplicate declaration variable %q", name)
		}
		vars[name] = true
	}

	// 4) references resolve
	var unresolved error
	rw := ir.NewWalker()
	check := func(_ *ir.Walker, n *ir.Node) bool {
		name := refVarName(n)
		if !vars[name] && unresolved == nil {
			unresolved = fmt.Errorf("reference to unknown variable %q", name)
		}
		return true
	}
	rw.Handle(ir.KindAttrRef, check)
	rw.Handle(ir.KindPropRef, check)
	rw.Walk(doc)
	return unresolved
}

func declVarName(n *ir.Node) (string, bool) {
	switch d := n.Data.(type) {
	case *ir.AttrDeclData:
		return d.VarName, true
	case *ir.PropDeclData:
		return d.VarName, true
	default:
		return "", false
	}
}

func refVarName(n *ir.Node) string {
	switch d := n.Data.(type) {
	case *ir.AttrRefData:
		return d.VarName
	case *ir.PropRefData:
		return d.VarName
	default:
		return ""
	}
}
