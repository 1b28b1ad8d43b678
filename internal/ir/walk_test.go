package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"weft/internal/ir"
)

func text(s string) *ir.Node {
	return &ir.Node{Kind: ir.KindWriteText, Data: &ir.WriteTextData{Text: s}}
}

func textOf(t *testing.T, n *ir.Node) string {
	t.Helper()
	d, ok := n.Data.(*ir.WriteTextData)
	if !ok {
		t.Fatalf("node %s is not WriteText", n.Kind)
	}
	return d.Text
}

func TestWalker_PreOrder(t *testing.T) {
	tree := &ir.Node{Kind: ir.KindRender, Children: []*ir.Node{
		&ir.Node{Kind: ir.KindElement, Data: &ir.ElementData{Tag: "a"}, Children: []*ir.Node{
			text("1"),
			text("2"),
		}},
		text("3"),
	}}

	var visited []string
	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(_ *ir.Walker, n *ir.Node) bool {
		visited = append(visited, textOf(t, n))
		return true
	})
	w.Handle(ir.KindElement, func(_ *ir.Walker, n *ir.Node) bool {
		visited = append(visited, n.Data.(*ir.ElementData).Tag)
		return true
	})
	w.Walk(tree)

	if diff := cmp.Diff([]string{"a", "1", "2", "3"}, visited); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
}

func TestWalker_FalseSuppressesRecursion(t *testing.T) {
	tree := &ir.Node{Kind: ir.KindRender, Children: []*ir.Node{
		&ir.Node{Kind: ir.KindElement, Data: &ir.ElementData{Tag: "skip"}, Children: []*ir.Node{
			text("hidden"),
		}},
		text("seen"),
	}}

	var visited []string
	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(_ *ir.Walker, n *ir.Node) bool {
		visited = append(visited, textOf(t, n))
		return true
	})
	w.Handle(ir.KindElement, func(_ *ir.Walker, _ *ir.Node) bool {
		return false
	})
	w.Walk(tree)

	if diff := cmp.Diff([]string{"seen"}, visited); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
}

// Inserting a node before the traversal position must not skip or
// double-visit any sibling that existed when the walk started.
func TestWalker_InsertionDoesNotDesyncSiblings(t *testing.T) {
	parent := &ir.Node{Kind: ir.KindRender, Children: []*ir.Node{
		text("a"), text("b"), text("c"),
	}}

	var visited []string
	inserted := false
	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(w *ir.Walker, n *ir.Node) bool {
		s := textOf(t, n)
		visited = append(visited, s)
		if s == "b" && !inserted {
			inserted = true
			ir.InsertChild(w.Parent(), 0, text("new"))
		}
		return true
	})
	w.Walk(parent)

	if diff := cmp.Diff([]string{"a", "b", "c"}, visited); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
	if len(parent.Children) != 4 || textOf(t, parent.Children[0]) != "new" {
		t.Errorf("insertion missing from child list")
	}
}

// Replacing the current node in its slot resumes with the next original
// sibling: the replacement occupies the slot but later siblings still get
// exactly one visit each.
func TestWalker_ReplacementKeepsSlot(t *testing.T) {
	parent := &ir.Node{Kind: ir.KindRender, Children: []*ir.Node{
		text("a"), text("b"), text("c"),
	}}

	var visited []string
	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(w *ir.Walker, n *ir.Node) bool {
		s := textOf(t, n)
		visited = append(visited, s)
		if s == "b" {
			repl := &ir.Node{Kind: ir.KindWriteExpr, Data: &ir.WriteExprData{Expr: "x"}}
			if !ir.ReplaceChild(w.Parent(), n, repl) {
				t.Fatalf("replace failed")
			}
		}
		return false
	})
	w.Walk(parent)

	if diff := cmp.Diff([]string{"a", "b", "c"}, visited); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
	if parent.Children[1].Kind != ir.KindWriteExpr {
		t.Errorf("replacement not in slot 1")
	}
}

// The combined mutation the hoisting rewrite performs: insert at the front
// of the same child list and replace the visited node in its slot.
func TestWalker_InsertAndReplaceTogether(t *testing.T) {
	parent := &ir.Node{Kind: ir.KindRender, Children: []*ir.Node{
		text("a"), text("b"), text("c"),
	}}

	var visited []string
	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(w *ir.Walker, n *ir.Node) bool {
		s := textOf(t, n)
		visited = append(visited, s)
		if s == "a" {
			ir.InsertChild(w.Parent(), 0, &ir.Node{Kind: ir.KindWriteExpr, Data: &ir.WriteExprData{Expr: "decl"}})
			repl := &ir.Node{Kind: ir.KindWriteExpr, Data: &ir.WriteExprData{Expr: "ref"}}
			if !ir.ReplaceChild(w.Parent(), n, repl) {
				t.Fatalf("replace failed")
			}
		}
		return false
	})
	w.Walk(parent)

	if diff := cmp.Diff([]string{"a", "b", "c"}, visited); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
	if len(parent.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(parent.Children))
	}
	if parent.Children[0].Data.(*ir.WriteExprData).Expr != "decl" ||
		parent.Children[1].Data.(*ir.WriteExprData).Expr != "ref" {
		t.Errorf("declaration and reference not in expected slots")
	}
}

func TestWalker_Ancestors(t *testing.T) {
	leaf := text("leaf")
	tree := &ir.Node{Kind: ir.KindDocument, Children: []*ir.Node{
		&ir.Node{Kind: ir.KindClass, Data: &ir.ClassData{Name: "T"}, Children: []*ir.Node{
			&ir.Node{Kind: ir.KindRender, Children: []*ir.Node{leaf}},
		}},
	}}

	w := ir.NewWalker()
	w.Handle(ir.KindWriteText, func(w *ir.Walker, n *ir.Node) bool {
		if n != leaf {
			t.Fatalf("unexpected text node")
		}
		if w.Parent() == nil || w.Parent().Kind != ir.KindRender {
			t.Errorf("parent is not the render node")
		}
		chain := w.Ancestors()
		if len(chain) != 3 {
			t.Fatalf("expected 3 ancestors, got %d", len(chain))
		}
		if chain[0].Kind != ir.KindDocument || chain[1].Kind != ir.KindClass || chain[2].Kind != ir.KindRender {
			t.Errorf("unexpected ancestor chain: %v, %v, %v", chain[0].Kind, chain[1].Kind, chain[2].Kind)
		}
		return true
	})
	w.Walk(tree)
}
