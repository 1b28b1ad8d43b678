package passes

import (
	"weft/internal/ir"
)

// CollapseText merges adjacent static text statements into one, so repeated
// markup runs produced by the parser emit a single write.
type CollapseText struct{}

func (CollapseText) Name() string { return "collapse-text" }

func (CollapseText) Priority() int { return PriorityCollapseText }

func (CollapseText) Run(doc *ir.Node) error {
	w := ir.NewWalker()
	w.Handle(ir.KindRender, collapseChildren)
	w.Handle(ir.KindElement, collapseChildren)
	w.Walk(doc)
	return nil
}

func collapseChildren(_ *ir.Walker, n *ir.Node) bool {
	out := n.Children[:0]
	for _, child := range n.Children {
		text, isText := textData(child)
		if isText && len(out) > 0 {
			if prev, prevIsText := textData(out[len(out)-1]); prevIsText {
				prev.Text += text.Text
				out[len(out)-1].Span = out[len(out)-1].Span.Cover(child.Span)
				continue
			}
		}
		out = append(out, child)
	}
	n.Children = out
	return true
}

func textData(n *ir.Node) (*ir.WriteTextData, bool) {
	if n.Kind != ir.KindWriteText {
		return nil, false
	}
	d, ok := n.Data.(*ir.WriteTextData)
	return d, ok
}
