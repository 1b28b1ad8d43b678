package passes

import (
	"fmt"
	"sort"

	"weft/internal/ir"
)

// Pass is one ordered optimization stage over an IR document. A pass is
// invoked exactly once per document and mutates the tree in place; a
// returned error means internal state went inconsistent and the run must
// abort, never that an input node was merely ineligible.
type Pass interface {
	Name() string
	Priority() int
	Run(doc *ir.Node) error
}

// Relative priorities of the standard passes. Hoisting runs after text
// normalization so literal content runs are in final form.
const (
	PriorityCollapseText = 10
	PriorityPrealloc     = 20
)

// Pipeline holds passes and runs them in priority order. Equal priorities
// keep registration order.
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates a pipeline with the given passes registered.
func NewPipeline(passes ...Pass) *Pipeline {
	p := &Pipeline{}
	for _, pass := range passes {
		p.Register(pass)
	}
	return p
}

// Register adds a pass.
func (p *Pipeline) Register(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Default returns the standard optimization pipeline.
func Default() *Pipeline {
	return NewPipeline(CollapseText{}, Prealloc{})
}

// Run executes every pass on doc. The first pass error aborts the run.
func (p *Pipeline) Run(doc *ir.Node) error {
	ordered := make([]Pass, len(p.passes))
	copy(ordered, p.passes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, pass := range ordered {
		if err := pass.Run(doc); err != nil {
			return fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
	}
	return nil
}
