package taghelpers

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// PropertyDescriptor describes one bindable property of a tag helper.
type PropertyDescriptor struct {
	Name          string // property name on the helper type
	AttributeName string // attribute that binds the property
	TypeName      string // declared property type
	IsIndexer     bool   // AttributeName is a prefix; any attribute extending it matches
	Required      bool
}

// Binding carries per-usage binding facts that ride along with a lowered
// property assignment.
type Binding struct {
	Required bool
}

// Helper describes one registered tag helper: a bindable component whose
// properties are assigned via attribute syntax.
type Helper struct {
	TypeName string
	Tag      string
	Props    []PropertyDescriptor
}

// Match finds the descriptor bound by attrName. Exact attribute names win
// over indexer prefixes; indexer descriptors match any attribute that
// strictly extends their prefix.
func (h *Helper) Match(attrName string) (desc *PropertyDescriptor, indexer bool, ok bool) {
	for i := range h.Props {
		d := &h.Props[i]
		if !d.IsIndexer && d.AttributeName == attrName {
			return d, false, true
		}
	}
	for i := range h.Props {
		d := &h.Props[i]
		if d.IsIndexer && strings.HasPrefix(attrName, d.AttributeName) && len(attrName) > len(d.AttributeName) {
			return d, true, true
		}
	}
	return nil, false, false
}

// Registry maps tag names to their registered helpers.
type Registry struct {
	byTag map[string]*Helper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]*Helper)}
}

// Register adds a helper. Registering the same tag twice is an error.
func (r *Registry) Register(h Helper) error {
	if h.Tag == "" {
		return fmt.Errorf("tag helper %q has no tag", h.TypeName)
	}
	if _, exists := r.byTag[h.Tag]; exists {
		return fmt.Errorf("tag %q already registered", h.Tag)
	}
	hc := h
	r.byTag[h.Tag] = &hc
	return nil
}

// Lookup returns the helper registered for tag.
func (r *Registry) Lookup(tag string) (*Helper, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.byTag[tag]
	return h, ok
}

// Len returns the number of registered helpers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byTag)
}

// Fingerprint digests every registered helper and property in tag order.
// Registries with identical declarations share a digest; a nil registry
// digests the same as an empty one. Compile caches key on this so a changed
// manifest invalidates stored output.
func (r *Registry) Fingerprint() [32]byte {
	h := sha256.New()
	if r != nil {
		tags := make([]string, 0, len(r.byTag))
		for tag := range r.byTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			helper := r.byTag[tag]
			fmt.Fprintf(h, "%s=%s\n", tag, helper.TypeName)
			for i := range helper.Props {
				p := &helper.Props[i]
				fmt.Fprintf(h, "\t%s=%s %s indexer=%v required=%v\n",
					p.AttributeName, p.Name, p.TypeName, p.IsIndexer, p.Required)
			}
		}
	}
	var fp [32]byte
	copy(fp[:], h.Sum(nil))
	return fp
}
