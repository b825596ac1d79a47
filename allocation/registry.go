package allocation

import (
	"fmt"
	"sort"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// Registry maps strategy names to allocator constructors. Built once and
// injected; there is no package-level registry.
type Registry struct {
	constructors map[string]func() Allocator
}

// NewRegistry returns a registry preloaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]func() Allocator)}
	r.Register("cascade", func() Allocator { return NewCascadeAllocator(SortByDueDate, false) })
	r.Register("proportional", func() Allocator { return NewProportionalAllocator(WeightProportional) })
	return r
}

// Register adds or replaces a named constructor.
func (r *Registry) Register(name string, fn func() Allocator) {
	r.constructors[name] = fn
}

// New constructs the allocator registered under name.
func (r *Registry) New(name string) (Allocator, error) {
	fn, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: allocator %q", fund.ErrUnknownStrategy, name)
	}
	return fn(), nil
}

// Names lists the registered strategies in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
