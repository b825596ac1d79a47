package schedule

import (
	"fmt"
	"sort"

	"github.com/gfbarbieri/sinkingfund/fund"
)

// =============================================================================
// REGISTRY - Named scheduler constructors
// =============================================================================

// Registry maps strategy names to scheduler constructors. It is built
// once and passed by reference wherever schedulers are selected by name;
// there is no package-level registry.
type Registry struct {
	constructors map[string]func() Scheduler
}

// NewRegistry returns a registry preloaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]func() Scheduler)}
	r.Register("independent", func() Scheduler { return NewIndependentScheduler() })
	r.Register("smoothing", func() Scheduler { return NewSmoothingScheduler() })
	return r
}

// Register adds or replaces a named constructor.
func (r *Registry) Register(name string, fn func() Scheduler) {
	r.constructors[name] = fn
}

// New constructs the scheduler registered under name.
func (r *Registry) New(name string) (Scheduler, error) {
	fn, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: scheduler %q", fund.ErrUnknownStrategy, name)
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
