package conditionals

import "sort"

// Registry owns the named conditions and counters of one scene. Lookups are
// get-or-create and always return the same pointer for a name, so every
// caller that asks for "knowsName" aliases one cell.
type Registry struct {
	conditions map[string]*Condition
	counters   map[string]*Counter
}

func NewRegistry() *Registry {
	return &Registry{
		conditions: make(map[string]*Condition),
		counters:   make(map[string]*Counter),
	}
}

// Condition returns the named condition, creating it (false) on first use.
func (r *Registry) Condition(name string) *Condition {
	c, ok := r.conditions[name]
	if !ok {
		c = &Condition{}
		r.conditions[name] = c
	}
	return c
}

// Counter returns the named counter, creating it (zero) on first use.
func (r *Registry) Counter(name string) *Counter {
	c, ok := r.counters[name]
	if !ok {
		c = &Counter{}
		r.counters[name] = c
	}
	return c
}

// HasCondition reports whether name was ever requested or set.
func (r *Registry) HasCondition(name string) bool {
	_, ok := r.conditions[name]
	return ok
}

func (r *Registry) HasCounter(name string) bool {
	_, ok := r.counters[name]
	return ok
}

// Names returns the sorted condition names, then the sorted counter names.
func (r *Registry) Names() (conditions []string, counters []string) {
	for name := range r.conditions {
		conditions = append(conditions, name)
	}
	for name := range r.counters {
		counters = append(counters, name)
	}
	sort.Strings(conditions)
	sort.Strings(counters)
	return conditions, counters
}
