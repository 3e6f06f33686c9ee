package conditionals

import (
	"fmt"
	"math"
	"sort"
)

// When is a declarative condition clause, as written in scene data files.
// Every populated field must hold for the clause to be true.
type When struct {
	Flags       map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`               // Each named condition must have this value
	Counters    map[string]int  `json:"counters,omitempty" yaml:"counters,omitempty"`         // Exact match for each named counter
	MinCounters map[string]int  `json:"min_counters,omitempty" yaml:"min_counters,omitempty"` // Counter >= this value
	Any         []When          `json:"any,omitempty" yaml:"any,omitempty"`                   // At least one nested clause must hold
}

// IsEmpty reports whether the clause specifies no conditions at all.
func (w When) IsEmpty() bool {
	return len(w.Flags) == 0 && len(w.Counters) == 0 && len(w.MinCounters) == 0 && len(w.Any) == 0
}

// Compile binds the clause to the cells of reg and returns a live Checker.
// An empty clause compiles to a constant false so an accidentally blank
// clause never unlocks anything.
func (w When) Compile(reg *Registry) Checker {
	if w.IsEmpty() {
		return Const(false)
	}

	var operands []Checker

	for _, name := range sortedKeys(w.Flags) {
		c := reg.Condition(name)
		if w.Flags[name] {
			operands = append(operands, c)
		} else {
			operands = append(operands, Not(c))
		}
	}

	for _, name := range sortedKeys(w.Counters) {
		operands = append(operands, NumEquals(reg.Counter(name), w.Counters[name]))
	}

	for _, name := range sortedKeys(w.MinCounters) {
		operands = append(operands, NumRange(reg.Counter(name), w.MinCounters[name], math.MaxInt))
	}

	if len(w.Any) > 0 {
		branches := make([]Checker, 0, len(w.Any))
		for _, nested := range w.Any {
			branches = append(branches, nested.Compile(reg))
		}
		operands = append(operands, Any(branches...))
	}

	return All(operands...)
}

// Evaluate is a one-shot Compile(reg).Check().
func (w When) Evaluate(reg *Registry) bool {
	return w.Compile(reg).Check()
}

// Validate returns an error for clauses that can never be satisfied.
func (w When) Validate() error {
	for name, exact := range w.Counters {
		if min, ok := w.MinCounters[name]; ok && exact < min {
			return fmt.Errorf("counter %q: exact value %d is below minimum %d", name, exact, min)
		}
	}
	for i, nested := range w.Any {
		if nested.IsEmpty() {
			return fmt.Errorf("any[%d]: empty clause", i)
		}
		if err := nested.Validate(); err != nil {
			return fmt.Errorf("any[%d]: %w", i, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
