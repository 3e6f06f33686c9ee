package conditionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition_DefaultsAndSet(t *testing.T) {
	var c Condition
	assert.False(t, c.Check())

	c.Set()
	assert.True(t, c.Check())

	c.SetTo(false)
	assert.False(t, c.Check())

	started := NewCondition(true)
	assert.True(t, started.Check())
	started.Reset()
	assert.False(t, started.Check())
}

func TestInverse_TracksLiveMutation(t *testing.T) {
	c := NewCondition(false)
	inv := Not(c)

	assert.Equal(t, !c.Check(), inv.Check())

	// Mutating after the inverse was built must be visible through it.
	c.Set()
	assert.False(t, inv.Check())
	assert.Equal(t, !c.Check(), inv.Check())

	c.Reset()
	assert.True(t, inv.Check())

	// Double inverse follows the leaf too.
	assert.Equal(t, c.Check(), Not(inv).Check())
}

func TestAndOr(t *testing.T) {
	a := NewCondition(true)
	b := NewCondition(false)

	tests := []struct {
		name     string
		checker  Checker
		expected bool
	}{
		{"and with a false operand", All(a, b), false},
		{"and all true", All(a, Not(b)), true},
		{"empty and", All(), true},
		{"or with a true operand", Any(a, b), true},
		{"or all false", Any(b, Not(a)), false},
		{"empty or", Any(), false},
		{"nested", Any(All(a, b), Not(b)), true},
		{"const", Const(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.checker.Check())
		})
	}
}

func TestAnd_ShortCircuits(t *testing.T) {
	calls := 0
	probe := checkerFunc(func() bool {
		calls++
		return true
	})

	All(Const(false), probe).Check()
	assert.Equal(t, 0, calls)

	Any(Const(true), probe).Check()
	assert.Equal(t, 0, calls)

	All(Const(true), probe).Check()
	assert.Equal(t, 1, calls)
}

func TestCombinators_ShareOperands(t *testing.T) {
	knows := NewCondition(false)
	ask := All(Not(knows))
	tell := Any(knows)

	assert.True(t, ask.Check())
	assert.False(t, tell.Check())

	knows.Set()
	assert.False(t, ask.Check())
	assert.True(t, tell.Check())
}

func TestNumCondition(t *testing.T) {
	counter := NewCounter(0)
	eq := NumEquals(counter, 2)
	rng := NumRange(counter, 1, 3)

	steps := []struct {
		value   int
		equals  bool
		inRange bool
	}{
		{0, false, false},
		{1, false, true},
		{2, true, true},
		{3, false, false},
		{-1, false, false},
	}

	for _, s := range steps {
		counter.Set(s.value)
		assert.Equal(t, counter.Equals(2), eq.Check(), "value %d", s.value)
		assert.Equal(t, s.equals, eq.Check(), "equals at %d", s.value)
		assert.Equal(t, s.inRange, rng.Check(), "range at %d", s.value)
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter(5)
	c.Increment()
	c.Increment()
	c.Decrement()
	assert.Equal(t, 6, c.Value())

	c.Subtract(4)
	assert.Equal(t, 2, c.Value())
	c.Add(-3)
	assert.Equal(t, -1, c.Value())

	assert.True(t, c.Equals(-1))
	assert.True(t, c.GreaterThan(-2))
	assert.False(t, c.GreaterThan(-1))
	assert.True(t, c.LessThan(0))
}

func TestRegistry_Aliases(t *testing.T) {
	reg := NewRegistry()

	first := reg.Condition("knowsName")
	second := reg.Condition("knowsName")
	assert.Same(t, first, second)

	inv := Not(reg.Condition("knowsName"))
	first.Set()
	assert.False(t, inv.Check())

	reg.Counter("resist").Increment()
	reg.Counter("resist").Increment()
	assert.Equal(t, 2, reg.Counter("resist").Value())

	assert.True(t, reg.HasCondition("knowsName"))
	assert.False(t, reg.HasCondition("other"))
	assert.True(t, reg.HasCounter("resist"))

	conds, counters := reg.Names()
	assert.Equal(t, []string{"knowsName"}, conds)
	assert.Equal(t, []string{"resist"}, counters)
}

type checkerFunc func() bool

func (f checkerFunc) Check() bool { return f() }
