package conditionals

// Checker is anything that evaluates to a boolean on demand. Menu options,
// dialogue gates and section selection are all written against Checker so a
// leaf flag, a combinator or a counter test can be used interchangeably.
type Checker interface {
	Check() bool
}

// Condition is a settable boolean leaf. The zero value is false.
type Condition struct {
	value bool
}

// NewCondition returns a leaf condition with the given initial value.
func NewCondition(initial bool) *Condition {
	return &Condition{value: initial}
}

// Set marks the condition true.
func (c *Condition) Set() {
	c.value = true
}

func (c *Condition) SetTo(v bool) {
	c.value = v
}

func (c *Condition) Reset() {
	c.value = false
}

func (c *Condition) Check() bool {
	return c.value
}

// Const is a Checker with a fixed value, used where a raw boolean is passed
// in place of a live predicate.
type Const bool

func (c Const) Check() bool {
	return bool(c)
}

// Inverse is the live negation of another Checker. It never caches: every
// Check re-reads the wrapped node.
type Inverse struct {
	inner Checker
}

// Not returns the live inverse of c.
func Not(c Checker) *Inverse {
	return &Inverse{inner: c}
}

func (i *Inverse) Check() bool {
	return !i.inner.Check()
}

// And is true when every operand is true. An empty And is true.
type And struct {
	operands []Checker
}

// All builds an And over the given operands.
func All(operands ...Checker) *And {
	return &And{operands: operands}
}

func (a *And) Check() bool {
	for _, c := range a.operands {
		if !c.Check() {
			return false
		}
	}
	return true
}

// Or is true when any operand is true. An empty Or is false.
type Or struct {
	operands []Checker
}

// Any builds an Or over the given operands.
func Any(operands ...Checker) *Or {
	return &Or{operands: operands}
}

func (o *Or) Check() bool {
	for _, c := range o.operands {
		if c.Check() {
			return true
		}
	}
	return false
}

// NumCondition bridges a Counter into the Checker interface. In equality mode
// it tests counter == target; in range mode it tests low <= counter < high.
type NumCondition struct {
	counter *Counter
	ranged  bool
	target  int
	low     int
	high    int
}

// NumEquals is true while counter equals target.
func NumEquals(counter *Counter, target int) *NumCondition {
	return &NumCondition{counter: counter, target: target}
}

// NumRange is true while low <= counter < high.
func NumRange(counter *Counter, low, high int) *NumCondition {
	return &NumCondition{counter: counter, ranged: true, low: low, high: high}
}

func (n *NumCondition) Check() bool {
	if !n.ranged {
		return n.counter.Equals(n.target)
	}
	v := n.counter.Value()
	return v >= n.low && v < n.high
}
