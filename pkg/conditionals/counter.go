package conditionals

// Counter is a mutable integer cell shared by reference across a scene.
// Progress counters (times the player resisted, questions asked, etc.) are
// created fresh per scene and handed around as *Counter so every holder sees
// the same value.
type Counter struct {
	value int
}

// NewCounter returns a counter starting at start.
func NewCounter(start int) *Counter {
	return &Counter{value: start}
}

func (c *Counter) Increment() {
	c.value++
}

func (c *Counter) Decrement() {
	c.value--
}

// Add adds n (which may be negative) to the counter.
func (c *Counter) Add(n int) {
	c.value += n
}

func (c *Counter) Subtract(n int) {
	c.value -= n
}

func (c *Counter) Set(n int) {
	c.value = n
}

func (c *Counter) Value() int {
	return c.value
}

func (c *Counter) Equals(n int) bool {
	return c.value == n
}

func (c *Counter) GreaterThan(n int) bool {
	return c.value > n
}

func (c *Counter) LessThan(n int) bool {
	return c.value < n
}
