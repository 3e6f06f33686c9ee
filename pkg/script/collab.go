package script

import "strings"

// Printer renders dialogue for the player. It is implemented by the console
// layer.
type Printer interface {
	PrintDialogue(speaker, text string, interrupted bool)
	PrintBreaks(n int)
}

// PersonaView answers whether a persona is currently present.
type PersonaView interface {
	IsActive(persona string) bool
}

// State is the slice of game state the switch opcodes branch on.
type State interface {
	HasBlade() bool
	IsHarsh() bool
	IsFirstVessel() bool
	Source() string
	// Voice returns the persona in the given slot (2 or 3), or "".
	Voice(slot int) string
}

// Args carries per-run selectors for the choice-jump opcodes.
type Args struct {
	Cond bool   // switchjump
	Num  int    // numswitchjump, 1-based
	Str  string // stringswitchjump
}

// PersonaSet is a PersonaView over a fixed set of names.
type PersonaSet map[string]bool

// NewPersonaSet returns a set with the given personas active.
func NewPersonaSet(active ...string) PersonaSet {
	s := make(PersonaSet, len(active))
	for _, p := range active {
		s[strings.ToLower(p)] = true
	}
	return s
}

func (s PersonaSet) IsActive(persona string) bool {
	return s[strings.ToLower(persona)]
}

// StaticState is a State with fixed answers.
type StaticState struct {
	Blade       bool
	Harsh       bool
	FirstVessel bool
	SourceName  string
	Voice2      string
	Voice3      string
}

func (s StaticState) HasBlade() bool      { return s.Blade }
func (s StaticState) IsHarsh() bool       { return s.Harsh }
func (s StaticState) IsFirstVessel() bool { return s.FirstVessel }
func (s StaticState) Source() string      { return s.SourceName }

func (s StaticState) Voice(slot int) string {
	switch slot {
	case 2:
		return s.Voice2
	case 3:
		return s.Voice3
	default:
		return ""
	}
}

type discardPrinter struct{}

func (discardPrinter) PrintDialogue(string, string, bool) {}
func (discardPrinter) PrintBreaks(int)                    {}
