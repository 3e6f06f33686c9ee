package script

import (
	"strings"
)

// ModifierDelimiter separates a dialogue line's text from its modifier block.
const ModifierDelimiter = "///"

// Opcode classifies a parsed line.
type Opcode int

const (
	OpBlank Opcode = iota
	OpComment
	OpDialogue
	OpLineBreak
	OpJumpTo
	OpAnchor
	OpSwitch     // bladeswitch, moodswitch, sourceswitch, ...
	OpChoiceJump // switchjump, numswitchjump, numautojump, ...
)

func (o Opcode) String() string {
	switch o {
	case OpBlank:
		return "blank"
	case OpComment:
		return "comment"
	case OpDialogue:
		return "dialogue"
	case OpLineBreak:
		return "linebreak"
	case OpJumpTo:
		return "jumpto"
	case OpAnchor:
		return "jumpanchor"
	case OpSwitch:
		return "switch"
	case OpChoiceJump:
		return "choicejump"
	default:
		return "unknown"
	}
}

// Control opcode tokens.
const (
	TokenLineBreak = "linebreak"
	TokenJumpTo    = "jumpto"
	TokenAnchor    = "jumpanchor"
	commentPrefix  = "//"
)

// Modifier is one tag from a dialogue line's modifier block, e.g.
// "checkvoice-hero-cold" is Tag "checkvoice" with Args ["hero", "cold"].
type Modifier struct {
	Tag  string
	Args []string
}

func (m Modifier) String() string {
	if len(m.Args) == 0 {
		return m.Tag
	}
	return m.Tag + "-" + strings.Join(m.Args, "-")
}

// ParseModifier splits a single hyphen-delimited modifier token.
func ParseModifier(token string) Modifier {
	parts := strings.Split(token, "-")
	m := Modifier{Tag: strings.ToLower(parts[0])}
	for _, a := range parts[1:] {
		if a != "" {
			m.Args = append(m.Args, a)
		}
	}
	return m
}

// Line is one parsed row of a script file. Lines are immutable after load.
type Line struct {
	Number    int        // 1-based line number in the source file
	Raw       string     // trimmed source text
	Op        Opcode     // classification
	Token     string     // opcode token, or speaker tag for dialogue
	Argument  string     // remainder after the token, without any modifier block
	Modifiers []Modifier // parsed modifier block, in source order
	// HasModifierBlock is true when the delimiter was present, even if no
	// modifiers followed it.
	HasModifierBlock bool
	Switch           *Switch // companion labels for switch and choice-jump lines
}

// Fields splits the argument on whitespace.
func (l Line) Fields() []string {
	return strings.Fields(l.Argument)
}

// HasModifier reports whether the modifier block contains tag.
func (l Line) HasModifier(tag string) bool {
	_, ok := l.Modifier(tag)
	return ok
}

// Modifier returns the first modifier with the given tag.
func (l Line) Modifier(tag string) (Modifier, bool) {
	for _, m := range l.Modifiers {
		if m.Tag == tag {
			return m, true
		}
	}
	return Modifier{}, false
}

// ParseLine tokenizes one physical line. number is the 1-based line number.
func ParseLine(number int, raw string) Line {
	trimmed := strings.TrimSpace(raw)
	l := Line{Number: number, Raw: trimmed}

	if trimmed == "" {
		l.Op = OpBlank
		return l
	}
	if strings.HasPrefix(trimmed, commentPrefix) {
		l.Op = OpComment
		l.Argument = strings.TrimSpace(strings.TrimPrefix(trimmed, commentPrefix))
		return l
	}

	token, rest, _ := strings.Cut(trimmed, " ")
	l.Token = strings.ToLower(token)

	if body, mods, found := strings.Cut(rest, ModifierDelimiter); found {
		l.HasModifierBlock = true
		rest = body
		for _, f := range strings.Fields(mods) {
			l.Modifiers = append(l.Modifiers, ParseModifier(f))
		}
	}
	l.Argument = strings.TrimSpace(rest)

	switch {
	case l.Token == TokenLineBreak:
		l.Op = OpLineBreak
	case l.Token == TokenJumpTo:
		l.Op = OpJumpTo
	case l.Token == TokenAnchor:
		l.Op = OpAnchor
	case isSwitchToken(l.Token):
		l.Op = OpSwitch
		sw := newSwitch(l.Token, l.Fields())
		l.Switch = &sw
	case isChoiceJumpToken(l.Token):
		l.Op = OpChoiceJump
		sw := newSwitch(l.Token, l.Fields())
		l.Switch = &sw
	default:
		l.Op = OpDialogue
	}
	return l
}
