package script

import (
	"fmt"
	"strings"
)

// SwitchKind identifies how a switch or choice-jump line picks its target.
type SwitchKind int

const (
	SwitchBlade SwitchKind = iota
	SwitchMood
	SwitchClaim
	SwitchSource
	SwitchVoice2
	SwitchVoice3
	ChoiceCondition // switchjump <base>
	ChoiceNumber    // numswitchjump <label...>
	ChoiceString    // stringswitchjump <label...>
	AutoNumber      // numautojump <label...>
	AutoString      // stringautojump <label...>
)

var switchTokens = map[string]SwitchKind{
	"bladeswitch":  SwitchBlade,
	"moodswitch":   SwitchMood,
	"harshswitch":  SwitchMood,
	"firstswitch":  SwitchClaim,
	"claim":        SwitchClaim,
	"sourceswitch": SwitchSource,
	"voice2switch": SwitchVoice2,
	"voice3switch": SwitchVoice3,
}

var choiceJumpTokens = map[string]SwitchKind{
	"switchjump":       ChoiceCondition,
	"numswitchjump":    ChoiceNumber,
	"stringswitchjump": ChoiceString,
	"numautojump":      AutoNumber,
	"stringautojump":   AutoString,
}

// Companion label suffixes of the two-way switches, positive branch first.
var binarySuffixes = map[SwitchKind][2]string{
	SwitchBlade:     {"Blade", "NoBlade"},
	SwitchMood:      {"Harsh", "Soft"},
	SwitchClaim:     {"FirstVessel", "NotFirstVessel"},
	ChoiceCondition: {"True", "False"},
}

func isSwitchToken(token string) bool {
	_, ok := switchTokens[token]
	return ok
}

func isChoiceJumpToken(token string) bool {
	_, ok := choiceJumpTokens[token]
	return ok
}

// Switch is the load-time expansion of a switch or choice-jump line into the
// concrete labels it may jump to. Naming conventions are applied once, here.
type Switch struct {
	Kind     SwitchKind
	Token    string
	Base     string   // base name for convention-derived labels
	Suffixes []string // suffixes for sourceswitch / voiceNswitch
	Labels   []string // every label this line may jump to
	Problem  string   // non-empty when the arguments are malformed
}

// Binary reports whether the switch chooses between exactly two companions.
func (s Switch) Binary() bool {
	_, ok := binarySuffixes[s.Kind]
	return ok
}

func newSwitch(token string, args []string) Switch {
	kind, ok := switchTokens[token]
	if !ok {
		kind = choiceJumpTokens[token]
	}
	sw := Switch{Kind: kind, Token: token}

	switch kind {
	case SwitchBlade, SwitchMood, SwitchClaim, ChoiceCondition:
		if len(args) != 1 {
			sw.Problem = fmt.Sprintf("%s takes exactly one base label, got %d arguments", token, len(args))
			if len(args) == 0 {
				return sw
			}
		}
		sw.Base = args[0]
		suffixes := binarySuffixes[kind]
		sw.Labels = []string{sw.Base + suffixes[0], sw.Base + suffixes[1]}

	case SwitchSource, SwitchVoice2, SwitchVoice3:
		if len(args) < 2 {
			sw.Problem = fmt.Sprintf("%s takes a base label and at least one suffix", token)
			if len(args) == 0 {
				return sw
			}
		}
		sw.Base = args[0]
		sw.Suffixes = args[1:]
		for _, suffix := range sw.Suffixes {
			sw.Labels = append(sw.Labels, sw.Base+suffix)
		}

	default:
		if len(args) == 0 {
			sw.Problem = fmt.Sprintf("%s takes at least one label", token)
			return sw
		}
		sw.Labels = append(sw.Labels, args...)
	}
	return sw
}

// selectBinary returns the positive companion when cond holds.
func (s Switch) selectBinary(cond bool) string {
	if cond {
		return s.Labels[0]
	}
	return s.Labels[1]
}

// selectSuffix returns the label for value, matching suffixes
// case-insensitively.
func (s Switch) selectSuffix(value string) (string, bool) {
	for i, suffix := range s.Suffixes {
		if strings.EqualFold(suffix, value) {
			return s.Labels[i], true
		}
	}
	return "", false
}

// selectIndex returns the n-th label, counting from 1.
func (s Switch) selectIndex(n int) (string, bool) {
	if n < 1 || n > len(s.Labels) {
		return "", false
	}
	return s.Labels[n-1], true
}

// selectEnding returns the first label ending in value.
func (s Switch) selectEnding(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	for _, l := range s.Labels {
		if strings.HasSuffix(l, value) {
			return l, true
		}
	}
	return "", false
}

// ConditionalLabels returns the True/False companions of base, the naming
// convention used by RunConditionalSection and switchjump.
func ConditionalLabels(base string) (string, string) {
	s := binarySuffixes[ChoiceCondition]
	return base + s[0], base + s[1]
}
