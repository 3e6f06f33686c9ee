package validate

// argRule says what arguments a modifier tag accepts.
type argRule int

const (
	argsNone     argRule = iota // boolean flags: no arguments
	argsOptional                // checkvoice: speaker by default, or named personas
	argsPersonas                // checknovoice, voice2, voice3: one or more personas
	argsValues                  // ifsource, ifstring: one or more free values
	argsNumbers                 // ifnum: optional integer targets
)

type modifierSpec struct {
	rule argRule
}

// exclusivePairs lists flag modifiers that cannot appear together.
var exclusivePairs = [][2]string{
	{"firstvessel", "notfirstvessel"},
	{"hasblade", "noblade"},
	{"harsh", "soft"},
	{"knowledge", "noknowledge"},
	{"sharedloop", "noshare"},
	{"sharedinsist", "noinsist"},
	{"threwblade", "nothrow"},
	{"mirrorask", "nomirrorask"},
	{"mirrortouch", "nomirrortouch"},
	{"mirror2", "nomirror2"},
	{"drop1", "nodrop1"},
	{"whatdo1", "nowhatdo1"},
	{"rescue1", "norescue1"},
	{"abandoned", "noabandon"},
	{"possessask", "nopossessask"},
	{"cantwontask", "nocantwontask"},
	{"endslay", "noendslay"},
	{"heartstop", "noheartstop"},
	{"check", "checkfalse"},
}

// targetAxis pairs a positive and a negative value-targeted modifier. Each
// axis supports at most one positive and one negative target per line.
type targetAxis struct {
	positive string
	negative string
}

var targetAxes = []targetAxis{
	{"ifnum", "ifnumnot"},
	{"ifsource", "ifsourcenot"},
	{"ifstring", "ifstringnot"},
}

var modifierSpecs = buildModifierSpecs()

func buildModifierSpecs() map[string]modifierSpec {
	specs := map[string]modifierSpec{
		"interrupt":    {argsNone},
		"checkvoice":   {argsOptional},
		"checknovoice": {argsPersonas},
		"voice2":       {argsPersonas},
		"voice3":       {argsPersonas},
		"ifsource":     {argsValues},
		"ifsourcenot":  {argsValues},
		"ifstring":     {argsValues},
		"ifstringnot":  {argsValues},
		"ifnum":        {argsNumbers},
		"ifnumnot":     {argsNumbers},
	}
	for _, pair := range exclusivePairs {
		specs[pair[0]] = modifierSpec{argsNone}
		specs[pair[1]] = modifierSpec{argsNone}
	}
	return specs
}
