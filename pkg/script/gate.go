package script

// Runtime modifier tags. Every other modifier is for the validator and the
// narrative layer.
const (
	ModInterrupt    = "interrupt"
	ModCheckVoice   = "checkvoice"
	ModCheckNoVoice = "checknovoice"
)

// gate decides whether a dialogue line renders, and whether it renders as
// interrupted.
type gate struct {
	personas PersonaView
}

// allow reports whether l passes its checkvoice / checknovoice modifiers.
// checkvoice with no arguments tests the speaker itself; with arguments every
// named persona must be present. checknovoice requires every named persona to
// be absent.
func (g gate) allow(l Line) bool {
	for _, m := range l.Modifiers {
		switch m.Tag {
		case ModCheckVoice:
			if len(m.Args) == 0 {
				if !g.personas.IsActive(l.Token) {
					return false
				}
				continue
			}
			for _, p := range m.Args {
				if !g.personas.IsActive(p) {
					return false
				}
			}
		case ModCheckNoVoice:
			for _, p := range m.Args {
				if g.personas.IsActive(p) {
					return false
				}
			}
		}
	}
	return true
}

func (g gate) interrupted(l Line) bool {
	return l.HasModifier(ModInterrupt)
}
