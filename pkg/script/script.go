package script

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jwebster45206/story-script/pkg/conditionals"
)

// Options wires a Script to its collaborators. Nil fields get inert defaults.
type Options struct {
	Printer    Printer
	Personas   PersonaView
	State      State
	Vocabulary *Vocabulary
	Counter    *conditionals.Counter // numautojump selector, shared by reference
	Text       func() string         // stringautojump selector
	Logger     *slog.Logger
}

// Script is one read position into one File. The cursor is the only runtime
// state and is private to the Script, so a scene may interleave several
// Scripts over different files.
type Script struct {
	file        *File
	cursor      int
	printer     Printer
	gate        gate
	state       State
	vocab       *Vocabulary
	counter     *conditionals.Counter
	text        func() string
	args        Args
	logger      *slog.Logger
	diagnostics []Diagnostic
}

// New returns a Script positioned at line 1 of file.
func New(file *File, opts Options) *Script {
	s := &Script{
		file:    file,
		cursor:  1,
		printer: opts.Printer,
		gate:    gate{personas: opts.Personas},
		state:   opts.State,
		vocab:   opts.Vocabulary,
		counter: opts.Counter,
		text:    opts.Text,
		logger:  opts.Logger,
	}
	if s.printer == nil {
		s.printer = discardPrinter{}
	}
	if s.gate.personas == nil {
		s.gate.personas = PersonaSet{}
	}
	if s.state == nil {
		s.state = StaticState{}
	}
	if s.vocab == nil {
		s.vocab = DefaultVocabulary()
	}
	if s.text == nil {
		s.text = func() string { return "" }
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("script", file.Name())
	return s
}

// Load reads path and returns a Script over it.
func Load(path string, opts Options) (*Script, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(f, opts), nil
}

func (s *Script) File() *File {
	return s.file
}

// Cursor is the index of the next line to execute.
func (s *Script) Cursor() int {
	return s.cursor
}

// AtEnd reports whether the cursor is one past the last line.
func (s *Script) AtEnd() bool {
	return s.cursor > s.file.Len()
}

// Diagnostics returns the non-fatal problems met so far.
func (s *Script) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diagnostics...)
}

// JumpTo moves the cursor to the named anchor without executing anything.
func (s *Script) JumpTo(anchor string) error {
	n, ok := s.file.labels.Lookup(anchor)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownLabel, anchor, s.file.Name())
	}
	s.cursor = n
	return nil
}

// JumpToLine moves the cursor to line n (1..N).
func (s *Script) JumpToLine(n int) error {
	if n < 1 || n > s.file.Len() {
		return fmt.Errorf("%w: %d not in 1..%d of %s", ErrLineOutOfRange, n, s.file.Len(), s.file.Name())
	}
	s.cursor = n
	return nil
}

// jumpToTarget resolves a jumpto argument, which is a line number or an
// anchor name.
func (s *Script) jumpToTarget(target string) error {
	if n, err := strconv.Atoi(target); err == nil {
		return s.JumpToLine(n)
	}
	return s.JumpTo(target)
}

// RunSection executes from the cursor until a blank line has been executed
// or the file ends. The cursor is left just past the blank line.
func (s *Script) RunSection() error {
	for !s.AtEnd() {
		l := s.file.Line(s.cursor)
		s.cursor++
		stop, err := s.dispatch(l, true)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// RunSectionAt jumps to anchor and runs its section.
func (s *Script) RunSectionAt(anchor string) error {
	if err := s.JumpTo(anchor); err != nil {
		return err
	}
	s.logger.Debug("Running section", "anchor", anchor, "line", s.cursor)
	return s.RunSection()
}

// RunSectionAtLine jumps to line n and runs from there.
func (s *Script) RunSectionAtLine(n int) error {
	if err := s.JumpToLine(n); err != nil {
		return err
	}
	return s.RunSection()
}

// RunSectionWith runs the section at anchor with the given choice-jump
// selectors in effect.
func (s *Script) RunSectionWith(anchor string, args Args) error {
	prev := s.args
	s.args = args
	defer func() { s.args = prev }()
	return s.RunSectionAt(anchor)
}

// Digress runs the section at anchor, then puts the cursor back where it was.
func (s *Script) Digress(anchor string) error {
	saved := s.cursor
	defer func() { s.cursor = saved }()
	return s.RunSectionAt(anchor)
}

// RunThrough executes from the cursor up to and including the line of
// endAnchor. Blank lines do not stop a bounded run.
func (s *Script) RunThrough(endAnchor string) error {
	n, ok := s.file.labels.Lookup(endAnchor)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownLabel, endAnchor, s.file.Name())
	}
	return s.runBounded(n)
}

// RunThroughLine executes from the cursor up to and including line end.
func (s *Script) RunThroughLine(end int) error {
	if end < 1 || end > s.file.Len() {
		return fmt.Errorf("%w: %d not in 1..%d of %s", ErrLineOutOfRange, end, s.file.Len(), s.file.Name())
	}
	return s.runBounded(end)
}

func (s *Script) runBounded(end int) error {
	for s.cursor <= end && !s.AtEnd() {
		l := s.file.Line(s.cursor)
		s.cursor++
		if _, err := s.dispatch(l, false); err != nil {
			return err
		}
	}
	return nil
}

// RunNextLines executes exactly n lines from the cursor, ignoring blank-line
// stops, or fewer if the file ends.
func (s *Script) RunNextLines(n int) error {
	for i := 0; i < n && !s.AtEnd(); i++ {
		l := s.file.Line(s.cursor)
		s.cursor++
		if _, err := s.dispatch(l, false); err != nil {
			return err
		}
	}
	return nil
}

// RunConditionalSection runs <base>True when c holds, <base>False otherwise.
func (s *Script) RunConditionalSection(base string, c conditionals.Checker) error {
	yes, no := ConditionalLabels(base)
	if c.Check() {
		return s.RunSectionAt(yes)
	}
	return s.RunSectionAt(no)
}

// RunBladeSection runs <base>Blade or <base>NoBlade.
func (s *Script) RunBladeSection(base string) error {
	return s.runConvention("bladeswitch", base)
}

// RunMoodSection runs <base>Harsh or <base>Soft.
func (s *Script) RunMoodSection(base string) error {
	return s.runConvention("moodswitch", base)
}

// RunClaimSection runs <base>FirstVessel or <base>NotFirstVessel.
func (s *Script) RunClaimSection(base string) error {
	return s.runConvention("firstswitch", base)
}

// RunSourceSection runs <base><source> for the current source.
func (s *Script) RunSourceSection(base string) error {
	source := s.state.Source()
	if source == "" {
		return fmt.Errorf("%w: no source for %q", ErrNoSwitchTarget, base)
	}
	return s.RunSectionAt(base + capitalize(source))
}

// RunVoiceSection runs <base><voice> for the persona in slot (2 or 3).
func (s *Script) RunVoiceSection(base string, slot int) error {
	voice := s.state.Voice(slot)
	if voice == "" {
		return fmt.Errorf("%w: no voice in slot %d for %q", ErrNoSwitchTarget, slot, base)
	}
	return s.RunSectionAt(base + capitalize(voice))
}

func (s *Script) runConvention(token, base string) error {
	sw := newSwitch(token, []string{base})
	label, err := s.selectSwitch(sw)
	if err != nil {
		return err
	}
	return s.RunSectionAt(label)
}

// dispatch executes one line. stop is true when the line ends a section run.
func (s *Script) dispatch(l Line, sectionMode bool) (stop bool, err error) {
	switch l.Op {
	case OpBlank:
		return sectionMode, nil

	case OpComment, OpAnchor:
		return false, nil

	case OpLineBreak:
		n := 1
		if l.Argument != "" {
			v, convErr := strconv.Atoi(l.Argument)
			if convErr != nil || v < 1 {
				s.diagnose(l, fmt.Sprintf("invalid linebreak count %q", l.Argument))
				return false, nil
			}
			n = v
		}
		s.printer.PrintBreaks(n)
		return false, nil

	case OpJumpTo:
		fields := l.Fields()
		if len(fields) != 1 {
			s.diagnose(l, fmt.Sprintf("jumpto takes one target, got %q", l.Argument))
			return false, nil
		}
		if err := s.jumpToTarget(fields[0]); err != nil {
			return false, fmt.Errorf("line %d: %w", l.Number, err)
		}
		return false, nil

	case OpSwitch, OpChoiceJump:
		if l.Switch.Problem != "" {
			s.diagnose(l, l.Switch.Problem)
			return false, nil
		}
		label, err := s.selectSwitch(*l.Switch)
		if err != nil {
			return false, fmt.Errorf("line %d: %w", l.Number, err)
		}
		if err := s.JumpTo(label); err != nil {
			return false, fmt.Errorf("line %d: %w", l.Number, err)
		}
		return false, nil

	default:
		s.speak(l)
		return false, nil
	}
}

func (s *Script) speak(l Line) {
	if !s.vocab.IsSpeaker(l.Token) {
		s.diagnose(l, fmt.Sprintf("unknown speaker %q", l.Token))
		return
	}
	if !s.gate.allow(l) {
		s.logger.Debug("Dialogue gated", "line", l.Number, "speaker", l.Token)
		return
	}
	s.printer.PrintDialogue(l.Token, l.Argument, s.gate.interrupted(l))
}

// selectSwitch picks the label a switch or choice-jump line goes to.
func (s *Script) selectSwitch(sw Switch) (string, error) {
	switch sw.Kind {
	case SwitchBlade:
		return sw.selectBinary(s.state.HasBlade()), nil
	case SwitchMood:
		return sw.selectBinary(s.state.IsHarsh()), nil
	case SwitchClaim:
		return sw.selectBinary(s.state.IsFirstVessel()), nil
	case ChoiceCondition:
		return sw.selectBinary(s.args.Cond), nil

	case SwitchSource:
		return s.suffixTarget(sw, s.state.Source())
	case SwitchVoice2:
		return s.suffixTarget(sw, s.state.Voice(2))
	case SwitchVoice3:
		return s.suffixTarget(sw, s.state.Voice(3))

	case ChoiceNumber:
		return s.indexTarget(sw, s.args.Num)
	case AutoNumber:
		if s.counter == nil {
			return "", fmt.Errorf("%w: %s needs a counter", ErrNoSwitchTarget, sw.Token)
		}
		return s.indexTarget(sw, s.counter.Value())

	case ChoiceString:
		return s.endingTarget(sw, s.args.Str)
	case AutoString:
		return s.endingTarget(sw, s.text())
	}
	return "", fmt.Errorf("%w: unsupported switch %s", ErrNoSwitchTarget, sw.Token)
}

func (s *Script) suffixTarget(sw Switch, value string) (string, error) {
	label, ok := sw.selectSuffix(value)
	if !ok {
		return "", fmt.Errorf("%w: %s %s has no branch for %q", ErrNoSwitchTarget, sw.Token, sw.Base, value)
	}
	return label, nil
}

func (s *Script) indexTarget(sw Switch, n int) (string, error) {
	label, ok := sw.selectIndex(n)
	if !ok {
		return "", fmt.Errorf("%w: %s selector %d not in 1..%d", ErrNoSwitchTarget, sw.Token, n, len(sw.Labels))
	}
	return label, nil
}

func (s *Script) endingTarget(sw Switch, value string) (string, error) {
	label, ok := sw.selectEnding(value)
	if !ok {
		return "", fmt.Errorf("%w: %s has no label ending in %q", ErrNoSwitchTarget, sw.Token, value)
	}
	return label, nil
}

func (s *Script) diagnose(l Line, msg string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: l.Number, Message: msg})
	s.logger.Warn("Skipping script line", "line", l.Number, "problem", msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
