// Package validate statically checks script files. It tokenizes with the same
// grammar as the interpreter but never executes a line; every problem becomes
// a Finding attached to its line number.
package validate

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jwebster45206/story-script/pkg/script"
)

// ScriptExt is the extension ValidateDir looks for.
const ScriptExt = ".txt"

// Validator checks scripts against a speaker vocabulary.
type Validator struct {
	vocab  *script.Vocabulary
	logger *slog.Logger
}

// New creates a Validator. A nil vocab uses the default vocabulary and a nil
// logger discards output.
func New(vocab *script.Vocabulary, logger *slog.Logger) *Validator {
	if vocab == nil {
		vocab = script.DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Validator{vocab: vocab, logger: logger}
}

// ValidateFile loads and checks one script. Only a load failure is returned
// as an error; everything else is reported as a finding.
func (v *Validator) ValidateFile(path string) (*Report, error) {
	f, err := script.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return v.Validate(f), nil
}

// ValidateFileContents checks script text held in memory.
func (v *Validator) ValidateFileContents(name, content string) (*Report, error) {
	f, err := script.ParseString(name, content)
	if err != nil {
		return nil, err
	}
	return v.Validate(f), nil
}

// ScriptFiles lists the scripts under dir, sorted by path.
func ScriptFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ScriptExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk script directory %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s scripts found in %s: %w", ScriptExt, dir, os.ErrNotExist)
	}
	sort.Strings(paths)
	return paths, nil
}

// ValidateDir checks every script under dir, in path order.
func (v *Validator) ValidateDir(dir string) ([]*Report, error) {
	paths, err := ScriptFiles(dir)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(paths))
	for _, p := range paths {
		r, err := v.ValidateFile(p)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Validate checks an already parsed file.
func (v *Validator) Validate(f *script.File) *Report {
	r := &Report{File: f.Name(), Lines: f.Len()}

	v.checkAnchors(f, r)
	v.checkReachability(f, r)
	for _, l := range f.Lines() {
		v.checkLine(f, l, r)
	}
	r.sort()

	v.logger.Debug("validated script",
		"file", r.File,
		"lines", r.Lines,
		"errors", len(r.Errors()),
		"issues", len(r.Issues()))
	return r
}

func (v *Validator) checkAnchors(f *script.File, r *Report) {
	for _, c := range f.Labels().Collisions() {
		r.errorf(c.Duplicate, CodeDuplicateAnchor, "anchor %q is already declared on line %d", c.Name, c.First)
	}

	for _, name := range f.Labels().Names() {
		s, _ := f.Section(name)
		if !s.Terminated {
			r.issuef(s.Start, CodeUnterminatedSection, "section %q runs to the end of the file without a blank line", name)
		}
		if sectionIsEmpty(f, s) {
			r.issuef(s.Start, CodeEmptySection, "section %q has no lines", name)
		}
	}
}

func sectionIsEmpty(f *script.File, s script.Section) bool {
	for n := s.Start + 1; n < s.End; n++ {
		if f.Line(n).Op != script.OpComment {
			return false
		}
	}
	return true
}

// checkReachability flags the first line after an unconditional jump that
// can only be reached by a numeric jump. A blank line or anchor ends the
// dead stretch.
func (v *Validator) checkReachability(f *script.File, r *Report) {
	jumpLine := 0
	for _, l := range f.Lines() {
		switch l.Op {
		case script.OpBlank, script.OpAnchor:
			jumpLine = 0
			continue
		case script.OpComment:
			continue
		}

		if jumpLine > 0 {
			r.issuef(l.Number, CodeUnreachable, "line is unreachable after the jump on line %d", jumpLine)
			jumpLine = 0
		}
		if l.Op == script.OpJumpTo || l.Op == script.OpSwitch || l.Op == script.OpChoiceJump {
			jumpLine = l.Number
		}
	}
}

func (v *Validator) checkLine(f *script.File, l script.Line, r *Report) {
	if l.Op != script.OpDialogue && l.Op != script.OpBlank && l.Op != script.OpComment && l.HasModifierBlock {
		r.errorf(l.Number, CodeMisplacedModifier, "modifiers are only allowed on dialogue lines, not %s", l.Token)
	}

	switch l.Op {
	case script.OpLineBreak:
		checkLineBreak(l, r)
	case script.OpJumpTo:
		checkJumpTo(f, l, r)
	case script.OpAnchor:
		checkAnchorArgs(l, r)
	case script.OpSwitch:
		checkSwitch(f, l, r, CodeMissingCompanion, "missing companion")
	case script.OpChoiceJump:
		checkSwitch(f, l, r, CodeUnknownLabel, "unknown")
	case script.OpDialogue:
		v.checkDialogue(l, r)
	}
}

func checkLineBreak(l script.Line, r *Report) {
	fields := l.Fields()
	if len(fields) == 0 {
		return
	}
	if len(fields) > 1 {
		r.errorf(l.Number, CodeBadArguments, "linebreak takes at most one argument, got %d", len(fields))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		r.errorf(l.Number, CodeBadArguments, "linebreak count %q is not a number", fields[0])
		return
	}
	if n < 1 {
		r.errorf(l.Number, CodeBadArguments, "linebreak count must be positive, got %d", n)
	}
}

func checkJumpTo(f *script.File, l script.Line, r *Report) {
	fields := l.Fields()
	switch {
	case len(fields) == 0:
		r.errorf(l.Number, CodeBadArguments, "jumpto is missing its target")
		return
	case len(fields) > 1:
		r.errorf(l.Number, CodeBadArguments, "jumpto takes one target, got %d", len(fields))
	}

	target := fields[0]
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > f.Len() {
			r.errorf(l.Number, CodeLineOutOfRange, "jump to line %d is outside 1..%d", n, f.Len())
		}
		return
	}
	if !f.Labels().Has(target) {
		r.errorf(l.Number, CodeUnknownLabel, "jump target %q is not declared", target)
	}
}

func checkAnchorArgs(l script.Line, r *Report) {
	fields := l.Fields()
	switch {
	case len(fields) == 0:
		r.errorf(l.Number, CodeBadArguments, "jumpanchor is missing its name")
	case len(fields) > 1:
		r.errorf(l.Number, CodeBadArguments, "jumpanchor takes one name, got %d", len(fields))
	}
}

// checkSwitch reports malformed arguments and, in a single finding, every
// label the line may jump to that is not declared.
func checkSwitch(f *script.File, l script.Line, r *Report, code, adjective string) {
	sw := l.Switch
	if sw == nil {
		return
	}
	if sw.Problem != "" {
		r.errorf(l.Number, CodeBadArguments, "%s", sw.Problem)
	}

	var missing []string
	for _, label := range sw.Labels {
		if !f.Labels().Has(label) {
			missing = append(missing, label)
		}
	}
	if len(missing) == 0 {
		return
	}

	noun := "label"
	if len(missing) > 1 {
		noun = "labels"
	}
	r.errorf(l.Number, code, "%s has %s %s: %s", sw.Token, adjective, noun, strings.Join(missing, ", "))
}

func (v *Validator) checkDialogue(l script.Line, r *Report) {
	knownSpeaker := v.vocab.IsSpeaker(l.Token)
	if !knownSpeaker {
		r.errorf(l.Number, CodeUnknownSpeaker, "unknown speaker %q", l.Token)
	}
	if l.Argument == "" {
		r.issuef(l.Number, CodeEmptyDialogue, "dialogue line has no text")
	}
	if l.HasModifierBlock && len(l.Modifiers) == 0 {
		r.issuef(l.Number, CodeEmptyModifierBlock, "%s is not followed by any modifiers", script.ModifierDelimiter)
	}

	counts := make(map[string]int, len(l.Modifiers))
	for _, m := range l.Modifiers {
		counts[m.Tag]++
		if counts[m.Tag] == 2 {
			r.issuef(l.Number, CodeDuplicateModifier, "modifier %q appears more than once", m.Tag)
		}

		spec, ok := modifierSpecs[m.Tag]
		if !ok {
			r.errorf(l.Number, CodeUnknownModifier, "unknown modifier %q", m.Tag)
			continue
		}
		v.checkModifierArgs(l, m, spec, knownSpeaker, r)
	}

	for _, pair := range exclusivePairs {
		if counts[pair[0]] > 0 && counts[pair[1]] > 0 {
			r.errorf(l.Number, CodeExclusiveModifiers, "modifiers %q and %q are mutually exclusive", pair[0], pair[1])
		}
	}
	v.checkVoiceConflicts(l, r)
	for _, axis := range targetAxes {
		checkAxis(l, axis, r)
	}
}

func (v *Validator) checkModifierArgs(l script.Line, m script.Modifier, spec modifierSpec, knownSpeaker bool, r *Report) {
	switch spec.rule {
	case argsNone:
		if len(m.Args) > 0 {
			r.errorf(l.Number, CodeModifierArguments, "modifier %q takes no arguments, got %s", m.Tag, m)
		}

	case argsOptional:
		if len(m.Args) == 0 {
			if knownSpeaker && !v.vocab.IsPersona(l.Token) {
				r.errorf(l.Number, CodeSpeakerNotPersona, "%s without arguments needs a persona speaker, %q is not one", m.Tag, l.Token)
			}
			return
		}
		v.checkPersonas(l, m, r)

	case argsPersonas:
		if len(m.Args) == 0 {
			r.errorf(l.Number, CodeModifierArguments, "modifier %q needs at least one persona", m.Tag)
			return
		}
		v.checkPersonas(l, m, r)

	case argsValues:
		if len(m.Args) == 0 {
			r.errorf(l.Number, CodeModifierArguments, "modifier %q needs a value", m.Tag)
		}

	case argsNumbers:
		for _, a := range m.Args {
			if _, err := strconv.Atoi(a); err != nil {
				r.errorf(l.Number, CodeModifierArguments, "modifier %q argument %q is not a number", m.Tag, a)
			}
		}
	}
}

func (v *Validator) checkPersonas(l script.Line, m script.Modifier, r *Report) {
	for _, p := range m.Args {
		if !v.vocab.IsPersona(p) {
			r.errorf(l.Number, CodeUnknownPersona, "modifier %q names unknown persona %q", m.Tag, p)
		}
	}
}

// checkVoiceConflicts flags a persona required both present and absent.
func (v *Validator) checkVoiceConflicts(l script.Line, r *Report) {
	required := make(map[string]bool)
	for _, m := range l.Modifiers {
		if m.Tag != script.ModCheckVoice {
			continue
		}
		if len(m.Args) == 0 {
			required[strings.ToLower(l.Token)] = true
		}
		for _, p := range m.Args {
			required[strings.ToLower(p)] = true
		}
	}
	if len(required) == 0 {
		return
	}

	var both []string
	for _, m := range l.Modifiers {
		if m.Tag != script.ModCheckNoVoice {
			continue
		}
		for _, p := range m.Args {
			p = strings.ToLower(p)
			if required[p] && !slices.Contains(both, p) {
				both = append(both, p)
			}
		}
	}
	for _, p := range both {
		r.errorf(l.Number, CodeContradiction, "persona %q is required by %s and excluded by %s", p, script.ModCheckVoice, script.ModCheckNoVoice)
	}
}

// axisTargets gathers the distinct targets of one side of an axis. bare is
// true when the tag appears without any argument.
func axisTargets(l script.Line, tag string, numeric bool) (targets []string, present, bare bool) {
	for _, m := range l.Modifiers {
		if m.Tag != tag {
			continue
		}
		present = true
		if len(m.Args) == 0 {
			bare = true
		}
		for _, a := range m.Args {
			key, ok := targetKey(a, numeric)
			if !ok {
				continue
			}
			if !slices.Contains(targets, key) {
				targets = append(targets, key)
			}
		}
	}
	return targets, present, bare
}

func targetKey(value string, numeric bool) (string, bool) {
	if !numeric {
		return strings.ToLower(value), true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n), true
}

// checkAxis enforces at most one positive and one negative target, and
// compares the two when both are present.
func checkAxis(l script.Line, axis targetAxis, r *Report) {
	numeric := modifierSpecs[axis.positive].rule == argsNumbers
	pos, posPresent, posBare := axisTargets(l, axis.positive, numeric)
	neg, negPresent, negBare := axisTargets(l, axis.negative, numeric)

	if len(pos) > 1 {
		r.errorf(l.Number, CodeAmbiguousTarget, "%s has %d targets (%s); at most one is supported", axis.positive, len(pos), strings.Join(pos, ", "))
	}
	if len(neg) > 1 {
		r.errorf(l.Number, CodeAmbiguousTarget, "%s has %d targets (%s); at most one is supported", axis.negative, len(neg), strings.Join(neg, ", "))
	}
	if !posPresent || !negPresent {
		return
	}

	if posBare && negBare {
		r.errorf(l.Number, CodeContradiction, "%s and %s without targets can never both hold", axis.positive, axis.negative)
		return
	}
	if len(pos) != 1 || len(neg) != 1 {
		return
	}
	if pos[0] == neg[0] {
		r.errorf(l.Number, CodeContradiction, "%s-%s and %s-%s can never both hold", axis.positive, pos[0], axis.negative, neg[0])
		return
	}
	r.issuef(l.Number, CodeRedundantTarget, "%s-%s is redundant next to %s-%s", axis.negative, neg[0], axis.positive, pos[0])
}
