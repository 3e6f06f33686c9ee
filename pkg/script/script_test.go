package script

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/story-script/pkg/conditionals"
)

const cabinScript = `// Intro chapter
jumpanchor start
narrator You're on a path in the woods.
hero We should go. /// checkvoice
linebreak 2
narrator At the end of the path is a cabin.

jumpanchor second
narrator Second section.
jumpto third
narrator You never see this.

jumpanchor third
narrator Third section. /// interrupt

jumpanchor bladeCheck
bladeswitch cabin

jumpanchor cabinBlade
narrator You have the blade.

jumpanchor cabinNoBlade
narrator You don't have the blade.
`

// recorder is a Printer that keeps what it was asked to print.
type recorder struct {
	out []string
}

func (r *recorder) PrintDialogue(speaker, text string, interrupted bool) {
	line := fmt.Sprintf("%s: %s", speaker, text)
	if interrupted {
		line += " [interrupted]"
	}
	r.out = append(r.out, line)
}

func (r *recorder) PrintBreaks(n int) {
	r.out = append(r.out, fmt.Sprintf("<break %d>", n))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestScript(t *testing.T, content string, opts Options) (*Script, *recorder) {
	t.Helper()
	f, err := ParseString("test.txt", content)
	require.NoError(t, err)

	rec := &recorder{}
	opts.Printer = rec
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	return New(f, opts), rec
}

func TestRunSection_StopsAtBlankLine(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.RunSectionAt("start"))

	assert.Equal(t, []string{
		"narrator: You're on a path in the woods.",
		"<break 2>",
		"narrator: At the end of the path is a cabin.",
	}, rec.out)
	// Past the blank line on 7.
	assert.Equal(t, 8, s.Cursor())
}

func TestRunSection_CheckVoiceActivePersona(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{Personas: NewPersonaSet("hero")})

	require.NoError(t, s.RunSectionAt("start"))
	assert.Contains(t, rec.out, "hero: We should go.")
}

func TestRunSection_ContinuesFromCursor(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.RunSectionAt("start"))
	rec.out = nil

	// The next section begins right after the blank line.
	require.NoError(t, s.RunSection())
	assert.Equal(t, []string{
		"narrator: Second section.",
		"narrator: Third section. [interrupted]",
	}, rec.out)
	assert.Equal(t, 16, s.Cursor())
}

func TestJumpToThenRunSection_MatchesRunSectionAt(t *testing.T) {
	anchors := []string{"start", "second", "third", "bladeCheck", "cabinBlade"}

	for _, anchor := range anchors {
		t.Run(anchor, func(t *testing.T) {
			a, recA := newTestScript(t, cabinScript, Options{})
			b, recB := newTestScript(t, cabinScript, Options{})

			require.NoError(t, a.JumpTo(anchor))
			require.NoError(t, a.RunSection())
			require.NoError(t, b.RunSectionAt(anchor))

			assert.Equal(t, recB.out, recA.out)
			assert.Equal(t, b.Cursor(), a.Cursor())
		})
	}
}

func TestRunSection_ExecutesInFileOrder(t *testing.T) {
	content := "jumpanchor s\nnarrator one\nnarrator two\nnarrator three\n\nnarrator four\n"
	s, rec := newTestScript(t, content, Options{})

	require.NoError(t, s.RunSectionAt("s"))
	assert.Equal(t, []string{"narrator: one", "narrator: two", "narrator: three"}, rec.out)
}

func TestRunSection_EndOfFile(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.RunSectionAt("cabinNoBlade"))
	assert.Equal(t, []string{"narrator: You don't have the blade."}, rec.out)
	assert.True(t, s.AtEnd())

	// Running at the end is a no-op.
	require.NoError(t, s.RunSection())
	assert.Len(t, rec.out, 1)
}

func TestCheckVoiceInactive_PrintsNothing(t *testing.T) {
	content := "jumpanchor start\nhero Hello /// checkvoice\n\n"
	s, rec := newTestScript(t, content, Options{Personas: NewPersonaSet()})

	require.NoError(t, s.RunSectionAt("start"))
	assert.Empty(t, rec.out)
	assert.Equal(t, 4, s.Cursor())
	assert.True(t, s.AtEnd())
}

func TestGate(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		active   []string
		expected bool
	}{
		{"no modifiers", "narrator Hi", nil, true},
		{"checkvoice speaker active", "hero Hi /// checkvoice", []string{"hero"}, true},
		{"checkvoice speaker absent", "hero Hi /// checkvoice", []string{"cold"}, false},
		{"checkvoice named all present", "narrator Hi /// checkvoice-hero-cold", []string{"hero", "cold"}, true},
		{"checkvoice named one missing", "narrator Hi /// checkvoice-hero-cold", []string{"hero"}, false},
		{"checknovoice absent", "narrator Hi /// checknovoice-smitten", []string{"hero"}, true},
		{"checknovoice present", "narrator Hi /// checknovoice-smitten", []string{"smitten"}, false},
		{"other modifiers ignored", "narrator Hi /// hasblade ifnum-2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gate{personas: NewPersonaSet(tt.active...)}
			assert.Equal(t, tt.expected, g.allow(ParseLine(1, tt.line)))
		})
	}
}

func TestJumpTo_UnknownAnchorIsFatal(t *testing.T) {
	content := "jumpanchor start\nnarrator before\njumpto nowhere\nnarrator after\n\n"
	s, rec := newTestScript(t, content, Options{})

	err := s.RunSectionAt("start")
	require.ErrorIs(t, err, ErrUnknownLabel)
	assert.Contains(t, err.Error(), "nowhere")
	assert.Equal(t, []string{"narrator: before"}, rec.out)

	assert.ErrorIs(t, s.JumpTo("missing"), ErrUnknownLabel)
	assert.ErrorIs(t, s.RunSectionAt("missing"), ErrUnknownLabel)
}

func TestJumpTo_LineNumbers(t *testing.T) {
	content := "jumpanchor start\njumpto 5\nnarrator skipped\n\nnarrator landed\n\n"
	s, rec := newTestScript(t, content, Options{})

	require.NoError(t, s.RunSectionAt("start"))
	assert.Equal(t, []string{"narrator: landed"}, rec.out)

	assert.ErrorIs(t, s.JumpToLine(0), ErrLineOutOfRange)
	assert.ErrorIs(t, s.JumpToLine(99), ErrLineOutOfRange)

	bad, _ := newTestScript(t, "jumpto 40\n", Options{})
	assert.ErrorIs(t, bad.RunSection(), ErrLineOutOfRange)
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	content := "jumpanchor start\nlinebreak lots\ngoblin Boo.\njumpto a b\nbladeswitch\nnarrator Still here.\n\n"
	s, rec := newTestScript(t, content, Options{})

	require.NoError(t, s.RunSectionAt("start"))
	assert.Equal(t, []string{"narrator: Still here."}, rec.out)

	diags := s.Diagnostics()
	require.Len(t, diags, 4)
	assert.Equal(t, 2, diags[0].Line)
	assert.Contains(t, diags[1].Message, "goblin")
	assert.Equal(t, 4, diags[2].Line)
	assert.Equal(t, 5, diags[3].Line)
}

func TestLineBreakDefault(t *testing.T) {
	s, rec := newTestScript(t, "linebreak\nlinebreak 3\n", Options{})
	require.NoError(t, s.RunSection())
	assert.Equal(t, []string{"<break 1>", "<break 3>"}, rec.out)
}

func TestBladeSwitch(t *testing.T) {
	withBlade, rec := newTestScript(t, cabinScript, Options{State: StaticState{Blade: true}})
	require.NoError(t, withBlade.RunSectionAt("bladeCheck"))
	assert.Equal(t, []string{"narrator: You have the blade."}, rec.out)
	assert.Equal(t, 22, withBlade.Cursor())

	without, rec := newTestScript(t, cabinScript, Options{})
	require.NoError(t, without.RunSectionAt("bladeCheck"))
	assert.Equal(t, []string{"narrator: You don't have the blade."}, rec.out)
}

const switchScript = `jumpanchor mood
moodswitch hill

jumpanchor hillHarsh
narrator Harsh.

jumpanchor hillSoft
narrator Soft.

jumpanchor claimCheck
claim end

jumpanchor endFirstVessel
narrator First.

jumpanchor endNotFirstVessel
narrator Not first.

jumpanchor source
sourceswitch door Hunted Cold

jumpanchor doorHunted
narrator Hunted door.

jumpanchor doorCold
narrator Cold door.

jumpanchor voice
voice2switch talk Hero Skeptic

jumpanchor talkHero
hero Hero talks.

jumpanchor talkSkeptic
skeptic Skeptic talks.
`

func TestStateSwitches(t *testing.T) {
	tests := []struct {
		name     string
		anchor   string
		state    StaticState
		expected string
	}{
		{"harsh", "mood", StaticState{Harsh: true}, "narrator: Harsh."},
		{"soft", "mood", StaticState{}, "narrator: Soft."},
		{"first vessel", "claimCheck", StaticState{FirstVessel: true}, "narrator: First."},
		{"not first vessel", "claimCheck", StaticState{}, "narrator: Not first."},
		{"source matches case-insensitively", "source", StaticState{SourceName: "cold"}, "narrator: Cold door."},
		{"voice slot 2", "voice", StaticState{Voice2: "skeptic"}, "skeptic: Skeptic talks."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestScript(t, switchScript, Options{State: tt.state})
			require.NoError(t, s.RunSectionAt(tt.anchor))
			assert.Equal(t, []string{tt.expected}, rec.out)
		})
	}
}

func TestSuffixSwitch_NoBranchIsFatal(t *testing.T) {
	s, _ := newTestScript(t, switchScript, Options{State: StaticState{SourceName: "smitten"}})
	assert.ErrorIs(t, s.RunSectionAt("source"), ErrNoSwitchTarget)
}

func TestNarrativeSectionHelpers(t *testing.T) {
	state := StaticState{Harsh: true, FirstVessel: false, SourceName: "hunted", Voice3: "hero"}
	s, rec := newTestScript(t, switchScript, Options{State: state})

	require.NoError(t, s.RunMoodSection("hill"))
	require.NoError(t, s.RunClaimSection("end"))
	require.NoError(t, s.RunSourceSection("door"))
	require.NoError(t, s.RunVoiceSection("talk", 3))

	assert.Equal(t, []string{
		"narrator: Harsh.",
		"narrator: Not first.",
		"narrator: Hunted door.",
		"hero: Hero talks.",
	}, rec.out)

	assert.ErrorIs(t, s.RunVoiceSection("talk", 2), ErrNoSwitchTarget)
	assert.ErrorIs(t, s.RunBladeSection("hill"), ErrUnknownLabel)
}

const choiceScript = `jumpanchor ask
switchjump reply

jumpanchor replyTrue
narrator Yes.

jumpanchor replyFalse
narrator No.

jumpanchor count
numswitchjump first second

jumpanchor first
narrator One.

jumpanchor second
narrator Two.

jumpanchor auto
numautojump first second

jumpanchor pick
stringswitchjump endingA endingB

jumpanchor autopick
stringautojump endingA endingB

jumpanchor endingA
narrator Ending A.

jumpanchor endingB
narrator Ending B.
`

func TestChoiceJumps(t *testing.T) {
	counter := conditionals.NewCounter(2)
	text := "A"
	s, rec := newTestScript(t, choiceScript, Options{
		Counter: counter,
		Text:    func() string { return text },
	})

	require.NoError(t, s.RunSectionWith("ask", Args{Cond: true}))
	require.NoError(t, s.RunSectionWith("ask", Args{Cond: false}))
	require.NoError(t, s.RunSectionWith("count", Args{Num: 1}))
	require.NoError(t, s.RunSectionAt("auto"))
	require.NoError(t, s.RunSectionWith("pick", Args{Str: "B"}))
	require.NoError(t, s.RunSectionAt("autopick"))

	// The counter is shared by reference.
	counter.Decrement()
	text = "B"
	require.NoError(t, s.RunSectionAt("auto"))
	require.NoError(t, s.RunSectionAt("autopick"))

	assert.Equal(t, []string{
		"narrator: Yes.",
		"narrator: No.",
		"narrator: One.",
		"narrator: Two.",
		"narrator: Ending B.",
		"narrator: Ending A.",
		"narrator: One.",
		"narrator: Ending B.",
	}, rec.out)
}

func TestChoiceJumps_OutOfRange(t *testing.T) {
	s, _ := newTestScript(t, choiceScript, Options{})

	assert.ErrorIs(t, s.RunSectionWith("count", Args{Num: 3}), ErrNoSwitchTarget)
	assert.ErrorIs(t, s.RunSectionWith("pick", Args{Str: "C"}), ErrNoSwitchTarget)
	// No counter bound.
	assert.ErrorIs(t, s.RunSectionAt("auto"), ErrNoSwitchTarget)
}

func TestRunConditionalSection(t *testing.T) {
	s, rec := newTestScript(t, choiceScript, Options{})
	asked := conditionals.NewCondition(false)

	require.NoError(t, s.RunConditionalSection("reply", asked))
	asked.Set()
	require.NoError(t, s.RunConditionalSection("reply", asked))
	require.NoError(t, s.RunConditionalSection("reply", conditionals.Not(asked)))

	assert.Equal(t, []string{"narrator: No.", "narrator: Yes.", "narrator: No."}, rec.out)
}

func TestDigress_RestoresCursor(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.JumpTo("second"))
	before := s.Cursor()

	require.NoError(t, s.Digress("cabinBlade"))
	assert.Equal(t, before, s.Cursor())
	assert.Equal(t, []string{"narrator: You have the blade."}, rec.out)

	require.NoError(t, s.RunSection())
	assert.Equal(t, "narrator: Second section.", rec.out[1])

	// The cursor is restored even when the digression fails.
	require.NoError(t, s.JumpTo("start"))
	assert.ErrorIs(t, s.Digress("missing"), ErrUnknownLabel)
	assert.Equal(t, 2, s.Cursor())
}

func TestRunThrough_IgnoresBlankLines(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.JumpTo("start"))
	require.NoError(t, s.RunThrough("second"))

	assert.Equal(t, []string{
		"narrator: You're on a path in the woods.",
		"<break 2>",
		"narrator: At the end of the path is a cabin.",
	}, rec.out)
	assert.Equal(t, 9, s.Cursor())

	require.NoError(t, s.RunThroughLine(9))
	assert.Equal(t, "narrator: Second section.", rec.out[3])

	assert.ErrorIs(t, s.RunThrough("missing"), ErrUnknownLabel)
	assert.ErrorIs(t, s.RunThroughLine(1000), ErrLineOutOfRange)
}

func TestRunNextLines(t *testing.T) {
	s, rec := newTestScript(t, cabinScript, Options{})

	require.NoError(t, s.JumpToLine(6))
	// Line 6 dialogue, 7 blank (inert), 8 anchor, 9 dialogue.
	require.NoError(t, s.RunNextLines(4))
	assert.Equal(t, []string{
		"narrator: At the end of the path is a cabin.",
		"narrator: Second section.",
	}, rec.out)
	assert.Equal(t, 10, s.Cursor())

	require.NoError(t, s.RunNextLines(1000))
	assert.True(t, s.AtEnd())
}

func TestIndependentCursors(t *testing.T) {
	f, err := ParseString("shared.txt", cabinScript)
	require.NoError(t, err)

	primary := New(f, Options{Logger: quietLogger()})
	secondary := New(f, Options{Logger: quietLogger()})

	require.NoError(t, primary.RunSectionAt("start"))
	assert.Equal(t, 8, primary.Cursor())
	assert.Equal(t, 1, secondary.Cursor())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter.txt")
	require.NoError(t, os.WriteFile(path, []byte(cabinScript), 0o644))

	s, err := Load(path, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, "chapter.txt", s.File().Name())
	assert.Equal(t, len(strings.Split(strings.TrimSuffix(cabinScript, "\n"), "\n")), s.File().Len())

	_, err = Load(filepath.Join(dir, "missing.txt"), Options{})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
