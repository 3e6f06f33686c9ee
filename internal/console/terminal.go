// Package console is the terminal collaborator for scripts and menus: it
// prints dialogue and runs the blocking choice prompt.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/story-script/pkg/options"
	"github.com/jwebster45206/story-script/pkg/script"
)

// ErrQuit is returned by Choose when the player leaves the prompt.
var ErrQuit = errors.New("player quit")

// Speakers printed as bare prose, without a name prefix.
var proseSpeakers = map[string]bool{
	"narrator":         true,
	"narratorprincess": true,
}

var speakerNames = map[string]string{
	"p1":     "You",
	"p2":     "You",
	"player": "You",
}

// Terminal prints dialogue and prompts for choices. It implements
// script.Printer and options.Prompter.
type Terminal struct {
	out    io.Writer
	in     io.Reader
	width  int
	logger *slog.Logger
	title  cases.Caser

	transcript strings.Builder
	copy       func(string) error
	teaOptions []tea.ProgramOption
}

var (
	_ script.Printer   = (*Terminal)(nil)
	_ options.Prompter = (*Terminal)(nil)
)

// NewTerminal creates a terminal writing to out and reading keys from in.
// width is the wrap width for dialogue.
func NewTerminal(out io.Writer, in io.Reader, width int, logger *slog.Logger) *Terminal {
	return &Terminal{
		out:    out,
		in:     in,
		width:  width,
		logger: logger,
		title:  cases.Title(language.English),
		copy:   clipboard.WriteAll,
	}
}

// SpeakerName is how a speaker tag is shown to the player.
func (t *Terminal) SpeakerName(tag string) string {
	tag = strings.ToLower(tag)
	if name, ok := speakerNames[tag]; ok {
		return name
	}
	return t.title.String(tag)
}

func (t *Terminal) PrintDialogue(speaker, text string, interrupted bool) {
	speaker = strings.ToLower(speaker)

	var line, plain string
	if proseSpeakers[speaker] {
		line = narratorStyle.Render(text)
		plain = text
	} else {
		name := t.SpeakerName(speaker)
		line = speakerStyle.Render(name+":") + " " + text
		plain = name + ": " + text
	}
	if interrupted {
		line += interruptStyle.Render(" --")
		plain += " --"
	}

	t.write(wordwrap.String(line, t.width) + "\n")
	t.record(plain)
}

func (t *Terminal) PrintBreaks(n int) {
	t.write(strings.Repeat("\n", n))
	for i := 0; i < n; i++ {
		t.record("")
	}
}

// Choose runs the menu prompt until the player picks an entry.
func (t *Terminal) Choose(ctx context.Context, choices []options.Choice) (int, error) {
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	}, t.teaOptions...)

	final, err := tea.NewProgram(newMenuModel(choices, t.Transcript, t.copy), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("menu prompt failed: %w", err)
	}

	m, ok := final.(menuModel)
	if !ok {
		return 0, fmt.Errorf("menu prompt returned unexpected model %T", final)
	}
	if m.quit {
		return 0, ErrQuit
	}

	t.logger.Debug("player chose", "choice", choices[m.chosen].ID)
	t.write(promptStyle.Render("> "+choices[m.chosen].Display) + "\n\n")
	t.record("> " + choices[m.chosen].Display)
	return m.chosen, nil
}

func (t *Terminal) Reject(message string) {
	t.write(wordwrap.String(rejectionStyle.Render(message), t.width) + "\n\n")
	t.record(message)
}

// Transcript is everything printed so far, without styling.
func (t *Terminal) Transcript() string {
	return t.transcript.String()
}

func (t *Terminal) record(line string) {
	t.transcript.WriteString(line)
	t.transcript.WriteString("\n")
}

func (t *Terminal) write(s string) {
	if _, err := io.WriteString(t.out, s); err != nil {
		t.logger.Warn("Failed to write to terminal", "error", err)
	}
}
