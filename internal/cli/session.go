package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jwebster45206/story-script/internal/console"
	"github.com/jwebster45206/story-script/pkg/conditionals"
	"github.com/jwebster45206/story-script/pkg/options"
	"github.com/jwebster45206/story-script/pkg/script"
)

type playChoice string

const (
	choiceContinue playChoice = "continue"
	choiceBlade    playChoice = "blade"
	choiceMood     playChoice = "mood"
	choiceRestart  playChoice = "restart"
	choiceQuit     playChoice = "quit"
)

// Registry names of the session's shared conditions.
const (
	condBlade = "blade"
	condHarsh = "harsh"
	condFirst = "first"
	condEnded = "ended"
)

// gameState answers the switch opcodes from registry conditions, so a menu
// toggle is seen by the very next switch line.
type gameState struct {
	blade  *conditionals.Condition
	harsh  *conditionals.Condition
	first  *conditionals.Condition
	source string
	voices map[int]string
}

func newGameState(reg *conditionals.Registry, source string, voice2, voice3 string) *gameState {
	return &gameState{
		blade:  reg.Condition(condBlade),
		harsh:  reg.Condition(condHarsh),
		first:  reg.Condition(condFirst),
		source: source,
		voices: map[int]string{2: voice2, 3: voice3},
	}
}

func (g *gameState) HasBlade() bool        { return g.blade.Check() }
func (g *gameState) IsHarsh() bool         { return g.harsh.Check() }
func (g *gameState) IsFirstVessel() bool   { return g.first.Check() }
func (g *gameState) Source() string        { return g.source }
func (g *gameState) Voice(slot int) string { return g.voices[slot] }

// session plays one script section by section, offering a menu between
// sections.
type session struct {
	script   *script.Script
	start    string
	state    *gameState
	ended    *conditionals.Condition
	menu     *options.Menu[playChoice]
	handlers options.Handlers[playChoice]
	prompter options.Prompter
	logger   *slog.Logger

	advance bool
	done    bool
}

func newSession(s *script.Script, start string, reg *conditionals.Registry, state *gameState, p options.Prompter, logger *slog.Logger) (*session, error) {
	sess := &session{
		script:   s,
		start:    start,
		state:    state,
		ended:    reg.Condition(condEnded),
		prompter: p,
		logger:   logger,
	}

	cont := options.NewOption(choiceContinue, "Continue", options.When[playChoice](conditionals.Not(sess.ended)))
	sess.menu = options.NewMenu(
		cont,
		options.NewOption[playChoice](choiceBlade, bladeLabel(state.HasBlade())),
		options.NewOption[playChoice](choiceMood, moodLabel(state.IsHarsh())),
		options.NewOption(choiceRestart, "Start over",
			options.After(cont),
			options.Greyed[playChoice]("Finish the story before starting over.")),
		options.NewOption[playChoice](choiceQuit, "Quit"),
	)

	sess.handlers = options.Handlers[playChoice]{
		choiceContinue: func(context.Context) error {
			sess.advance = true
			return nil
		},
		choiceBlade: func(context.Context) error {
			sess.state.blade.SetTo(!sess.state.blade.Check())
			return sess.menu.SetDisplay(choiceBlade, bladeLabel(sess.state.HasBlade()))
		},
		choiceMood: func(context.Context) error {
			sess.state.harsh.SetTo(!sess.state.harsh.Check())
			return sess.menu.SetDisplay(choiceMood, moodLabel(sess.state.IsHarsh()))
		},
		choiceRestart: func(context.Context) error {
			return sess.restart()
		},
		choiceQuit: func(context.Context) error {
			sess.done = true
			return nil
		},
	}
	if err := options.Exhaustive(sess.menu, sess.handlers); err != nil {
		return nil, err
	}
	return sess, nil
}

func bladeLabel(has bool) string {
	if has {
		return "Drop the blade"
	}
	return "Take the blade"
}

func moodLabel(harsh bool) string {
	if harsh {
		return "Soften your tone"
	}
	return "Harden your tone"
}

func (s *session) restart() error {
	if s.start == "" {
		if err := s.script.JumpToLine(1); err != nil {
			return err
		}
	} else if err := s.script.JumpTo(s.start); err != nil {
		return err
	}
	s.ended.Reset()
	s.advance = true
	return nil
}

// Run plays until the player quits. A fatal script error ends the session.
func (s *session) Run(ctx context.Context) error {
	if err := s.restart(); err != nil {
		return err
	}

	for !s.done {
		if s.advance {
			s.advance = false
			if err := s.script.RunSection(); err != nil {
				return err
			}
			s.ended.SetTo(s.script.AtEnd())
			if err := s.menu.SetGreyedOut(choiceRestart, !s.ended.Check()); err != nil {
				return err
			}
		}

		id, err := options.PromptAndDispatch(ctx, s.menu, s.prompter, s.handlers)
		if errors.Is(err, console.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		s.logger.Debug("Menu choice handled", "choice", id)
	}
	return nil
}
