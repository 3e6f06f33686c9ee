package options

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jwebster45206/story-script/pkg/conditionals"
)

var (
	ErrUnknownOption    = errors.New("unknown option")
	ErrNoVisibleOptions = errors.New("no visible options")
	ErrUnhandledChoice  = errors.New("unhandled choice")
)

// Choice is what a Prompter sees of an option.
type Choice struct {
	ID        string
	Display   string
	GreyedOut bool
}

// Prompter is the blocking console collaborator. Choose returns the index of
// the selected entry in choices; Reject tells the player why a greyed-out
// entry cannot be taken.
type Prompter interface {
	Choose(ctx context.Context, choices []Choice) (int, error)
	Reject(message string)
}

// Menu is an ordered, mutable collection of options. Menus are built once per
// conversation and progressively revealed: handlers hide, grey out or relabel
// entries as the scene advances.
type Menu[ID ~string] struct {
	options []*Option[ID]
	byID    map[ID]*Option[ID]
}

// NewMenu returns a menu holding opts in order.
func NewMenu[ID ~string](opts ...*Option[ID]) *Menu[ID] {
	m := &Menu[ID]{byID: make(map[ID]*Option[ID])}
	for _, o := range opts {
		m.Add(o)
	}
	return m
}

// Add appends o, replacing any existing option with the same id in place.
func (m *Menu[ID]) Add(o *Option[ID]) *Option[ID] {
	if existing, ok := m.byID[o.id]; ok {
		i := slices.Index(m.options, existing)
		m.options[i] = o
	} else {
		m.options = append(m.options, o)
	}
	m.byID[o.id] = o
	return o
}

// Get returns the option with the given id.
func (m *Menu[ID]) Get(id ID) (*Option[ID], error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, id)
	}
	return o, nil
}

// Options returns every option in menu order, visible or not.
func (m *Menu[ID]) Options() []*Option[ID] {
	return slices.Clone(m.options)
}

// IDs returns every option id in menu order.
func (m *Menu[ID]) IDs() []ID {
	ids := make([]ID, 0, len(m.options))
	for _, o := range m.options {
		ids = append(ids, o.id)
	}
	return ids
}

// Visible returns the options currently on offer, in menu order.
func (m *Menu[ID]) Visible() []*Option[ID] {
	var out []*Option[ID]
	for _, o := range m.options {
		if o.Visible() {
			out = append(out, o)
		}
	}
	return out
}

// HasVisible reports whether at least one option is on offer.
func (m *Menu[ID]) HasVisible() bool {
	for _, o := range m.options {
		if o.Visible() {
			return true
		}
	}
	return false
}

// HasBeenPicked reports whether id was chosen in an earlier pass.
func (m *Menu[ID]) HasBeenPicked(id ID) bool {
	o, ok := m.byID[id]
	return ok && o.Picked()
}

// SetCondition replaces the visibility predicate of id.
func (m *Menu[ID]) SetCondition(id ID, c conditionals.Checker) error {
	o, err := m.Get(id)
	if err != nil {
		return err
	}
	o.condition = c
	return nil
}

// SetConditionTo pins the visibility of id to a fixed value.
func (m *Menu[ID]) SetConditionTo(id ID, visible bool) error {
	return m.SetCondition(id, conditionals.Const(visible))
}

func (m *Menu[ID]) SetGreyedOut(id ID, greyed bool) error {
	o, err := m.Get(id)
	if err != nil {
		return err
	}
	o.greyedOut = greyed
	return nil
}

// SetRejection changes the message shown when greyed-out id is chosen.
func (m *Menu[ID]) SetRejection(id ID, message string) error {
	o, err := m.Get(id)
	if err != nil {
		return err
	}
	o.rejection = message
	return nil
}

func (m *Menu[ID]) SetDisplay(id ID, display string) error {
	o, err := m.Get(id)
	if err != nil {
		return err
	}
	o.display = display
	return nil
}

// Pick records a selection of id without prompting. Greyed-out or hidden
// options cannot be picked.
func (m *Menu[ID]) Pick(id ID) error {
	o, err := m.Get(id)
	if err != nil {
		return err
	}
	if !o.Visible() {
		return fmt.Errorf("option %s is not visible", id)
	}
	if o.greyedOut {
		return fmt.Errorf("option %s is greyed out", id)
	}
	o.picked++
	return nil
}

// Prompt offers the visible options through p until a selectable one is
// chosen, records the pick and returns its id. Choosing a greyed-out entry
// shows its rejection and prompts again.
func (m *Menu[ID]) Prompt(ctx context.Context, p Prompter) (ID, error) {
	var zero ID
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		visible := m.Visible()
		if len(visible) == 0 {
			return zero, ErrNoVisibleOptions
		}

		choices := make([]Choice, len(visible))
		for i, o := range visible {
			choices[i] = Choice{ID: string(o.id), Display: o.display, GreyedOut: o.greyedOut}
		}

		idx, err := p.Choose(ctx, choices)
		if err != nil {
			return zero, fmt.Errorf("prompt failed: %w", err)
		}
		if idx < 0 || idx >= len(visible) {
			return zero, fmt.Errorf("prompt returned index %d of %d choices", idx, len(visible))
		}

		chosen := visible[idx]
		if chosen.greyedOut {
			p.Reject(chosen.Rejection())
			continue
		}

		chosen.picked++
		return chosen.id, nil
	}
}
