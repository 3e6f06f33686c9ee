package options

import "github.com/jwebster45206/story-script/pkg/conditionals"

// DefaultRejection is shown when a greyed-out option is chosen and the option
// has no message of its own.
const DefaultRejection = "You can't do that right now."

// Option is one selectable menu entry. Options are always handled by pointer:
// the pick history lives on the Option, so two menus holding the same *Option
// share whether it has been picked.
type Option[ID ~string] struct {
	id           ID
	display      string
	condition    conditionals.Checker
	prerequisite *Option[ID]
	greyedOut    bool
	rejection    string
	picked       int
}

// OptionSetting configures an Option at construction.
type OptionSetting[ID ~string] func(*Option[ID])

// NewOption builds an option that is visible unless a setting says otherwise.
func NewOption[ID ~string](id ID, display string, settings ...OptionSetting[ID]) *Option[ID] {
	o := &Option[ID]{id: id, display: display}
	for _, s := range settings {
		s(o)
	}
	return o
}

// When makes visibility follow c. The Checker is held by reference.
func When[ID ~string](c conditionals.Checker) OptionSetting[ID] {
	return func(o *Option[ID]) { o.condition = c }
}

// After hides the option until prereq has been picked at least once.
func After[ID ~string](prereq *Option[ID]) OptionSetting[ID] {
	return func(o *Option[ID]) { o.prerequisite = prereq }
}

// Greyed shows the option but refuses it with message when chosen.
func Greyed[ID ~string](message string) OptionSetting[ID] {
	return func(o *Option[ID]) {
		o.greyedOut = true
		o.rejection = message
	}
}

func (o *Option[ID]) ID() ID {
	return o.id
}

func (o *Option[ID]) Display() string {
	return o.display
}

func (o *Option[ID]) GreyedOut() bool {
	return o.greyedOut
}

// Rejection is the message shown when a greyed-out option is chosen.
func (o *Option[ID]) Rejection() string {
	if o.rejection == "" {
		return DefaultRejection
	}
	return o.rejection
}

// Picked reports whether the option has been chosen at least once.
func (o *Option[ID]) Picked() bool {
	return o.picked > 0
}

// TimesPicked is the number of successful selections.
func (o *Option[ID]) TimesPicked() int {
	return o.picked
}

// Visible reports whether the option should be offered right now.
func (o *Option[ID]) Visible() bool {
	if o.prerequisite != nil && !o.prerequisite.Picked() {
		return false
	}
	if o.condition == nil {
		return true
	}
	return o.condition.Check()
}
