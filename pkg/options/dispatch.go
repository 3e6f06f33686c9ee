package options

import (
	"context"
	"fmt"
	"strings"
)

// Handlers maps every choice of one menu to the code that runs it.
type Handlers[ID ~string] map[ID]func(ctx context.Context) error

// Exhaustive returns ErrUnhandledChoice naming every option of m without a
// handler. Narrative code calls it once when the handler table is built, so a
// missing branch fails up front instead of falling through a default case.
func Exhaustive[ID ~string](m *Menu[ID], h Handlers[ID]) error {
	var missing []string
	for _, id := range m.IDs() {
		if _, ok := h[id]; !ok {
			missing = append(missing, string(id))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnhandledChoice, strings.Join(missing, ", "))
	}
	return nil
}

// Dispatch runs the handler registered for id.
func Dispatch[ID ~string](ctx context.Context, id ID, h Handlers[ID]) error {
	fn, ok := h[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnhandledChoice, id)
	}
	return fn(ctx)
}

// PromptAndDispatch prompts m once and runs the matching handler.
func PromptAndDispatch[ID ~string](ctx context.Context, m *Menu[ID], p Prompter, h Handlers[ID]) (ID, error) {
	id, err := m.Prompt(ctx, p)
	if err != nil {
		return id, err
	}
	return id, Dispatch(ctx, id, h)
}
