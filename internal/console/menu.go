package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/story-script/pkg/options"
)

// menuModel is the bubbletea model behind a single blocking prompt. It
// quits as soon as the player picks an entry or asks to leave.
type menuModel struct {
	choices    []options.Choice
	cursor     int
	chosen     int
	quit       bool
	status     string
	keys       keyMap
	transcript func() string
	copy       func(string) error
}

func newMenuModel(choices []options.Choice, transcript func() string, copyFn func(string) error) menuModel {
	return menuModel{
		choices:    choices,
		chosen:     -1,
		keys:       defaultKeyMap(),
		transcript: transcript,
		copy:       copyFn,
	}
}

func (m menuModel) done() bool {
	return m.quit || m.chosen >= 0
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quit = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Select):
		m.chosen = m.cursor
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Number):
		n := int(keyMsg.String()[0] - '0')
		if n > len(m.choices) {
			m.status = fmt.Sprintf("There is no option %d.", n)
			return m, nil
		}
		m.cursor = n - 1
		m.chosen = m.cursor
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Copy):
		if err := m.copy(m.transcript()); err != nil {
			m.status = fmt.Sprintf("Could not copy transcript: %v", err)
		} else {
			m.status = "Transcript copied to clipboard."
		}
	}

	return m, nil
}

func (m menuModel) View() string {
	if m.done() {
		return ""
	}

	var b strings.Builder
	for i, c := range m.choices {
		label := fmt.Sprintf("%d. %s", i+1, c.Display)
		switch {
		case i == m.cursor:
			b.WriteString(selectedChoiceStyle.Render("▶ " + label))
		case c.GreyedOut:
			b.WriteString(greyedChoiceStyle.Render("  " + label))
		default:
			b.WriteString(choiceStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render(helpLine(m.keys)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func helpLine(k keyMap) string {
	parts := make([]string, 0, len(k.help()))
	for _, b := range k.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
