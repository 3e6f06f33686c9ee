package console

import "github.com/charmbracelet/lipgloss"

var (
	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	interruptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	rejectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Italic(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	greyedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal
)
