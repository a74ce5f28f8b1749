package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/ui/theme"
)

// ContentWidth returns the reading width used for artifact panels.
func ContentWidth(frameWidth int) int {
	// Leave room for border (2) + padding (4)
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border panel with a heading.
func Card(heading, content string, cw int) string {
	body := content
	if heading != "" {
		body = theme.Heading.Render(heading) + "\n\n" + content
	}
	return theme.Panel.Width(cw - 2).Render(body)
}

// ErrorCard renders a failure message with a recovery hint.
func ErrorCard(msg, hint string, cw int) string {
	body := theme.Bad.Render("Something went wrong") + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(msg)
	if hint != "" {
		body += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Width(cw - 2).
		Padding(1, 2).
		Render(body)
}
