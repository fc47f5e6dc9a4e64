package components

import (
	"strings"

	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left, the
// scenario and a transient message on the right.
func RenderStatusBar(width int, scenario, message string, isErr bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if isErr {
		msgStyle = msgStyle.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [q]uit")
	right := ""
	if message != "" {
		right = msgStyle.Render(message) + base.Render("  ")
	}
	right += base.Render("scenario ") + accent.Render(scenario) + base.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
