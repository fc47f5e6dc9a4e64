package components

import (
	"fmt"

	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForShare returns green/yellow/orange/red as a cost share of revenue
// rises toward and past 100%.
func ColorForShare(share float64) lipgloss.Color {
	t := theme.Active
	switch {
	case share >= 1:
		return t.Red
	case share >= 0.8:
		return t.Orange
	case share >= 0.6:
		return t.Yellow
	default:
		return t.Green
	}
}

// ShareBar renders a labeled bar for a fraction of revenue. Shares above 1
// fill the bar and keep their real percentage in the label.
func ShareBar(label string, share float64, labelW, barWidth int) string {
	t := theme.Active

	fill := min(max(share, 0), 1)
	color := ColorForShare(share)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(fill) +
		space +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", share*100))
}
