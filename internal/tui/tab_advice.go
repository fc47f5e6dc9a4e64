package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/tui/components"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateAdvice handles advice-tab keys.
func (a App) updateAdvice(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "g":
		for i, g := range model.Goals {
			if g == a.goal {
				a.goal = model.Goals[(i+1)%len(model.Goals)]
				break
			}
		}
		return a, nil, true
	case "enter", "r":
		if a.advising {
			return a, nil, true
		}
		a.advising = true
		a.flash("", false)
		return a, tea.Batch(
			a.spinner.Tick,
			adviceCmd(a.records, a.goal, a.provider, a.cfg.AdvisorTimeout(), a.logger, a.st, a.scenario),
		), true
	}
	return a, nil, false
}

func (a App) providerName() string {
	if a.provider == nil {
		return "local heuristics"
	}
	return a.provider.Name()
}

func (a App) renderAdviceTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var goals []string
	for _, g := range model.Goals {
		if g == a.goal {
			goals = append(goals, accent.Render("● "+string(g)))
		} else {
			goals = append(goals, muted.Render("○ "+string(g)))
		}
	}
	head := strings.Join([]string{
		muted.Render("Goal  ") + strings.Join(goals, muted.Render("   ")),
		muted.Render("Provider  ") + text.Render(a.providerName()),
		muted.Render("g cycle goal · Enter request recommendations"),
	}, "\n")

	var b strings.Builder
	b.WriteString(components.ContentCard("Recommendations", head, cw, false))
	b.WriteString("\n")

	switch {
	case a.advising:
		b.WriteString(components.ContentCard("", a.spinner.View()+muted.Render(" Asking "+a.providerName()+"..."), cw, true))
	case a.advice == nil:
		b.WriteString(components.ContentCard("", muted.Render("No recommendations yet."), cw, false))
	default:
		b.WriteString(a.renderAdviceResult(cw))
	}
	return b.String()
}

func (a App) renderAdviceResult(cw int) string {
	t := theme.Active
	res := a.advice.Result
	inner := components.CardInnerWidth(cw)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	effect := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var lines []string
	if res.Fallback != nil {
		lines = append(lines, warn.Render(truncStr("Provider failed ("+res.Fallback.Error()+"); local heuristics used.", inner)), "")
	}
	if len(res.Recommendations) == 0 {
		lines = append(lines, muted.Render("Nothing to change for this goal."))
	}
	for _, r := range res.Recommendations {
		lines = append(lines,
			head.Render(r.Period)+text.Render("  "+r.Action),
			muted.Render("  "+r.Current+" → ")+text.Render(r.Recommended)+muted.Render("  ")+effect.Render(r.ExpectedEffect),
		)
		if r.Rationale != "" {
			lines = append(lines, muted.Render("  "+truncStr(r.Rationale, inner-2)))
		}
	}

	title := fmt.Sprintf("%s · %s", a.advice.Goal, res.Source)
	if a.advice.RunID != "" {
		title += " · run " + a.advice.RunID[:min(8, len(a.advice.RunID))]
	}
	return components.ContentCard(title, strings.Join(lines, "\n"), cw, false)
}
