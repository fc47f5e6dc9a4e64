package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/tui/components"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func profitTone(v int64) components.Tone {
	if v < 0 {
		return components.ToneNegative
	}
	return components.TonePositive
}

func (a App) renderOverviewTab(cw int) string {
	tot := a.totals
	var b strings.Builder

	first, last := "", ""
	if n := len(a.records); n > 0 {
		first, last = a.records[0].Label, a.records[n-1].Label
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Revenue", Value: cli.FormatNumber(tot.Revenue), Note: fmt.Sprintf("%s to %s", first, last)},
		{Label: "Total Cost", Value: cli.FormatNumber(tot.Cost), Note: "ad " + cli.FormatNumber(tot.AdCost)},
		{Label: "Profit", Value: cli.FormatNumber(tot.Profit), Note: "margin " + cli.FormatPercent(tot.Margin), Tone: profitTone(tot.Profit)},
		{Label: "ROAS", Value: cli.FormatROAS(tot.ROAS), Note: "period mean " + cli.FormatROAS(tot.MeanROAS)},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	shares := a.renderShares(halves[0])
	trend := a.renderTrend(halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Cost Structure", shares, cw, false))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Trend", a.renderTrend(cw), cw, false))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Cost Structure", shares, halves[0], false),
			components.ContentCard("Trend", trend, halves[1], false),
		}))
	}
	b.WriteString("\n")

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Diagnostics (%d)", len(a.findings)),
		renderFindings(a.findings, components.CardInnerWidth(cw)),
		cw, len(a.findings) > 0,
	))
	return b.String()
}

func (a App) renderShares(outer int) string {
	tot := a.totals
	inner := components.CardInnerWidth(outer)
	labelW := 11
	barW := max(inner-labelW-7, 8)

	share := func(part int64) float64 {
		if tot.Revenue <= 0 {
			return 0
		}
		return float64(part) / float64(tot.Revenue)
	}

	var fixed int64
	for _, r := range a.records {
		fixed += r.Consulting + r.Production + r.Other
	}

	lines := []string{
		components.ShareBar("Total cost", share(tot.Cost), labelW, barW),
		components.ShareBar("Advertising", share(tot.AdCost), labelW, barW),
		components.ShareBar("Fixed", share(fixed), labelW, barW),
	}

	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	mode := "fixed bases"
	if a.sim.AutoAdjust {
		mode = "auto-adjusted to revenue"
	}
	lines = append(lines, "", muted.Render(fmt.Sprintf("%d periods · margin σ %.1fpp · costs %s",
		tot.PeriodCount, tot.MarginSD, mode)))
	return strings.Join(lines, "\n")
}

func (a App) renderTrend(outer int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	revenue := make([]float64, len(a.records))
	profit := make([]float64, len(a.records))
	roas := make([]float64, len(a.records))
	for i, r := range a.records {
		revenue[i] = float64(r.Revenue)
		profit[i] = float64(r.Profit)
		roas[i] = r.ROAS
	}

	return strings.Join([]string{
		label.Render("Revenue ") + components.Sparkline(revenue, t.Blue),
		label.Render("Profit  ") + components.Sparkline(profit, t.Green),
		label.Render("ROAS    ") + components.Sparkline(roas, t.Accent),
	}, "\n")
}

func renderFindings(findings []model.Finding, width int) string {
	t := theme.Active
	if len(findings) == 0 {
		return lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("No issues found.")
	}

	detail := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	for _, f := range findings {
		color, icon := t.Yellow, "~"
		switch f.Kind {
		case model.KindWarning:
			color, icon = t.Red, "!"
		case model.KindSuggestion:
			color, icon = t.Blue, "*"
		}
		head := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).
			Render(icon + " " + f.Title)
		lines = append(lines,
			head+dim.Render(" ("+string(f.Impact)+" impact)"),
			detail.Render("  "+truncStr(f.Detail, width-2)))
	}
	return strings.Join(lines, "\n")
}
