package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/tui/components"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// monthlyState tracks the first visible row of the monthly table.
type monthlyState struct {
	offset int
}

var monthlyHeaders = []string{
	"Period", "Revenue", "Ad cost", "Ad %", "Consulting", "Production",
	"Other", "Total", "Profit", "Margin", "ROAS",
}

// updateMonthly handles monthly-tab keys, reporting whether key was consumed.
func (a *App) updateMonthly(key string) bool {
	last := max(len(a.records)-1, 0)
	switch key {
	case "j", "down":
		a.monthly.offset = clamp(a.monthly.offset+1, 0, last)
	case "k", "up":
		a.monthly.offset = clamp(a.monthly.offset-1, 0, last)
	case "g":
		a.monthly.offset = 0
	case "G":
		a.monthly.offset = last
	default:
		return false
	}
	return true
}

func monthlyRow(r model.ProjectionRecord) []string {
	return []string{
		r.Label,
		cli.FormatNumber(r.Revenue),
		cli.FormatNumber(r.AdCost),
		cli.FormatPercent(r.AdRatio),
		cli.FormatNumber(r.Consulting),
		cli.FormatNumber(r.Production),
		cli.FormatNumber(r.Other),
		cli.FormatNumber(r.TotalCost),
		cli.FormatNumber(r.Profit),
		cli.FormatPercent(r.Margin),
		cli.FormatROAS(r.ROAS),
	}
}

func (a App) renderMonthlyTable(visible int) string {
	t := theme.Active

	end := min(a.monthly.offset+visible, len(a.records))
	shown := a.records[a.monthly.offset:end]
	rows := make([][]string, len(shown))
	for i, r := range shown {
		rows[i] = monthlyRow(r)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)).
		Headers(monthlyHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := cellStyle
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(shown) {
				r := shown[row]
				switch {
				case col == 8 && r.Profit < 0:
					s = s.Foreground(t.Red)
				case col == 1 && a.sim.Seasonal && a.sim.IsPeak(r.Month):
					s = s.Foreground(t.Blue)
				}
			}
			return s
		})
	return tbl.Render()
}

func (a App) renderMonthlyTab(cw, h int) string {
	t := theme.Active
	var b strings.Builder

	labels := make([]string, len(a.records))
	revenue := make([]float64, len(a.records))
	profit := make([]float64, len(a.records))
	for i, r := range a.records {
		labels[i] = r.Label
		revenue[i] = float64(r.Revenue)
		profit[i] = float64(r.Profit)
	}

	// table chrome: top border, header, header rule, bottom border
	visible := max(h/2-4, 3)
	b.WriteString(a.renderMonthlyTable(visible))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	b.WriteString(dim.Render(fmt.Sprintf(" rows %d-%d of %d · j/k scroll",
		min(a.monthly.offset+1, len(a.records)), min(a.monthly.offset+visible, len(a.records)), len(a.records))))
	b.WriteString("\n")

	chartH := max(h/2-6, 4)
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Revenue",
			components.BarChart(revenue, shortLabels(labels), t.Blue, components.CardInnerWidth(cw), chartH), cw, false))
		return b.String()
	}
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Revenue",
			components.BarChart(revenue, shortLabels(labels), t.Blue, components.CardInnerWidth(halves[0]), chartH), halves[0], false),
		components.ContentCard("Profit",
			components.SignedBars(profit, labels, t.Green, components.CardInnerWidth(halves[1])), halves[1], false),
	}))
	return b.String()
}

// shortLabels turns "2025-03" into "03" for chart axes, keeping the year on
// the first period and on each January.
func shortLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		if len(l) != 7 {
			out[i] = l
			continue
		}
		if i == 0 || strings.HasSuffix(l, "-01") {
			out[i] = l[2:]
			continue
		}
		out[i] = l[5:]
	}
	return out
}
