package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adsim/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	negativeStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// SeparatorRow marks a horizontal rule between table rows.
const SeparatorRow = "---"

// Table represents a bordered text table for CLI output.
// The first column is left-aligned, the rest right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func columnWidths(t Table, numCols int) []int {
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	grow := func(i int, s string) {
		if w := lipgloss.Width(s); i < numCols && w > widths[i] {
			widths[i] = w
		}
	}
	for i, h := range t.Headers {
		grow(i, h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			grow(i, cell)
		}
	}
	return widths
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return dimStyle.Render(b.String()) + "\n"
}

func pad(cell string, w int, left bool) string {
	gap := w - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if left {
		return " " + cell + strings.Repeat(" ", gap) + " "
	}
	return " " + strings.Repeat(" ", gap) + cell + " "
}

// RenderTable renders a bordered table with headers and rows.
// Cells starting with "-" followed by a digit render in red.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}
	widths := columnWidths(t, numCols)
	bar := dimStyle.Render("│")

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(bar)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i == 0)))
			b.WriteString(bar)
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}

		b.WriteString(bar)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style := valueStyle
			if isNegative(cell) {
				style = negativeStyle
			}
			b.WriteString(style.Render(pad(cell, widths[i], i == 0)))
			b.WriteString(bar)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func isNegative(cell string) bool {
	return len(cell) > 1 && cell[0] == '-' && cell[1] >= '0' && cell[1] <= '9'
}

// RenderSparkline generates a unicode block sparkline scaled between the
// series minimum and maximum, so negative values render too.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

var findingIcons = map[model.FindingKind]string{
	model.KindWarning:    "!",
	model.KindCaution:    "~",
	model.KindSuggestion: "*",
}

// RenderFindings renders diagnostic findings as an indented list.
func RenderFindings(findings []model.Finding) string {
	if len(findings) == 0 {
		return "  " + mutedStyle.Render("No issues found.") + "\n"
	}

	var b strings.Builder
	for _, f := range findings {
		color := ColorYellow
		switch f.Kind {
		case model.KindWarning:
			color = ColorRed
		case model.KindSuggestion:
			color = ColorBlue
		}
		head := lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(fmt.Sprintf("%s %s", findingIcons[f.Kind], f.Title))
		b.WriteString(fmt.Sprintf("  %s %s\n", head, dimStyle.Render("("+string(f.Impact)+" impact)")))
		b.WriteString("    " + valueStyle.Render(f.Detail) + "\n")
	}
	return b.String()
}

// RecommendationTable lays out recommendations for RenderTable.
func RecommendationTable(title string, recs []model.Recommendation) Table {
	t := Table{
		Title:   title,
		Headers: []string{"Period", "Action", "Current", "Recommended", "Effect"},
	}
	for _, r := range recs {
		t.Rows = append(t.Rows, []string{r.Period, r.Action, r.Current, r.Recommended, r.ExpectedEffect})
	}
	return t
}

// RenderRationales lists the rationale of each recommendation.
func RenderRationales(recs []model.Recommendation) string {
	var b strings.Builder
	for _, r := range recs {
		if r.Rationale == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render(r.Period+":"), r.Rationale))
	}
	return b.String()
}
