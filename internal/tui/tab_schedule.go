package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
	"github.com/theirongolddev/adsim/internal/tui/components"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type editTarget int

const (
	editPeriod editTarget = iota
	editBulk
)

// scheduleState tracks the schedule tab cursor and the amount editor.
type scheduleState struct {
	cursor    int // period
	category  int // index into model.Categories
	editing   bool
	target    editTarget
	input     textinput.Model
	presetIdx int
}

func newScheduleState() scheduleState {
	return scheduleState{input: newAmountInput()}
}

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 16
	ti.Placeholder = "amount"
	return ti
}

func (a App) selectedCategory() model.Category {
	return model.Categories[a.sched.category]
}

func (a App) selectedPreset() string {
	names := a.presets.Names()
	if len(names) == 0 {
		return ""
	}
	return names[a.sched.presetIdx%len(names)]
}

// updateSchedule handles schedule-tab keys outside the editor.
func (a App) updateSchedule(key string) (tea.Model, tea.Cmd, bool) {
	cat := a.selectedCategory()
	lastPeriod := max(a.sim.Periods-1, 0)

	switch key {
	case "j", "down":
		a.sched.cursor = clamp(a.sched.cursor+1, 0, lastPeriod)
	case "k", "up":
		a.sched.cursor = clamp(a.sched.cursor-1, 0, lastPeriod)
	case "g":
		a.sched.cursor = 0
	case "G":
		a.sched.cursor = lastPeriod
	case "h":
		a.sched.category = (a.sched.category - 1 + len(model.Categories)) % len(model.Categories)
	case "l":
		a.sched.category = (a.sched.category + 1) % len(model.Categories)

	case "enter", "B":
		a.sched.editing = true
		a.sched.target = editPeriod
		current := a.overrides.Resolve(cat, a.sched.cursor, a.sim.Bases().Of(cat))
		if key == "B" {
			a.sched.target = editBulk
			current = a.sim.Bases().Of(cat)
		}
		a.sched.input = newAmountInput()
		a.sched.input.SetValue(formatFloat(current))
		a.sched.input.CursorEnd()
		return a, a.sched.input.Focus(), true

	case "d", "delete", "backspace":
		if _, ok := a.overrides.Get(cat, a.sched.cursor); !ok {
			return a, nil, true
		}
		o := a.overrides.Clone()
		o.Delete(cat, a.sched.cursor)
		cmd := a.setSchedule(o, "", fmt.Sprintf("%s %s back to base", cat, a.periodLabel(a.sched.cursor)))
		return a, cmd, true

	case "[":
		if n := len(a.presets.Names()); n > 0 {
			a.sched.presetIdx = (a.sched.presetIdx - 1 + n) % n
		}
	case "]":
		if n := len(a.presets.Names()); n > 0 {
			a.sched.presetIdx = (a.sched.presetIdx + 1) % n
		}
	case "p":
		name := a.selectedPreset()
		preset, err := a.presets.Lookup(name)
		if err != nil {
			a.flash(err.Error(), true)
			return a, nil, true
		}
		o := pipeline.ApplyPreset(a.overrides, preset, a.sim.Bases(), a.sim.Periods, a.sim.Start.Month())
		return a, a.setSchedule(o, name, "applied preset "+name), true

	case "R":
		o := pipeline.ResetAll(a.sim.Periods, a.sim.Bases())
		return a, a.setSchedule(o, "", "every period reset to base"), true
	case "C":
		return a, a.setSchedule(a.overrides.Clear(), "", "schedule cleared"), true

	case "t":
		a.sim.AutoAdjust = !a.sim.AutoAdjust
		a.cfg.Simulation.AutoAdjust = a.sim.AutoAdjust
		a.recompute()
		state := "off"
		if a.sim.AutoAdjust {
			state = "on"
		}
		a.flash("auto-adjust "+state, false)
		if a.saveConfig != nil {
			if err := a.saveConfig(a.cfg); err != nil {
				a.logger.Warn("saving config", zap.Error(err))
				a.flash("could not save config: "+err.Error(), true)
			}
		}

	default:
		return a, nil, false
	}
	return a, nil, true
}

// updateScheduleInput handles keys while the amount editor is open.
func (a App) updateScheduleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.sched.editing = false
		return a, nil
	case "enter":
		raw := strings.ReplaceAll(strings.TrimSpace(a.sched.input.Value()), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			a.flash(fmt.Sprintf("%q is not a valid amount", a.sched.input.Value()), true)
			return a, nil
		}
		a.sched.editing = false

		cat := a.selectedCategory()
		if a.sched.target == editBulk {
			o := pipeline.BulkSet(a.overrides, cat, v, a.sim.Periods)
			return a, a.setSchedule(o, "", fmt.Sprintf("%s set to %s in every period", cat, cli.FormatAmount(v)))
		}
		o := pipeline.SetPeriod(a.overrides, cat, a.sched.cursor, v)
		return a, a.setSchedule(o, "", fmt.Sprintf("%s %s set to %s", cat, a.periodLabel(a.sched.cursor), cli.FormatAmount(v)))
	}

	var cmd tea.Cmd
	a.sched.input, cmd = a.sched.input.Update(msg)
	return a, cmd
}

func (a App) periodLabel(i int) string {
	if i >= 0 && i < len(a.records) {
		return a.records[i].Label
	}
	return strconv.Itoa(i)
}

func (a App) renderScheduleTab(cw, h int) string {
	t := theme.Active
	bases := a.sim.Bases()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selRowStyle := rowStyle.Background(t.SurfaceHover)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const labelW, colW = 9, 13
	var b strings.Builder

	header := fmt.Sprintf(" %-*s", labelW, "Period")
	for i, cat := range model.Categories {
		name := string(cat)
		if i == a.sched.category {
			name = "▸" + name
		}
		header += fmt.Sprintf("%*s", colW, name)
	}
	header += fmt.Sprintf("%*s", colW, "Ad cost")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	visible := max(h-10, 3)
	start := max(a.sched.cursor-visible+1, 0)
	end := min(start+visible, a.sim.Periods)
	for i := start; i < end; i++ {
		style := rowStyle
		if i == a.sched.cursor {
			style = selRowStyle
		}
		line := style.Render(fmt.Sprintf(" %-*s", labelW, a.periodLabel(i)))
		for c, cat := range model.Categories {
			v, overridden := a.overrides.Get(cat, i)
			if !overridden {
				v = bases.Of(cat)
			}
			cell := style
			if overridden {
				cell = cell.Foreground(t.Orange)
			}
			if i == a.sched.cursor && c == a.sched.category {
				cell = cell.Foreground(t.AccentBright).Bold(true).Underline(true)
			}
			line += cell.Render(fmt.Sprintf("%*s", colW, cli.FormatAmount(v)))
		}
		ad := ""
		if i < len(a.records) {
			ad = cli.FormatNumber(a.records[i].AdCost)
		}
		line += style.Render(fmt.Sprintf("%*s", colW, ad))
		b.WriteString(line)
		b.WriteString("\n")
	}

	table := components.ContentCard(
		fmt.Sprintf("Cost Schedule (%d overrides)", len(a.overrides)),
		strings.TrimRight(b.String(), "\n"),
		cw, true,
	)

	var side []string
	name := a.selectedPreset()
	presetLine := muted.Render("Preset  ") + headerStyle.Render("◂ "+name+" ▸")
	if a.preset != "" {
		presetLine += muted.Render("   last applied: " + a.preset)
	}
	side = append(side, presetLine)
	if p, err := a.presets.Lookup(name); err == nil && p.Description != "" {
		side = append(side, muted.Render("        "+p.Description))
	}

	mode := "off (fixed bases)"
	if a.sim.AutoAdjust {
		mode = "on (scaled by revenue / base revenue)"
	}
	side = append(side, muted.Render("Auto-adjust  ")+rowStyle.Render(mode))

	if a.sched.editing {
		what := fmt.Sprintf("%s for %s", a.selectedCategory(), a.periodLabel(a.sched.cursor))
		if a.sched.target == editBulk {
			what = fmt.Sprintf("%s for every period", a.selectedCategory())
		}
		side = append(side, "", muted.Render("New "+what+": ")+a.sched.input.View(),
			muted.Render("Enter to save · Esc to cancel"))
	} else {
		side = append(side, "", muted.Render("j/k period · h/l category · Enter edit · B all periods · d remove · [ ] p preset · R reset · C clear · t auto-adjust"))
	}

	return table + "\n" + components.ContentCard("", strings.Join(side, "\n"), cw, false)
}
