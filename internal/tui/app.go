// Package tui provides the interactive Bubble Tea dashboard for adsim.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/adsim/internal/advisor"
	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
	"github.com/theirongolddev/adsim/internal/rules"
	"github.com/theirongolddev/adsim/internal/store"
	"github.com/theirongolddev/adsim/internal/tui/components"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// AdviceMsg is sent when a recommendation request completes.
type AdviceMsg struct {
	Goal   model.Goal
	Result advisor.Result
	RunID  string
}

// ScheduleSavedMsg is sent when the scenario store write completes.
type ScheduleSavedMsg struct {
	Err error
}

// Options configures a dashboard session.
type Options struct {
	Config    config.Config
	Scenario  string
	Overrides model.CostOverrides
	Preset    string

	// Store persists schedule edits and recommendation runs; nil keeps
	// edits in memory.
	Store *store.Store
	// SaveConfig persists setup answers and toggles; nil skips persisting.
	SaveConfig func(config.Config) error

	Provider  advisor.Provider
	Rules     *rules.Engine
	Logger    *zap.Logger
	NeedSetup bool
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	cfg      config.Config
	sim      model.Config
	presets  *config.PresetTable
	scenario string

	st         *store.Store
	saveConfig func(config.Config) error
	provider   advisor.Provider
	rules      *rules.Engine
	logger     *zap.Logger
	now        func() time.Time

	// Projection state, recomputed on every schedule change
	overrides model.CostOverrides
	preset    string
	records   []model.ProjectionRecord
	totals    model.Totals
	findings  []model.Finding

	// Recommendations
	goal     model.Goal
	advice   *AdviceMsg
	advising bool
	spinner  spinner.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool

	// Per-tab state
	monthly monthlyState
	sched   scheduleState

	// Setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	storeTimeout     = 5 * time.Second
)

const (
	tabOverview = iota
	tabMonthly
	tabSchedule
	tabAdvice
)

// NewApp creates the dashboard model.
func NewApp(opts Options) (App, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sim, err := opts.Config.ModelConfig(now())
	if err != nil {
		return App{}, err
	}
	presets, err := config.NewPresetTable(opts.Config.Presets)
	if err != nil {
		return App{}, err
	}
	goal, err := model.ParseGoal(opts.Config.Schedule.Goal)
	if err != nil {
		goal = model.GoalProfit
	}
	scenario := opts.Scenario
	if scenario == "" {
		scenario = opts.Config.Schedule.Scenario
	}
	overrides := opts.Overrides
	if overrides == nil {
		overrides = model.CostOverrides{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		cfg:        opts.Config,
		sim:        sim,
		presets:    presets,
		scenario:   scenario,
		st:         opts.Store,
		saveConfig: opts.SaveConfig,
		provider:   opts.Provider,
		rules:      opts.Rules,
		logger:     logger,
		now:        now,
		overrides:  overrides,
		preset:     opts.Preset,
		goal:       goal,
		spinner:    sp,
		sched:      newScheduleState(),
		needSetup:  opts.NeedSetup,
	}
	if a.needSetup {
		vals := SetupValuesFrom(opts.Config)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	a.recompute()
	return a, nil
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.records = pipeline.Run(a.sim, a.overrides)
	a.totals = pipeline.Summarize(a.records)
	a.findings = pipeline.Diagnose(a.records)
	if a.rules != nil {
		a.findings = append(a.findings, a.rules.Evaluate(a.records)...)
	}

	if a.sched.cursor >= a.sim.Periods {
		a.sched.cursor = max(a.sim.Periods-1, 0)
	}
	if a.monthly.offset >= len(a.records) {
		a.monthly.offset = 0
	}
}

// setSchedule replaces the schedule, recomputes and persists it.
func (a *App) setSchedule(o model.CostOverrides, preset, status string) tea.Cmd {
	a.overrides = o
	if preset != "" {
		a.preset = preset
	}
	a.recompute()
	a.flash(status, false)
	return saveScheduleCmd(a.st, a.scenario, preset, o)
}

func (a *App) flash(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll(-1)
		case tea.MouseButtonWheelDown:
			a.scroll(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.activeTab == tabSchedule && a.sched.editing {
			return a.updateScheduleInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabMonthly:
			if handled := a.updateMonthly(key); handled {
				return a, nil
			}
		case tabSchedule:
			if m, cmd, handled := a.updateSchedule(key); handled {
				return m, cmd
			}
		case tabAdvice:
			if m, cmd, handled := a.updateAdvice(key); handled {
				return m, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if r := []rune(key); len(r) == 1 {
				if idx := components.TabIdxByKey(r[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case AdviceMsg:
		a.advising = false
		a.advice = &msg
		if msg.Result.Fallback != nil {
			a.flash("provider unavailable, showing local heuristics", true)
		} else {
			a.flash(fmt.Sprintf("%d recommendations from %s", len(msg.Result.Recommendations), msg.Result.Source), false)
		}
		return a, nil

	case ScheduleSavedMsg:
		if msg.Err != nil {
			a.logger.Warn("saving schedule", zap.String("scenario", a.scenario), zap.Error(msg.Err))
			a.flash("could not save schedule: "+msg.Err.Error(), true)
		}
		return a, nil

	case spinner.TickMsg:
		if a.advising {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup(*a.setupVals)
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup folds setup answers into the running session.
func (a *App) applySetup(vals SetupValues) {
	cfg := ApplySetup(a.cfg, vals)
	sim, err := cfg.ModelConfig(a.now())
	if err != nil {
		a.flash(err.Error(), true)
		return
	}
	a.cfg = cfg
	a.sim = sim
	if g, err := model.ParseGoal(cfg.Schedule.Goal); err == nil {
		a.goal = g
	}
	a.provider = advisor.NewProvider(cfg)
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()

	if a.saveConfig != nil {
		if err := a.saveConfig(cfg); err != nil {
			a.logger.Warn("saving config", zap.Error(err))
			a.flash("could not save config: "+err.Error(), true)
			return
		}
		a.flash("configuration saved", false)
	}
}

func (a *App) scroll(delta int) {
	switch a.activeTab {
	case tabMonthly:
		a.monthly.offset = clamp(a.monthly.offset+delta, 0, max(len(a.records)-1, 0))
	case tabSchedule:
		a.sched.cursor = clamp(a.sched.cursor+delta, 0, max(a.sim.Periods-1, 0))
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  adsim needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Navigation", []binding{
		{"o m s a", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move through periods"},
	}},
	{"Schedule", []binding{
		{"h l", "Select cost category"},
		{"Enter", "Edit the selected period"},
		{"B", "Set every period of the category"},
		{"d", "Remove the override"},
		{"[ ]", "Choose a seasonal preset"},
		{"p", "Apply the chosen preset"},
		{"R", "Reset all periods to the bases"},
		{"C", "Clear the schedule"},
		{"t", "Toggle auto-adjust"},
	}},
	{"Advice", []binding{
		{"g", "Cycle the goal"},
		{"Enter / r", "Request recommendations"},
	}},
	{"General", []binding{
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range helpSections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.scenario, a.status, a.statusErr)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabMonthly:
		content = a.renderMonthlyTab(cw, contentH)
	case tabSchedule:
		content = a.renderScheduleTab(cw, contentH)
	case tabAdvice:
		content = a.renderAdviceTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

// adviceCmd runs the recommendation request off the UI goroutine and records
// the run when a store is available.
func adviceCmd(records []model.ProjectionRecord, goal model.Goal, provider advisor.Provider,
	timeout time.Duration, logger *zap.Logger, st *store.Store, scenario string,
) tea.Cmd {
	return func() tea.Msg {
		res := advisor.Recommend(context.Background(), records, goal, provider,
			advisor.WithLogger(logger), advisor.WithTimeout(timeout))

		msg := AdviceMsg{Goal: goal, Result: res}
		if st == nil {
			return msg
		}

		run := store.Run{
			Scenario:        scenario,
			Goal:            goal,
			Source:          res.Source,
			Recommendations: len(res.Recommendations),
		}
		if res.Fallback != nil {
			run.FallbackReason = res.Fallback.Error()
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		id, err := st.RecordRun(ctx, run)
		if err != nil {
			logger.Warn("recording recommendation run", zap.Error(err))
		}
		msg.RunID = id
		return msg
	}
}

// saveScheduleCmd persists a schedule snapshot in the background.
func saveScheduleCmd(st *store.Store, scenario, preset string, o model.CostOverrides) tea.Cmd {
	if st == nil {
		return nil
	}
	snapshot := o.Clone()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if len(snapshot) == 0 {
			return ScheduleSavedMsg{Err: st.ClearOverrides(ctx, scenario)}
		}
		return ScheduleSavedMsg{Err: st.SaveOverrides(ctx, scenario, preset, snapshot)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
