package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
	"github.com/theirongolddev/adsim/internal/store"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or edit the per-month cost schedule of a scenario",
	RunE:  runScheduleShow,
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Resolved consulting, production and advertising amounts per month",
	Args:  cobra.NoArgs,
	RunE:  runScheduleShow,
}

var scheduleApplyCmd = &cobra.Command{
	Use:   "apply PRESET",
	Short: "Scale the categories a seasonal preset defines by its monthly multipliers",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleApply,
}

var scheduleResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Write every month back to the base amounts",
	Args:  cobra.NoArgs,
	RunE:  runScheduleReset,
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every override",
	Args:  cobra.NoArgs,
	RunE:  runScheduleClear,
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set CATEGORY AMOUNT",
	Short: "Set one category to the same amount in every month",
	Args:  cobra.ExactArgs(2),
	RunE:  runScheduleSet,
}

var scheduleSetPeriodCmd = &cobra.Command{
	Use:   "set-period CATEGORY PERIOD AMOUNT",
	Short: "Set one category for one month (PERIOD is 1-based or YYYY-MM)",
	Args:  cobra.ExactArgs(3),
	RunE:  runScheduleSetPeriod,
}

var scheduleUnsetCmd = &cobra.Command{
	Use:   "unset CATEGORY PERIOD",
	Short: "Drop one month's override so it falls back to the base amount",
	Args:  cobra.ExactArgs(2),
	RunE:  runScheduleUnset,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScheduleList,
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved scenario and its schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleDelete,
}

func init() {
	scheduleCmd.AddCommand(
		scheduleShowCmd,
		scheduleApplyCmd,
		scheduleResetCmd,
		scheduleClearCmd,
		scheduleSetCmd,
		scheduleSetPeriodCmd,
		scheduleUnsetCmd,
		scheduleListCmd,
		scheduleDeleteCmd,
	)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleShow(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.project()
	if err != nil {
		return err
	}

	title := "SCHEDULE  " + s.scenario
	if s.preset != "" {
		title += "  (" + s.preset + ")"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(scheduleTable(s, p.records)))
	fmt.Println()
	fmt.Printf("  %d overrides. Amounts marked * differ from the base; advertising is the floor under the revenue ratio.\n\n",
		len(s.overrides))
	return nil
}

func scheduleTable(s *session, records []model.ProjectionRecord) cli.Table {
	bases := s.sim.Bases()
	t := cli.Table{Headers: []string{"Period"}}
	for _, c := range model.Categories {
		t.Headers = append(t.Headers, string(c))
	}
	t.Headers = append(t.Headers, "Ad cost")

	resolved := make([][]float64, len(model.Categories))
	for ci, c := range model.Categories {
		resolved[ci] = pipeline.ResolvedSchedule(s.overrides, c, bases.Of(c), s.sim.Periods)
	}

	for i := 0; i < s.sim.Periods; i++ {
		row := []string{periodLabel(s.sim, i)}
		for ci, c := range model.Categories {
			cell := cli.FormatAmount(resolved[ci][i])
			if _, ok := s.overrides.Get(c, i); ok {
				cell += "*"
			}
			row = append(row, cell)
		}
		ad := ""
		if i < len(records) {
			ad = cli.FormatNumber(records[i].AdCost)
		}
		row = append(row, ad)
		t.Rows = append(t.Rows, row)
	}
	t.Rows = append(t.Rows, []string{cli.SeparatorRow}, []string{
		"Base",
		cli.FormatAmount(bases.Consulting),
		cli.FormatAmount(bases.Production),
		cli.FormatAmount(bases.Advertising),
		"",
	})
	return t
}

func runScheduleApply(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	preset, err := s.presets.Lookup(args[0])
	if err != nil {
		return err
	}
	o := pipeline.ApplyPreset(s.overrides, preset, s.sim.Bases(), s.sim.Periods, s.sim.Start.Month())
	return commitSchedule(cmd, s, preset.Name, o, "Applied preset "+preset.Name)
}

func runScheduleReset(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	o := pipeline.ResetAll(s.sim.Periods, s.sim.Bases())
	return commitSchedule(cmd, s, "", o, "Every month reset to the base amounts")
}

func runScheduleClear(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	return commitSchedule(cmd, s, "", s.overrides.Clear(), "Schedule cleared")
}

func runScheduleSet(cmd *cobra.Command, args []string) error {
	cat, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	v, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	o := pipeline.BulkSet(s.overrides, cat, v, s.sim.Periods)
	return commitSchedule(cmd, s, s.preset, o,
		fmt.Sprintf("%s set to %s in all %d months", cat, cli.FormatAmount(v), s.sim.Periods))
}

func runScheduleSetPeriod(cmd *cobra.Command, args []string) error {
	cat, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	v, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	i, err := parsePeriod(args[1], s.sim)
	if err != nil {
		return err
	}
	o := pipeline.SetPeriod(s.overrides, cat, i, v)
	return commitSchedule(cmd, s, s.preset, o,
		fmt.Sprintf("%s %s set to %s", cat, periodLabel(s.sim, i), cli.FormatAmount(v)))
}

func runScheduleUnset(cmd *cobra.Command, args []string) error {
	cat, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	i, err := parsePeriod(args[1], s.sim)
	if err != nil {
		return err
	}
	if _, ok := s.overrides.Get(cat, i); !ok {
		fmt.Printf("  %s %s has no override.\n", cat, periodLabel(s.sim, i))
		return nil
	}
	o := s.overrides.Clone()
	o.Delete(cat, i)
	return commitSchedule(cmd, s, s.preset, o,
		fmt.Sprintf("%s %s back to base", cat, periodLabel(s.sim, i)))
}

// commitSchedule saves o and prints the resulting profit change.
func commitSchedule(cmd *cobra.Command, s *session, preset string, o model.CostOverrides, msg string) error {
	before, err := s.project()
	if err != nil {
		return err
	}
	if err := s.saveSchedule(cmd.Context(), preset, o); err != nil {
		return err
	}
	after, err := s.project()
	if err != nil {
		return err
	}

	fmt.Printf("  %s (scenario %s, %d overrides)\n", msg, s.scenario, len(o))
	fmt.Printf("  Profit %s -> %s (%s)\n",
		cli.FormatNumber(before.totals.Profit),
		cli.FormatNumber(after.totals.Profit),
		cli.FormatDelta(after.totals.Profit, before.totals.Profit))
	return nil
}

func runScheduleList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	scenarios, err := st.ListScenarios(cmd.Context())
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		fmt.Println("\n  No saved scenarios.")
		return nil
	}

	t := cli.Table{
		Title:   "Saved scenarios",
		Headers: []string{"Name", "Preset", "Overrides", "Updated"},
	}
	for _, sc := range scenarios {
		name := sc.Name
		if name == cfg.Schedule.Scenario {
			name += " (active)"
		}
		t.Rows = append(t.Rows, []string{
			name,
			sc.Preset,
			strconv.Itoa(sc.Overrides),
			sc.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	fmt.Println()
	return nil
}

func runScheduleDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteScenario(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted scenario %s\n", args[0])
	return nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(config.StorePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}
	return st, nil
}

// parseAmount accepts a non-negative amount, allowing thousands separators.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid amount", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative, got %s", s)
	}
	return v, nil
}

// parsePeriod resolves a 1-based month number or a YYYY-MM label to a
// 0-based period index within the projection.
func parsePeriod(s string, sim model.Config) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > sim.Periods {
			return 0, fmt.Errorf("period %d out of range 1-%d", n, sim.Periods)
		}
		return n - 1, nil
	}

	t, err := time.Parse(config.MonthLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a period number nor a YYYY-MM month", s)
	}
	i := (t.Year()-sim.Start.Year())*12 + int(t.Month()) - int(sim.Start.Month())
	if i < 0 || i >= sim.Periods {
		return 0, fmt.Errorf("%s is outside the projection (%s to %s)",
			s, periodLabel(sim, 0), periodLabel(sim, sim.Periods-1))
	}
	return i, nil
}

func periodLabel(sim model.Config, i int) string {
	return sim.Start.AddDate(0, i, 0).Format(pipeline.LabelLayout)
}
