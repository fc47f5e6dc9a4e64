package cmd

import (
	"fmt"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagBudget float64
	flagGoal   string
	flagDryRun bool
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Split a monthly budget between consulting and production by goal",
	Long: "Split a monthly budget between consulting and production and write the result\n" +
		"into every month of the scenario's schedule. Advertising overrides are kept.",
	Args: cobra.NoArgs,
	RunE: runAllocate,
}

func init() {
	allocateCmd.Flags().Float64VarP(&flagBudget, "budget", "b", 0, "Monthly budget (default schedule.target_budget)")
	allocateCmd.Flags().StringVarP(&flagGoal, "goal", "g", "", "profit-max, growth-focus or risk-min (default schedule.goal)")
	allocateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show the allocation without saving it")
	rootCmd.AddCommand(allocateCmd)
}

// resolveGoal picks the --goal flag, falling back to the configured goal.
func resolveGoal(flag, configured string) (model.Goal, error) {
	raw := flag
	if raw == "" {
		raw = configured
	}
	if raw == "" {
		return model.GoalProfit, nil
	}
	return model.ParseGoal(raw)
}

func runAllocate(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	goal, err := resolveGoal(flagGoal, s.cfg.Schedule.Goal)
	if err != nil {
		return err
	}
	budget := s.cfg.Schedule.TargetBudget
	if cmd.Flags().Changed("budget") {
		budget = flagBudget
	}
	if budget < 0 {
		return fmt.Errorf("budget must not be negative, got %g", budget)
	}

	bases := s.sim.Bases()
	a := pipeline.AllocationFor(budget, goal, bases.Consulting, bases.Production)
	o := s.overrides.Merge(pipeline.Allocate(budget, goal, bases.Consulting, bases.Production, s.sim.Periods))

	before, err := s.project()
	if err != nil {
		return err
	}
	after, err := s.projectWith(o)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ALLOCATION  %s  %s", cli.FormatAmount(budget), goal)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Base", "Allocated", "Share of budget"},
		Rows: [][]string{
			{"consulting", cli.FormatAmount(bases.Consulting), cli.FormatAmount(a.Consulting), budgetShare(a.Consulting, budget)},
			{"production", cli.FormatAmount(bases.Production), cli.FormatAmount(a.Production), budgetShare(a.Production, budget)},
			{cli.SeparatorRow},
			{"unallocated", "", cli.FormatAmount(budget - a.Consulting - a.Production), budgetShare(budget-a.Consulting-a.Production, budget)},
		},
	}))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Current", "Allocated", "Change"},
		Rows: [][]string{
			{"Total cost", cli.FormatNumber(before.totals.Cost), cli.FormatNumber(after.totals.Cost), cli.FormatDelta(after.totals.Cost, before.totals.Cost)},
			{"Profit", cli.FormatNumber(before.totals.Profit), cli.FormatNumber(after.totals.Profit), cli.FormatDelta(after.totals.Profit, before.totals.Profit)},
			{"Margin", cli.FormatPercent(before.totals.Margin), cli.FormatPercent(after.totals.Margin), ""},
		},
	}))
	fmt.Println()

	if flagDryRun {
		fmt.Println("  Dry run, schedule not saved.")
		fmt.Println()
		return nil
	}
	if err := s.saveSchedule(cmd.Context(), s.preset, o); err != nil {
		return err
	}
	fmt.Printf("  Saved to scenario %s (%d overrides)\n\n", s.scenario, len(o))
	return nil
}

func budgetShare(part, budget float64) string {
	if budget <= 0 {
		return "-"
	}
	return cli.FormatPercent(part / budget * 100)
}
