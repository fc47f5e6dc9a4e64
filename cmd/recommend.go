package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/adsim/internal/advisor"
	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagRecGoal  string
	flagLocal    bool
	flagHistory  int
	flagNoRecord bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Budget recommendations from the configured provider or local heuristics",
	Args:  cobra.NoArgs,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&flagRecGoal, "goal", "g", "", "profit-max, growth-focus or risk-min (default schedule.goal)")
	recommendCmd.Flags().BoolVar(&flagLocal, "local", false, "Skip the external provider and use local heuristics")
	recommendCmd.Flags().IntVar(&flagHistory, "history", 0, "Show the last N recommendation runs instead")
	recommendCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record this run in the scenario store")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if flagHistory > 0 {
		return printRunHistory(cmd, s, flagHistory)
	}

	goal, err := resolveGoal(flagRecGoal, s.cfg.Schedule.Goal)
	if err != nil {
		return err
	}
	p, err := s.project()
	if err != nil {
		return err
	}

	var provider advisor.Provider
	if !flagLocal {
		provider = advisor.NewProvider(s.cfg)
	}
	if provider != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Asking %s...\n", provider.Name())
	}

	res := advisor.Recommend(ctx, p.records, goal, provider,
		advisor.WithLogger(logger),
		advisor.WithTimeout(s.cfg.AdvisorTimeout()))

	var runID string
	if s.store != nil && !flagNoRecord {
		run := store.Run{
			Scenario:        s.scenario,
			Goal:            goal,
			Source:          res.Source,
			Recommendations: len(res.Recommendations),
		}
		if res.Fallback != nil {
			run.FallbackReason = res.Fallback.Error()
		}
		if runID, err = s.store.RecordRun(ctx, run); err != nil {
			logger.Warn("recording recommendation run", zap.Error(err))
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RECOMMENDATIONS  %s  %s", s.scenario, goal)))
	fmt.Println()
	if res.Fallback != nil {
		fmt.Printf("  Provider failed (%v); local heuristics used.\n\n", res.Fallback)
	}
	if len(res.Recommendations) == 0 {
		fmt.Println("  Nothing to change for this goal.")
		fmt.Println()
		return nil
	}

	fmt.Print(cli.RenderTable(cli.RecommendationTable("Source: "+res.Source, res.Recommendations)))
	if r := cli.RenderRationales(res.Recommendations); r != "" {
		fmt.Println()
		fmt.Print(r)
	}
	if runID != "" {
		fmt.Printf("\n  Run %s recorded.\n", runID)
	}
	fmt.Println()
	return nil
}

func printRunHistory(cmd *cobra.Command, s *session, limit int) error {
	if s.store == nil {
		return fmt.Errorf("scenario store unavailable")
	}
	runs, err := s.store.RecentRuns(cmd.Context(), s.scenario, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("\n  No recommendation runs for scenario %s.\n\n", s.scenario)
		return nil
	}

	t := cli.Table{
		Title:   "Recommendation runs: " + s.scenario,
		Headers: []string{"When", "Goal", "Source", "Count", "Fallback"},
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.Goal),
			r.Source,
			strconv.Itoa(r.Recommendations),
			r.FallbackReason,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	fmt.Println()
	return nil
}
