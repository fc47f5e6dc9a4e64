package cmd

import (
	"fmt"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"

	"github.com/spf13/cobra"
)

var flagNoDiagnostics bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Month-by-month projection with totals",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().BoolVar(&flagNoDiagnostics, "no-diagnostics", false, "Skip the diagnostics section")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.project()
	if err != nil {
		return err
	}
	if len(p.records) == 0 {
		fmt.Println("\n  Nothing to project.")
		return nil
	}

	first, last := p.records[0].Label, p.records[len(p.records)-1].Label
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTION  %s  %s to %s", s.scenario, first, last)))
	fmt.Println()
	fmt.Print(cli.RenderTable(projectionTable(p.records, p.totals)))

	revenue := make([]float64, len(p.records))
	profit := make([]float64, len(p.records))
	for i, r := range p.records {
		revenue[i] = float64(r.Revenue)
		profit[i] = float64(r.Profit)
	}
	fmt.Println()
	fmt.Printf("  Revenue  %s\n", cli.RenderSparkline(revenue))
	fmt.Printf("  Profit   %s\n", cli.RenderSparkline(profit))
	fmt.Printf("  Margin   %s total, mean ROAS %s, margin spread %.1fpp\n",
		cli.FormatPercent(p.totals.Margin), cli.FormatROAS(p.totals.MeanROAS), p.totals.MarginSD)
	if len(s.overrides) > 0 {
		note := fmt.Sprintf("%d schedule overrides", len(s.overrides))
		if s.preset != "" {
			note += ", preset " + s.preset
		}
		fmt.Printf("  Schedule %s\n", note)
	}

	if !flagNoDiagnostics {
		fmt.Println()
		fmt.Println(cli.RenderTitle("DIAGNOSTICS"))
		fmt.Print(cli.RenderFindings(p.findings))
	}
	fmt.Println()
	return nil
}

func projectionTable(records []model.ProjectionRecord, totals model.Totals) cli.Table {
	t := cli.Table{
		Headers: []string{"Period", "Revenue", "Ad cost", "Ad %", "Consult", "Product", "Other", "Total", "Profit", "Margin", "ROAS"},
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
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
		})
	}

	var fixed int64
	for _, r := range records {
		fixed += r.Consulting + r.Production + r.Other
	}
	adShare := 0.0
	if totals.Revenue != 0 {
		adShare = float64(totals.AdCost) / float64(totals.Revenue) * 100
	}
	t.Rows = append(t.Rows, []string{cli.SeparatorRow}, []string{
		"Total",
		cli.FormatNumber(totals.Revenue),
		cli.FormatNumber(totals.AdCost),
		cli.FormatPercent(adShare),
		"", "",
		cli.FormatNumber(fixed),
		cli.FormatNumber(totals.Cost),
		cli.FormatNumber(totals.Profit),
		cli.FormatPercent(totals.Margin),
		cli.FormatROAS(totals.ROAS),
	})
	return t
}
