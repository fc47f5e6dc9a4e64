package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List seasonal presets, or show one preset's monthly multipliers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPresets,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show one preset's monthly multipliers",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresets,
}

func init() {
	presetsCmd.AddCommand(presetsShowCmd)
	rootCmd.AddCommand(presetsCmd)
}

func presetTable() (*config.PresetTable, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return config.NewPresetTable(cfg.Presets)
}

func runPresets(_ *cobra.Command, args []string) error {
	table, err := presetTable()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		p, err := table.Lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(cli.RenderTitle("PRESET  " + p.Name))
		if p.Description != "" {
			fmt.Printf("\n  %s\n", p.Description)
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(multiplierTable(p)))
		fmt.Println()
		return nil
	}

	t := cli.Table{
		Title:   "Seasonal presets",
		Headers: []string{"Name", "Categories", "Description"},
	}
	for _, name := range table.Names() {
		p, err := table.Lookup(name)
		if err != nil {
			return err
		}
		var cats string
		for _, c := range model.Categories {
			if p.Multipliers(c) == nil {
				continue
			}
			if cats != "" {
				cats += ", "
			}
			cats += string(c)
		}
		t.Rows = append(t.Rows, []string{name, cats, p.Description})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	fmt.Println()
	fmt.Println("  Run `adsim presets show NAME` for the monthly multipliers, `adsim schedule apply NAME` to use one.")
	fmt.Println()
	return nil
}

func multiplierTable(p model.SeasonalPreset) cli.Table {
	t := cli.Table{Headers: []string{"Month"}}
	for _, c := range model.Categories {
		t.Headers = append(t.Headers, string(c))
	}
	for m := time.January; m <= time.December; m++ {
		row := []string{m.String()[:3]}
		for _, c := range model.Categories {
			mult := p.Multipliers(c)
			if mult == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, cli.FormatMultiplier(mult[m-1]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
