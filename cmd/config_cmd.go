package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/adsim/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := configPath()
	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Store:       %s\n", config.StorePath(cfg))
	fmt.Println()

	start := cfg.Simulation.Start
	if start == "" {
		start = "current month"
	}
	fmt.Println("  [Simulation]")
	fmt.Printf("    Periods:     %d\n", cfg.Simulation.Periods)
	fmt.Printf("    Start:       %s\n", start)
	fmt.Printf("    Auto-adjust: %v\n", cfg.Simulation.AutoAdjust)
	fmt.Println()

	fmt.Println("  [Revenue]")
	fmt.Printf("    Base:            %g\n", cfg.Revenue.Base)
	fmt.Printf("    Growth rate:     %g%% per month\n", cfg.Revenue.GrowthRate)
	fmt.Printf("    Seasonal:        %v\n", cfg.Revenue.Seasonal)
	fmt.Printf("    Peak months:     %s\n", joinInts(cfg.Revenue.PeakMonths))
	fmt.Printf("    Peak multiplier: %g\n", cfg.Revenue.PeakMultiplier)
	fmt.Println()

	fmt.Println("  [Costs]")
	fmt.Printf("    Base ad cost:    %g\n", cfg.Costs.BaseAdCost)
	fmt.Printf("    Ad cost ratio:   %g%% of revenue\n", cfg.Costs.AdCostRatio)
	fmt.Printf("    Consulting fee:  %g\n", cfg.Costs.ConsultingFee)
	fmt.Printf("    Production cost: %g\n", cfg.Costs.ProductionCost)
	fmt.Printf("    Other fixed:     %g\n", cfg.Costs.OtherFixedCost)
	fmt.Println()

	fmt.Println("  [Schedule]")
	fmt.Printf("    Scenario:      %s\n", cfg.Schedule.Scenario)
	fmt.Printf("    Target budget: %g\n", cfg.Schedule.TargetBudget)
	fmt.Printf("    Goal:          %s\n", cfg.Schedule.Goal)
	fmt.Println()

	fmt.Println("  [Advisor]")
	provider := cfg.Advisor.Provider
	if provider == "" {
		provider = "openai (default)"
	}
	fmt.Printf("    Provider: %s\n", provider)
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:  not configured (local heuristics only)")
	}
	if cfg.Advisor.Model != "" {
		fmt.Printf("    Model:    %s\n", cfg.Advisor.Model)
	}
	if cfg.Advisor.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.Advisor.BaseURL)
	}
	fmt.Printf("    Timeout:  %s\n", cfg.AdvisorTimeout())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if len(cfg.Rules) > 0 || len(cfg.Presets) > 0 {
		fmt.Println("  [Extensions]")
		fmt.Printf("    Rules:          %d\n", len(cfg.Rules))
		fmt.Printf("    Custom presets: %d\n", len(cfg.Presets))
		fmt.Println()
	}

	fmt.Println("  Run `adsim setup` to reconfigure.")
	return nil
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "none"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
