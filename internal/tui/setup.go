package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form. Numeric fields stay
// strings so the form can validate them as typed.
type SetupValues struct {
	BaseRevenue string
	GrowthRate  string
	Periods     string
	AdBudget    string
	Goal        string
	Provider    string
	APIKey      string
	Theme       string
}

// SetupValuesFrom seeds the form from an existing configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BaseRevenue: formatFloat(cfg.Revenue.Base),
		GrowthRate:  formatFloat(cfg.Revenue.GrowthRate),
		Periods:     strconv.Itoa(cfg.Simulation.Periods),
		AdBudget:    formatFloat(cfg.Costs.BaseAdCost),
		Goal:        cfg.Schedule.Goal,
		Provider:    cfg.Advisor.Provider,
		Theme:       cfg.Appearance.Theme,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateAmount(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateRate(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= -100 {
		return fmt.Errorf("must be above -100")
	}
	return nil
}

func validatePeriods(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 120 {
		return fmt.Errorf("enter 1 to 120 months")
	}
	return nil
}

// NewSetupForm builds the setup wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	goalOpts := make([]huh.Option[string], len(model.Goals))
	for i, g := range model.Goals {
		goalOpts[i] = huh.NewOption(g.Describe(), string(g))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to adsim").
				Description("Project monthly revenue against advertising and fixed costs.\nA few questions and you're set."),
			huh.NewInput().
				Title("Base monthly revenue").
				Value(&vals.BaseRevenue).
				Validate(validateAmount),
			huh.NewInput().
				Title("Monthly growth rate (%)").
				Value(&vals.GrowthRate).
				Validate(validateRate),
			huh.NewInput().
				Title("Projection horizon (months)").
				Value(&vals.Periods).
				Validate(validatePeriods),
			huh.NewInput().
				Title("Base advertising budget per month").
				Value(&vals.AdBudget).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Recommendation goal").
				Options(goalOpts...).
				Value(&vals.Goal),
			huh.NewSelect[string]().
				Title("Recommendation provider").
				Description("Without a provider, recommendations come from local heuristics.").
				Options(
					huh.NewOption("Default (OpenAI when a key is set, else local)", ""),
					huh.NewOption("OpenAI-compatible", "openai"),
					huh.NewOption("Google Gemini", "gemini"),
				).
				Value(&vals.Provider),
			huh.NewInput().
				Title("Provider API key").
				Description("Leave blank to use ADSIM_API_KEY or the provider's env var.").
				Password(true).
				Value(&vals.APIKey),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

// ApplySetup writes the form answers into cfg. Values that fail to parse
// leave the existing setting alone.
func ApplySetup(cfg config.Config, vals SetupValues) config.Config {
	if v, err := strconv.ParseFloat(strings.TrimSpace(vals.BaseRevenue), 64); err == nil {
		cfg.Revenue.Base = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(vals.GrowthRate), 64); err == nil {
		cfg.Revenue.GrowthRate = v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(vals.Periods)); err == nil && n > 0 {
		cfg.Simulation.Periods = n
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(vals.AdBudget), 64); err == nil {
		cfg.Costs.BaseAdCost = v
	}
	if vals.Goal != "" {
		cfg.Schedule.Goal = vals.Goal
	}
	cfg.Advisor.Provider = vals.Provider
	if key := strings.TrimSpace(vals.APIKey); key != "" {
		cfg.Advisor.APIKey = key
	}
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
	}
	return cfg
}
