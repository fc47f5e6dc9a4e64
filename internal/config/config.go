package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/adsim/internal/model"
)

// MonthLayout is the layout of period labels and the simulation start value.
const MonthLayout = "2006-01"

// Config holds all adsim configuration.
type Config struct {
	Simulation SimulationConfig        `toml:"simulation"`
	Revenue    RevenueConfig           `toml:"revenue"`
	Costs      CostsConfig             `toml:"costs"`
	Schedule   ScheduleConfig          `toml:"schedule"`
	Advisor    AdvisorConfig           `toml:"advisor"`
	Appearance AppearanceConfig        `toml:"appearance"`
	Rules      []RuleConfig            `toml:"rules,omitempty"`
	Presets    map[string]PresetConfig `toml:"presets,omitempty"`
}

// SimulationConfig holds the projection horizon.
type SimulationConfig struct {
	Periods    int    `toml:"periods"`
	Start      string `toml:"start,omitempty"` // "2006-01"; empty means the current month
	AutoAdjust bool   `toml:"auto_adjust"`
}

// RevenueConfig holds the revenue model.
type RevenueConfig struct {
	Base           float64 `toml:"base"`
	GrowthRate     float64 `toml:"growth_rate"`
	Seasonal       bool    `toml:"seasonal"`
	PeakMonths     []int   `toml:"peak_months"`
	PeakMultiplier float64 `toml:"peak_multiplier"`
}

// CostsConfig holds the per-period base costs.
type CostsConfig struct {
	BaseAdCost     float64 `toml:"base_ad_cost"`
	AdCostRatio    float64 `toml:"ad_cost_ratio"`
	ConsultingFee  float64 `toml:"consulting_fee"`
	ProductionCost float64 `toml:"production_cost"`
	OtherFixedCost float64 `toml:"other_fixed_cost"`
}

// ScheduleConfig holds scenario store settings.
type ScheduleConfig struct {
	Scenario     string  `toml:"scenario"`
	DBPath       string  `toml:"db_path,omitempty"`
	TargetBudget float64 `toml:"target_budget"`
	Goal         string  `toml:"goal"`
}

// AdvisorConfig holds external recommendation provider settings.
type AdvisorConfig struct {
	Provider       string `toml:"provider,omitempty"` // "openai" or "gemini"; empty acts as openai when a key is set
	APIKey         string `toml:"api_key,omitempty"`
	BaseURL        string `toml:"base_url,omitempty"`
	Model          string `toml:"model,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// RuleConfig is a user-defined diagnostic rule evaluated per period.
type RuleConfig struct {
	Name      string `toml:"name"`
	Condition string `toml:"condition"`
	Kind      string `toml:"kind,omitempty"`
	Impact    string `toml:"impact,omitempty"`
	Detail    string `toml:"detail,omitempty"`
}

// PresetConfig is a user-defined seasonal preset.
type PresetConfig struct {
	Description string    `toml:"description,omitempty"`
	Consulting  []float64 `toml:"consulting,omitempty"`
	Production  []float64 `toml:"production,omitempty"`
	Advertising []float64 `toml:"advertising,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Periods: 12,
		},
		Revenue: RevenueConfig{
			Base:           500,
			GrowthRate:     5,
			PeakMonths:     []int{12},
			PeakMultiplier: 1.5,
		},
		Costs: CostsConfig{
			BaseAdCost:     150,
			AdCostRatio:    30,
			ConsultingFee:  60,
			ProductionCost: 30,
			OtherFixedCost: 20,
		},
		Schedule: ScheduleConfig{
			Scenario:     "default",
			TargetBudget: 200,
			Goal:         string(model.GoalProfit),
		},
		Advisor: AdvisorConfig{
			TimeoutSeconds: 20,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adsim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adsim")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the scenario store.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "adsim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "adsim")
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path, returning defaults if it doesn't exist.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-supplied config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetAPIKey returns the advisor API key from env vars or config, in that order.
// Provider-specific variables are consulted only for the matching provider.
func GetAPIKey(cfg Config) string {
	if key := os.Getenv("ADSIM_API_KEY"); key != "" {
		return key
	}
	switch strings.ToLower(cfg.Advisor.Provider) {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
	case "openai", "":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
	}
	return cfg.Advisor.APIKey
}

// StorePath returns the scenario database path.
func StorePath(cfg Config) string {
	if cfg.Schedule.DBPath != "" {
		return cfg.Schedule.DBPath
	}
	return filepath.Join(DataDir(), "scenarios.db")
}

// AdvisorTimeout returns the provider call timeout.
func (c Config) AdvisorTimeout() time.Duration {
	if c.Advisor.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Advisor.TimeoutSeconds) * time.Second
}

// StartMonth parses the simulation start, defaulting to the month containing now.
func (c Config) StartMonth(now time.Time) (time.Time, error) {
	if c.Simulation.Start == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(MonthLayout, c.Simulation.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing simulation start %q: %w", c.Simulation.Start, err)
	}
	return t, nil
}

// Validate reports configuration values the projection cannot sensibly use.
// The projection itself accepts anything; this runs at the command boundary.
func (c Config) Validate() error {
	var errs []error
	if c.Simulation.Periods <= 0 {
		errs = append(errs, fmt.Errorf("simulation.periods must be positive, got %d", c.Simulation.Periods))
	}
	if _, err := c.StartMonth(time.Now()); err != nil {
		errs = append(errs, err)
	}
	if c.Revenue.Base < 0 {
		errs = append(errs, fmt.Errorf("revenue.base must not be negative, got %g", c.Revenue.Base))
	}
	if c.Revenue.GrowthRate <= -100 {
		errs = append(errs, fmt.Errorf("revenue.growth_rate must be above -100, got %g", c.Revenue.GrowthRate))
	}
	if c.Revenue.PeakMultiplier < 1 {
		errs = append(errs, fmt.Errorf("revenue.peak_multiplier must be at least 1, got %g", c.Revenue.PeakMultiplier))
	}
	for _, m := range c.Revenue.PeakMonths {
		if m < 1 || m > 12 {
			errs = append(errs, fmt.Errorf("revenue.peak_months: %d is not a calendar month", m))
		}
	}
	if c.Costs.AdCostRatio < 0 || c.Costs.AdCostRatio > 100 {
		errs = append(errs, fmt.Errorf("costs.ad_cost_ratio must be within 0-100, got %g", c.Costs.AdCostRatio))
	}
	for name, v := range map[string]float64{
		"costs.base_ad_cost":     c.Costs.BaseAdCost,
		"costs.consulting_fee":   c.Costs.ConsultingFee,
		"costs.production_cost":  c.Costs.ProductionCost,
		"costs.other_fixed_cost": c.Costs.OtherFixedCost,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", name, v))
		}
	}
	if c.Schedule.Goal != "" {
		if _, err := model.ParseGoal(c.Schedule.Goal); err != nil {
			errs = append(errs, fmt.Errorf("schedule.goal: %w", err))
		}
	}
	switch strings.ToLower(c.Advisor.Provider) {
	case "", "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("advisor.provider: unknown provider %q", c.Advisor.Provider))
	}
	if _, err := NewPresetTable(c.Presets); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ModelConfig converts the file configuration into a projection input.
func (c Config) ModelConfig(now time.Time) (model.Config, error) {
	start, err := c.StartMonth(now)
	if err != nil {
		return model.Config{}, err
	}
	peaks := make([]time.Month, 0, len(c.Revenue.PeakMonths))
	for _, m := range c.Revenue.PeakMonths {
		peaks = append(peaks, time.Month(m))
	}
	return model.Config{
		Periods:        c.Simulation.Periods,
		Start:          start,
		BaseRevenue:    c.Revenue.Base,
		GrowthRate:     c.Revenue.GrowthRate,
		Seasonal:       c.Revenue.Seasonal,
		PeakMonths:     peaks,
		PeakMultiplier: c.Revenue.PeakMultiplier,
		BaseAdCost:     c.Costs.BaseAdCost,
		AdCostRatio:    c.Costs.AdCostRatio,
		ConsultingFee:  c.Costs.ConsultingFee,
		ProductionCost: c.Costs.ProductionCost,
		OtherFixedCost: c.Costs.OtherFixedCost,
		AutoAdjust:     c.Simulation.AutoAdjust,
	}, nil
}
