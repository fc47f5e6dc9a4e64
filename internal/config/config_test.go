package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Simulation.Periods != 12 || cfg.Revenue.Base != 500 || cfg.Costs.BaseAdCost != 150 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[simulation]
periods = 24
start = "2025-04"

[revenue]
growth_rate = -2.5
seasonal = true
peak_months = [7, 8]

[[rules]]
name = "thin"
condition = "margin < 5.0"

[presets.summer]
advertising = [1, 1, 1, 1, 1, 1.5, 2, 2, 1, 1, 1, 1]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Simulation.Periods != 24 {
		t.Errorf("Periods = %d, want 24", cfg.Simulation.Periods)
	}
	if cfg.Revenue.Base != 500 {
		t.Errorf("Base = %g, want default 500", cfg.Revenue.Base)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Condition != "margin < 5.0" {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	sim, err := cfg.ModelConfig(time.Now())
	if err != nil {
		t.Fatalf("ModelConfig: %v", err)
	}
	if sim.Start.Year() != 2025 || sim.Start.Month() != time.April {
		t.Errorf("Start = %v, want 2025-04", sim.Start)
	}
	if !sim.IsPeak(time.August) || sim.IsPeak(time.December) {
		t.Errorf("PeakMonths = %v", sim.PeakMonths)
	}
	if sim.GrowthRate != -2.5 {
		t.Errorf("GrowthRate = %g", sim.GrowthRate)
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Costs.ConsultingFee = 75
	cfg.Advisor.Provider = "gemini"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Costs.ConsultingFee != 75 || got.Advisor.Provider != "gemini" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestValidate_ReportsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"periods", func(c *Config) { c.Simulation.Periods = 0 }},
		{"start", func(c *Config) { c.Simulation.Start = "April" }},
		{"growth", func(c *Config) { c.Revenue.GrowthRate = -100 }},
		{"peak multiplier", func(c *Config) { c.Revenue.PeakMultiplier = 0.5 }},
		{"peak month", func(c *Config) { c.Revenue.PeakMonths = []int{13} }},
		{"ratio", func(c *Config) { c.Costs.AdCostRatio = 120 }},
		{"negative cost", func(c *Config) { c.Costs.OtherFixedCost = -1 }},
		{"goal", func(c *Config) { c.Schedule.Goal = "world-domination" }},
		{"provider", func(c *Config) { c.Advisor.Provider = "carrier-pigeon" }},
		{"preset", func(c *Config) {
			c.Presets = map[string]PresetConfig{"bad": {Consulting: []float64{1}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}

func TestGetAPIKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Advisor.APIKey = "from-file"

	t.Setenv("ADSIM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	if got := GetAPIKey(cfg); got != "from-file" {
		t.Fatalf("GetAPIKey = %q, want from-file", got)
	}

	t.Setenv("OPENAI_API_KEY", "openai-env")
	if got := GetAPIKey(cfg); got != "openai-env" {
		t.Fatalf("GetAPIKey = %q, want openai-env", got)
	}

	cfg.Advisor.Provider = "gemini"
	if got := GetAPIKey(cfg); got != "from-file" {
		t.Fatalf("gemini provider should ignore OPENAI_API_KEY, got %q", got)
	}

	t.Setenv("ADSIM_API_KEY", "adsim-env")
	if got := GetAPIKey(cfg); got != "adsim-env" {
		t.Fatalf("GetAPIKey = %q, want adsim-env", got)
	}
}

func TestStartMonth_DefaultsToCurrentMonth(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)
	got, err := cfg.StartMonth(now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 1 || got.Month() != time.October || got.Year() != 2026 {
		t.Fatalf("StartMonth = %v, want 2026-10-01", got)
	}
}

func TestModelConfig_MapsSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.Periods = 6
	cfg.Simulation.Start = "2026-03"
	cfg.Simulation.AutoAdjust = true
	cfg.Costs.AdCostRatio = 12.5
	cfg.Revenue.PeakMonths = []int{11, 12}

	sim, err := cfg.ModelConfig(time.Now())
	if err != nil {
		t.Fatalf("ModelConfig: %v", err)
	}
	if sim.Periods != 6 || !sim.AutoAdjust {
		t.Errorf("Periods = %d, AutoAdjust = %v", sim.Periods, sim.AutoAdjust)
	}
	if sim.Start.Year() != 2026 || sim.Start.Month() != time.March {
		t.Errorf("Start = %v, want 2026-03", sim.Start)
	}
	if sim.AdCostRatio != 12.5 {
		t.Errorf("AdCostRatio = %g", sim.AdCostRatio)
	}
	if !sim.IsPeak(time.December) || sim.IsPeak(time.January) {
		t.Errorf("PeakMonths = %v", sim.PeakMonths)
	}

	cfg.Simulation.Start = "March"
	if _, err := cfg.ModelConfig(time.Now()); err == nil {
		t.Error("ModelConfig accepted an unparseable start month")
	}
}
