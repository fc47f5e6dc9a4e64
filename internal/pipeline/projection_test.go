package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/adsim/internal/model"
)

func baseConfig() model.Config {
	return model.Config{
		Periods:        12,
		Start:          time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		BaseRevenue:    500,
		GrowthRate:     5,
		PeakMonths:     []time.Month{time.December},
		PeakMultiplier: 1.5,
		BaseAdCost:     150,
		AdCostRatio:    30,
		ConsultingFee:  60,
		ProductionCost: 30,
		OtherFixedCost: 20,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestRun_ROAS(t *testing.T) {
	tests := []struct {
		revenue, ad float64
		want        float64
	}{
		{500, 150, 333},
		{1000, 200, 500},
		{300, 300, 100},
		{800, 160, 500},
		{325, 200, 162},
		{35, 8, 438},
		{1, 8, 12},
	}
	for _, tt := range tests {
		cfg := model.Config{
			Periods:     1,
			Start:       time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			BaseRevenue: tt.revenue,
			BaseAdCost:  tt.ad,
		}
		recs := Run(cfg, nil)
		if len(recs) != 1 {
			t.Fatalf("Run returned %d records, want 1", len(recs))
		}
		if recs[0].ROAS != tt.want {
			t.Errorf("ROAS(%g/%g) = %g, want %g", tt.revenue, tt.ad, recs[0].ROAS, tt.want)
		}
	}
}

func TestRun_GrowthCompounding(t *testing.T) {
	recs := Run(baseConfig(), nil)
	if len(recs) != 12 {
		t.Fatalf("Run returned %d records, want 12", len(recs))
	}
	approx(t, "period 0 revenue", recs[0].Raw.Revenue, 500)
	approx(t, "period 1 revenue", recs[1].Raw.Revenue, 525)
	approx(t, "period 2 revenue", recs[2].Raw.Revenue, 551.25)
	if recs[2].Revenue != 551 {
		t.Fatalf("period 2 truncated revenue = %d, want 551", recs[2].Revenue)
	}
}

func TestRun_Identities(t *testing.T) {
	cfg := baseConfig()
	cfg.Seasonal = true
	cfg.AutoAdjust = true
	overrides := model.CostOverrides{}
	overrides.Set(model.Consulting, 3, 0)
	overrides.Set(model.Advertising, 5, 400)

	for _, r := range Run(cfg, overrides) {
		raw := r.Raw
		if raw.Total != raw.AdCost+raw.Consulting+raw.Production+raw.Other {
			t.Fatalf("%s: total %v != sum of costs", r.Label, raw.Total)
		}
		if raw.Profit != raw.Revenue-raw.Total {
			t.Fatalf("%s: profit %v != revenue - total", r.Label, raw.Profit)
		}
	}
}

func TestRun_TruncatedIdentitiesWithWholeInputs(t *testing.T) {
	cfg := baseConfig()
	cfg.GrowthRate = 0
	cfg.AdCostRatio = 10

	for _, r := range Run(cfg, nil) {
		if r.TotalCost != r.AdCost+r.Consulting+r.Production+r.Other {
			t.Fatalf("%s: TotalCost %d != %d", r.Label, r.TotalCost, r.AdCost+r.Consulting+r.Production+r.Other)
		}
		if r.Profit != r.Revenue-r.TotalCost {
			t.Fatalf("%s: Profit %d != %d", r.Label, r.Profit, r.Revenue-r.TotalCost)
		}
		if r.TotalCost != 260 || r.Profit != 240 {
			t.Fatalf("%s: TotalCost=%d Profit=%d, want 260/240", r.Label, r.TotalCost, r.Profit)
		}
		if r.Margin != 48 || r.AdRatio != 30 {
			t.Fatalf("%s: Margin=%g AdRatio=%g, want 48/30", r.Label, r.Margin, r.AdRatio)
		}
	}
}

func TestRun_AdvertisingFloor(t *testing.T) {
	cfg := baseConfig()
	cfg.GrowthRate = 20
	cfg.Periods = 24

	for _, r := range Run(cfg, nil) {
		target := r.Raw.Revenue * cfg.AdCostRatio / 100
		if r.Raw.AdCost < cfg.BaseAdCost {
			t.Fatalf("%s: ad %v below minimum %v", r.Label, r.Raw.AdCost, cfg.BaseAdCost)
		}
		if r.Raw.AdCost < target {
			t.Fatalf("%s: ad %v below revenue target %v", r.Label, r.Raw.AdCost, target)
		}
	}

	// 500 × 30% = 150 equals the minimum; later periods exceed it.
	recs := Run(cfg, nil)
	approx(t, "period 0 ad", recs[0].Raw.AdCost, 150)
	approx(t, "period 1 ad", recs[1].Raw.AdCost, 180)
}

func TestRun_AdvertisingOverrideRaisesFloor(t *testing.T) {
	cfg := baseConfig()
	cfg.GrowthRate = 0
	o := model.CostOverrides{}
	o.Set(model.Advertising, 0, 300)
	o.Set(model.Advertising, 1, 0)

	recs := Run(cfg, o)
	approx(t, "overridden ad", recs[0].Raw.AdCost, 300)
	// A zero override is honoured, so the revenue ratio takes over.
	approx(t, "zero override ad", recs[1].Raw.AdCost, 150)
	approx(t, "base ad", recs[2].Raw.AdCost, 150)
}

func TestRun_SeasonalPeak(t *testing.T) {
	cfg := baseConfig()
	cfg.GrowthRate = 0
	cfg.Seasonal = true
	cfg.Periods = 3
	cfg.Start = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	recs := Run(cfg, nil)
	wantLabels := []string{"2025-11", "2025-12", "2026-01"}
	wantRevenue := []int64{500, 750, 500}
	for i, r := range recs {
		if r.Label != wantLabels[i] {
			t.Errorf("period %d label = %q, want %q", i, r.Label, wantLabels[i])
		}
		if r.Revenue != wantRevenue[i] {
			t.Errorf("period %d revenue = %d, want %d", i, r.Revenue, wantRevenue[i])
		}
	}

	cfg.Seasonal = false
	if got := Run(cfg, nil)[1].Revenue; got != 500 {
		t.Fatalf("non-seasonal December revenue = %d, want 500", got)
	}
}

func TestRun_AutoAdjust(t *testing.T) {
	cfg := baseConfig()
	cfg.GrowthRate = 0
	cfg.AutoAdjust = true
	cfg.Periods = 1

	r := Run(cfg, nil)[0]
	approx(t, "consulting", r.Raw.Consulting, 72)
	approx(t, "production", r.Raw.Production, 36)
	if r.Consulting != 72 || r.Production != 36 {
		t.Fatalf("truncated consulting/production = %d/%d, want 72/36", r.Consulting, r.Production)
	}
	approx(t, "other is not adjusted", r.Raw.Other, 20)

	approx(t, "factor at double revenue", AutoAdjustFactor(1000, 500), 1.6)
	approx(t, "factor with zero base", AutoAdjustFactor(0, 0), AutoAdjustFactor(500, 500))
}

func TestRun_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Config)
	}{
		{"zero revenue", func(c *model.Config) { c.BaseRevenue = 0 }},
		{"zero advertising", func(c *model.Config) { c.BaseAdCost = 0; c.AdCostRatio = 0 }},
		{"total collapse", func(c *model.Config) { c.GrowthRate = -100 }},
		{"negative revenue", func(c *model.Config) { c.BaseRevenue = -200 }},
		{"auto adjust at zero base", func(c *model.Config) { c.BaseRevenue = 0; c.AutoAdjust = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			recs := Run(cfg, nil)
			if len(recs) != cfg.Periods {
				t.Fatalf("got %d records, want %d", len(recs), cfg.Periods)
			}
			for _, r := range recs {
				for name, v := range map[string]float64{"ad ratio": r.AdRatio, "margin": r.Margin, "roas": r.ROAS} {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						t.Fatalf("%s: %s = %v", r.Label, name, v)
					}
				}
				if r.Raw.Revenue <= 0 && (r.Margin != 0 || r.AdRatio != 0) {
					t.Fatalf("%s: non-positive revenue should give zero margin and ad ratio, got %g/%g", r.Label, r.Margin, r.AdRatio)
				}
				if r.Raw.AdCost <= 0 && r.ROAS != 0 {
					t.Fatalf("%s: zero ad spend should give zero ROAS, got %g", r.Label, r.ROAS)
				}
			}
		})
	}
}

func TestRun_NoPeriods(t *testing.T) {
	cfg := baseConfig()
	cfg.Periods = 0
	if recs := Run(cfg, nil); len(recs) != 0 {
		t.Fatalf("Run with zero periods returned %d records", len(recs))
	}
}

func TestRun_TruncatesTowardZero(t *testing.T) {
	cfg := baseConfig()
	cfg.Periods = 1
	cfg.BaseRevenue = 100
	cfg.BaseAdCost = 100.9
	cfg.AdCostRatio = 0
	cfg.ConsultingFee = 50
	cfg.ProductionCost = 0
	cfg.OtherFixedCost = 0

	r := Run(cfg, nil)[0]
	// profit = 100 - 150.9 = -50.9
	if r.Profit != -50 {
		t.Fatalf("Profit = %d, want -50", r.Profit)
	}
	if r.AdCost != 100 {
		t.Fatalf("AdCost = %d, want 100", r.AdCost)
	}
	if r.Margin != -50.9 {
		t.Fatalf("Margin = %g, want -50.9", r.Margin)
	}
}

func TestPeriodMonth(t *testing.T) {
	tests := []struct {
		start time.Month
		i     int
		want  time.Month
	}{
		{time.January, 0, time.January},
		{time.November, 1, time.December},
		{time.November, 2, time.January},
		{time.December, 12, time.December},
		{time.March, 25, time.April},
	}
	for _, tt := range tests {
		if got := PeriodMonth(tt.start, tt.i); got != tt.want {
			t.Errorf("PeriodMonth(%v, %d) = %v, want %v", tt.start, tt.i, got, tt.want)
		}
	}
}
