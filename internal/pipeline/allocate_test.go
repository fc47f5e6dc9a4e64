package pipeline

import (
	"testing"

	"github.com/theirongolddev/adsim/internal/model"
)

func TestAllocationFor(t *testing.T) {
	tests := []struct {
		goal   model.Goal
		budget float64
		want   Allocation
	}{
		{model.GoalProfit, 200, Allocation{Consulting: 72, Production: 33}},
		{model.GoalProfit, 100, Allocation{Consulting: 40, Production: 20}},
		{model.GoalGrowth, 200, Allocation{Consulting: 90, Production: 39}},
		{model.GoalGrowth, 100, Allocation{Consulting: 50, Production: 30}},
		{model.GoalRisk, 200, Allocation{Consulting: 60, Production: 30}},
		{model.GoalRisk, 333, Allocation{Consulting: 99, Production: 49}},
	}
	for _, tt := range tests {
		got := AllocationFor(tt.budget, tt.goal, 60, 30)
		if got != tt.want {
			t.Errorf("AllocationFor(%g, %s) = %+v, want %+v", tt.budget, tt.goal, got, tt.want)
		}
	}
}

func TestAllocate_CoversEveryPeriod(t *testing.T) {
	got := Allocate(200, model.GoalGrowth, 60, 30, 24)
	if len(got) != 48 {
		t.Fatalf("Allocate produced %d overrides, want 48", len(got))
	}
	for i := 0; i < 24; i++ {
		c, _ := got.Get(model.Consulting, i)
		p, _ := got.Get(model.Production, i)
		if c != 90 || p != 39 {
			t.Fatalf("period %d = %g/%g, want 90/39", i, c, p)
		}
	}
	if _, ok := got.Get(model.Advertising, 0); ok {
		t.Fatal("Allocate should not schedule advertising")
	}
}

func TestAllocate_FeedsProjectionExactly(t *testing.T) {
	cfg := baseConfig()
	overrides := Allocate(200, model.GoalProfit, cfg.ConsultingFee, cfg.ProductionCost, cfg.Periods)

	for _, r := range Run(cfg, overrides) {
		if r.Raw.Consulting != 72 || r.Raw.Production != 33 {
			t.Fatalf("%s: consulting/production = %v/%v, want 72/33", r.Label, r.Raw.Consulting, r.Raw.Production)
		}
	}

	cfg.AutoAdjust = true
	cfg.GrowthRate = 0
	r := Run(cfg, overrides)[0]
	approx(t, "auto-adjusted consulting", r.Raw.Consulting, 72*AutoAdjustFactor(500, 500))
}

func TestAllocate_MergeKeepsAdvertising(t *testing.T) {
	current := model.CostOverrides{}
	current.Set(model.Advertising, 0, 250)
	current.Set(model.Consulting, 0, 1)

	merged := current.Merge(Allocate(200, model.GoalRisk, 60, 30, 12))
	if v, _ := merged.Get(model.Advertising, 0); v != 250 {
		t.Fatalf("advertising override lost: %g", v)
	}
	if v, _ := merged.Get(model.Consulting, 0); v != 60 {
		t.Fatalf("consulting = %g, want 60", v)
	}
}
