package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/adsim/internal/model"
)

// PresetCycle is the number of periods a seasonal preset covers.
const PresetCycle = 12

// ApplyPreset expands preset over the first min(periods, 12) periods and returns
// the resulting schedule. Categories the preset defines replace every prior
// override of that category, so later periods fall back to base. Categories
// the preset leaves unset keep their overrides.
func ApplyPreset(current model.CostOverrides, preset model.SeasonalPreset, bases model.Bases, periods int, startMonth time.Month) model.CostOverrides {
	out := current.Clone()
	n := min(periods, PresetCycle)
	for _, cat := range model.Categories {
		mult := preset.Multipliers(cat)
		if mult == nil {
			continue
		}
		out = out.Without(cat)
		base := bases.Of(cat)
		for i := 0; i < n; i++ {
			m := PeriodMonth(startMonth, i)
			out.Set(cat, i, math.Floor(base*mult[int(m)-1]))
		}
	}
	return out
}

// ResetAll returns a schedule pinning every period of every category to its base.
func ResetAll(periods int, bases model.Bases) model.CostOverrides {
	out := make(model.CostOverrides, periods*len(model.Categories))
	for _, cat := range model.Categories {
		for i := 0; i < periods; i++ {
			out.Set(cat, i, bases.Of(cat))
		}
	}
	return out
}

// BulkSet returns current with every period of cat set to value.
func BulkSet(current model.CostOverrides, cat model.Category, value float64, periods int) model.CostOverrides {
	out := current.Clone()
	for i := 0; i < periods; i++ {
		out.Set(cat, i, value)
	}
	return out
}

// SetPeriod returns current with a single (cat, period) override written.
func SetPeriod(current model.CostOverrides, cat model.Category, period int, value float64) model.CostOverrides {
	out := current.Clone()
	out.Set(cat, period, value)
	return out
}

// ResolvedSchedule returns the per-period amount of cat before auto-adjust,
// the value the projection feeds into its cost formulas.
func ResolvedSchedule(overrides model.CostOverrides, cat model.Category, base float64, periods int) []float64 {
	out := make([]float64, periods)
	for i := range out {
		out[i] = overrides.Resolve(cat, i, base)
	}
	return out
}
