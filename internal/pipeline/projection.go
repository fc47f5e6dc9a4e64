// Package pipeline computes projections, cost schedules, allocations and diagnostics.
package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/adsim/internal/model"
)

// LabelLayout formats period labels.
const LabelLayout = "2006-01"

// Run projects cfg over cfg.Periods periods, resolving scheduled costs from overrides.
// It performs no validation: degenerate inputs yield degenerate but consistent output.
func Run(cfg model.Config, overrides model.CostOverrides) []model.ProjectionRecord {
	if cfg.Periods <= 0 {
		return nil
	}
	records := make([]model.ProjectionRecord, 0, cfg.Periods)
	for i := 0; i < cfg.Periods; i++ {
		records = append(records, projectPeriod(cfg, overrides, i))
	}
	return records
}

// PeriodMonth returns the calendar month of period i for a schedule starting in startMonth.
func PeriodMonth(startMonth time.Month, i int) time.Month {
	return time.Month((int(startMonth)-1+i)%12 + 1)
}

func projectPeriod(cfg model.Config, overrides model.CostOverrides, i int) model.ProjectionRecord {
	month := PeriodMonth(cfg.Start.Month(), i)

	revenue := cfg.BaseRevenue * math.Pow(1+cfg.GrowthRate/100, float64(i))
	if cfg.Seasonal && cfg.IsPeak(month) {
		revenue *= cfg.PeakMultiplier
	}

	consulting := overrides.Resolve(model.Consulting, i, cfg.ConsultingFee)
	production := overrides.Resolve(model.Production, i, cfg.ProductionCost)
	adBase := overrides.Resolve(model.Advertising, i, cfg.BaseAdCost)

	if cfg.AutoAdjust {
		dynamic := AutoAdjustFactor(revenue, cfg.BaseRevenue)
		consulting *= dynamic
		production *= dynamic
	}

	ad := math.Max(adBase, revenue*cfg.AdCostRatio/100)

	raw := model.Amounts{
		Revenue:    revenue,
		AdCost:     ad,
		Consulting: consulting,
		Production: production,
		Other:      cfg.OtherFixedCost,
	}
	raw.Total = raw.AdCost + raw.Consulting + raw.Production + raw.Other
	raw.Profit = raw.Revenue - raw.Total

	return model.ProjectionRecord{
		Period:     i,
		Label:      cfg.Start.AddDate(0, i, 0).Format(LabelLayout),
		Month:      month,
		Revenue:    truncate(raw.Revenue),
		AdCost:     truncate(raw.AdCost),
		AdRatio:    round(percent(raw.AdCost, raw.Revenue), 1),
		Consulting: truncate(raw.Consulting),
		Production: truncate(raw.Production),
		Other:      truncate(raw.Other),
		TotalCost:  truncate(raw.Total),
		Profit:     truncate(raw.Profit),
		Margin:     round(percent(raw.Profit, raw.Revenue), 1),
		ROAS:       round(percent(raw.Revenue, raw.AdCost), 0),
		Raw:        raw,
	}
}

// AutoAdjustFactor scales variable costs with revenue relative to the base:
// 0.8 + 0.4×(revenue/base). A zero base counts as ratio 1, giving 1.2.
func AutoAdjustFactor(revenue, base float64) float64 {
	ratio := 1.0
	if base != 0 {
		ratio = revenue / base
	}
	return 0.8 + ratio*0.4
}

// percent returns num/den×100, or 0 when den is not positive.
func percent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

func truncate(v float64) int64 {
	return int64(v)
}

// round rounds half to even at the given number of decimal places,
// so a ROAS of exactly 162.5 reports 162.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
