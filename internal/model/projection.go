// Package model defines domain types for adsim projections, schedules and advice.
package model

import "time"

// Config holds the inputs of one projection run. It is treated as immutable.
type Config struct {
	Periods int
	Start   time.Time // first day of the calendar month of period 0

	BaseRevenue float64
	GrowthRate  float64 // percent per period, may be negative

	Seasonal       bool
	PeakMonths     []time.Month
	PeakMultiplier float64

	BaseAdCost     float64
	AdCostRatio    float64 // target ad spend as percent of revenue
	ConsultingFee  float64
	ProductionCost float64
	OtherFixedCost float64

	AutoAdjust bool
}

// IsPeak reports whether m is one of the configured peak months.
func (c Config) IsPeak(m time.Month) bool {
	for _, pm := range c.PeakMonths {
		if pm == m {
			return true
		}
	}
	return false
}

// Bases returns the configured base amount for each schedulable category.
func (c Config) Bases() Bases {
	return Bases{
		Consulting:  c.ConsultingFee,
		Production:  c.ProductionCost,
		Advertising: c.BaseAdCost,
	}
}

// Amounts holds the un-truncated figures of one period.
// Total and Profit are derived by plain addition/subtraction so
// Total == AdCost+Consulting+Production+Other and Profit == Revenue-Total hold exactly.
type Amounts struct {
	Revenue    float64
	AdCost     float64
	Consulting float64
	Production float64
	Other      float64
	Total      float64
	Profit     float64
}

// ProjectionRecord is one output row of the projection table.
// Currency fields are truncated toward zero; ratios are rounded.
type ProjectionRecord struct {
	Period int
	Label  string
	Month  time.Month

	Revenue    int64
	AdCost     int64
	AdRatio    float64 // 1 decimal
	Consulting int64
	Production int64
	Other      int64
	TotalCost  int64
	Profit     int64
	Margin     float64 // 1 decimal
	ROAS       float64 // 0 decimals

	Raw Amounts
}

// Totals holds projection-wide KPIs. Sums are taken over the truncated
// per-period values, so they can drift from a truncation of the exact total.
type Totals struct {
	Revenue     int64
	Cost        int64
	Profit      int64
	AdCost      int64
	ROAS        float64 // overall, 0 decimals
	Margin      float64 // overall, 1 decimal
	MeanROAS    float64
	MarginSD    float64
	PeriodCount int
}
