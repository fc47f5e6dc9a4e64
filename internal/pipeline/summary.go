package pipeline

import "github.com/theirongolddev/adsim/internal/model"

// Summarize computes projection-wide KPIs. Totals are sums of the truncated
// per-period values and the overall ratios derive from those sums.
func Summarize(records []model.ProjectionRecord) model.Totals {
	var t model.Totals
	for _, r := range records {
		t.Revenue += r.Revenue
		t.Cost += r.TotalCost
		t.Profit += r.Profit
		t.AdCost += r.AdCost
	}
	t.PeriodCount = len(records)
	t.ROAS = round(percent(float64(t.Revenue), float64(t.AdCost)), 0)
	t.Margin = round(percent(float64(t.Profit), float64(t.Revenue)), 1)
	t.MeanROAS = Mean(ROASValues(records))
	t.MarginSD = StdDev(MarginValues(records))
	return t
}
