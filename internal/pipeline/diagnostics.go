package pipeline

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adsim/internal/model"
)

// Diagnostic thresholds.
const (
	MarginVolatilityLimit = 10.0 // percentage points of sample stddev
	AdOverexposureShare   = 0.4  // ad spend as a share of revenue
)

// Diagnose runs every diagnostic rule over records. Rules are independent and
// report in a fixed order; an empty result means nothing fired.
func Diagnose(records []model.ProjectionRecord) []model.Finding {
	var findings []model.Finding

	roas := ROASValues(records)
	threshold := Mean(roas) - StdDev(roas)
	if low := labelsWhere(records, func(r model.ProjectionRecord) bool { return r.ROAS < threshold }); len(low) > 0 {
		findings = append(findings, model.Finding{
			Kind:    model.KindWarning,
			Title:   "Some periods need ROAS improvement",
			Detail:  fmt.Sprintf("ROAS in %s is well below average. Review advertising spend.", strings.Join(low, ", ")),
			Impact:  model.ImpactHigh,
			Periods: low,
		})
	}

	if sd := StdDev(MarginValues(records)); sd > MarginVolatilityLimit {
		findings = append(findings, model.Finding{
			Kind:   model.KindCaution,
			Title:  "Profit margin is volatile",
			Detail: fmt.Sprintf("Margin standard deviation is %.1f%%. Rebalancing costs can stabilize it.", sd),
			Impact: model.ImpactMedium,
		})
	}

	if loss := labelsWhere(records, func(r model.ProjectionRecord) bool { return r.Profit < 0 }); len(loss) > 0 {
		findings = append(findings, model.Finding{
			Kind:    model.KindWarning,
			Title:   "Loss-making periods",
			Detail:  fmt.Sprintf("%s run at a loss. Costs need urgent review.", strings.Join(loss, ", ")),
			Impact:  model.ImpactHigh,
			Periods: loss,
		})
	}

	heavy := labelsWhere(records, func(r model.ProjectionRecord) bool {
		return float64(r.AdCost) > AdOverexposureShare*float64(r.Revenue)
	})
	if len(heavy) > 0 {
		findings = append(findings, model.Finding{
			Kind:    model.KindSuggestion,
			Title:   "Advertising spend can be optimized",
			Detail:  fmt.Sprintf("Ad spend exceeds 40%% of revenue in %s. Tightening it should lift profit.", strings.Join(heavy, ", ")),
			Impact:  model.ImpactMedium,
			Periods: heavy,
		})
	}

	return findings
}

func labelsWhere(records []model.ProjectionRecord, pred func(model.ProjectionRecord) bool) []string {
	var out []string
	for _, r := range records {
		if pred(r) {
			out = append(out, r.Label)
		}
	}
	return out
}
