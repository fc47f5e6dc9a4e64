package advisor

import (
	"context"
	"fmt"

	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
)

// Heuristic thresholds.
const (
	lowROAS          = 200.0 // percent
	adCutShare       = 0.2
	marginLead       = 5.0 // points above the mean margin
	adRaiseShare     = 0.3
	revenueLiftShare = 0.15
	volatileMarginSD = 10.0
)

// Local is the deterministic heuristic exposed as a Provider.
type Local struct{}

var _ Provider = Local{}

// Name implements Provider.
func (Local) Name() string { return SourceLocal }

// Recommend implements Provider.
func (Local) Recommend(_ context.Context, req Request) ([]model.Recommendation, error) {
	return Heuristic(req.Records, req.Goal), nil
}

// Heuristic returns rule-based recommendations for goal. The result depends
// only on its inputs.
func Heuristic(records []model.ProjectionRecord, goal model.Goal) []model.Recommendation {
	switch goal {
	case model.GoalGrowth:
		return growthAdvice(records)
	case model.GoalRisk:
		return riskAdvice(records)
	default:
		return profitAdvice(records)
	}
}

func profitAdvice(records []model.ProjectionRecord) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range records {
		if r.ROAS >= lowROAS {
			continue
		}
		ad := float64(r.AdCost)
		out = append(out, model.Recommendation{
			Period:         r.Label,
			Action:         "Cut advertising by 20%",
			Current:        amount(ad),
			Recommended:    amount(ad * (1 - adCutShare)),
			ExpectedEffect: fmt.Sprintf("+%s profit", amount(ad*adCutShare)),
			Rationale:      fmt.Sprintf("ROAS of %.0f%% is below the %.0f%% target", r.ROAS, lowROAS),
		})
	}
	return out
}

func growthAdvice(records []model.ProjectionRecord) []model.Recommendation {
	threshold := pipeline.Mean(pipeline.MarginValues(records)) + marginLead
	var out []model.Recommendation
	for _, r := range records {
		if r.Margin <= threshold {
			continue
		}
		ad := float64(r.AdCost)
		out = append(out, model.Recommendation{
			Period:         r.Label,
			Action:         "Raise advertising by 30%",
			Current:        amount(ad),
			Recommended:    amount(ad * (1 + adRaiseShare)),
			ExpectedEffect: fmt.Sprintf("+%s revenue", amount(float64(r.Revenue)*revenueLiftShare)),
			Rationale:      fmt.Sprintf("Margin of %.1f%% leaves room to invest in growth", r.Margin),
		})
	}
	return out
}

func riskAdvice(records []model.ProjectionRecord) []model.Recommendation {
	sd := pipeline.StdDev(pipeline.MarginValues(records))
	if sd <= volatileMarginSD {
		return nil
	}
	costs := make([]float64, len(records))
	for i, r := range records {
		costs[i] = float64(r.TotalCost)
	}
	return []model.Recommendation{{
		Period:         model.AllPeriods,
		Action:         "Smooth costs toward the mean",
		Current:        fmt.Sprintf("margin stddev %.1f pts", sd),
		Recommended:    fmt.Sprintf("%s total cost per period", amount(pipeline.Mean(costs))),
		ExpectedEffect: fmt.Sprintf("margin stddev under %.0f pts", volatileMarginSD),
		Rationale:      "Uneven spending makes profit hard to forecast",
	}}
}

func amount(v float64) string {
	return fmt.Sprintf("%d", int64(v))
}
