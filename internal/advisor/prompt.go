package advisor

import (
	"encoding/json"
	"fmt"
	"math"
)

const systemPrompt = `You are a marketing budget analyst. You receive a summary of a monthly
revenue and cost projection and an optimization goal. Reply with JSON only:
{"recommendations": [{"period": "...", "action": "...", "current_value": "...",
"recommended_value": "...", "expected_effect": "...", "rationale": "..."}]}
Every value is a string. Use "all" as the period for advice covering every month.`

type promptSummary struct {
	Goal         string  `json:"goal"`
	Periods      int     `json:"periods"`
	TotalRevenue int64   `json:"total_revenue"`
	TotalProfit  int64   `json:"total_profit"`
	MeanROAS     float64 `json:"mean_roas_percent"`
	MarginSD     float64 `json:"margin_stddev_points"`
}

// userPrompt renders the aggregate part of req. Per-period records stay local.
func userPrompt(req Request) (string, error) {
	s := promptSummary{
		Goal:         req.Goal.Describe(),
		Periods:      req.Periods,
		TotalRevenue: req.TotalRevenue,
		TotalProfit:  req.TotalProfit,
		MeanROAS:     round1(req.MeanROAS),
		MarginSD:     round1(req.MarginSD),
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("advisor: encoding prompt: %w", err)
	}
	return fmt.Sprintf("Projection summary:\n%s\n\nSuggest budget adjustments for the goal.", data), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
