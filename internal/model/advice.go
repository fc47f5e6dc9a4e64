package model

import "fmt"

// Goal selects the optimization priority used by the allocator and the advisor.
type Goal string

const (
	GoalProfit Goal = "profit-max"
	GoalGrowth Goal = "growth-focus"
	GoalRisk   Goal = "risk-min"
)

// Goals lists every supported goal.
var Goals = []Goal{GoalProfit, GoalGrowth, GoalRisk}

// ParseGoal accepts canonical goal names and short aliases.
func ParseGoal(s string) (Goal, error) {
	switch s {
	case "profit-max", "profit":
		return GoalProfit, nil
	case "growth-focus", "growth":
		return GoalGrowth, nil
	case "risk-min", "risk":
		return GoalRisk, nil
	}
	return "", fmt.Errorf("unknown goal %q (want profit-max, growth-focus or risk-min)", s)
}

// Describe returns the free-text goal handed to external providers.
func (g Goal) Describe() string {
	switch g {
	case GoalProfit:
		return "maximize profit"
	case GoalGrowth:
		return "prioritize revenue growth"
	case GoalRisk:
		return "minimize risk and stabilize margins"
	}
	return string(g)
}

// FindingKind classifies a diagnostic finding.
type FindingKind string

const (
	KindWarning    FindingKind = "warning"
	KindCaution    FindingKind = "caution"
	KindSuggestion FindingKind = "suggestion"
)

// Impact grades how much a finding matters.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
)

// Finding is one diagnostic result over a projection.
type Finding struct {
	Kind    FindingKind `json:"kind"`
	Title   string      `json:"title"`
	Detail  string      `json:"detail"`
	Impact  Impact      `json:"impact"`
	Periods []string    `json:"periods,omitempty"`
}

// AllPeriods is the Recommendation.Period value for projection-wide advice.
const AllPeriods = "all"

// Recommendation is a suggested adjustment. Every field is display text so
// local heuristics and external providers share one shape.
type Recommendation struct {
	Period         string `json:"period"`
	Action         string `json:"action"`
	Current        string `json:"current_value"`
	Recommended    string `json:"recommended_value"`
	ExpectedEffect string `json:"expected_effect"`
	Rationale      string `json:"rationale"`
}
