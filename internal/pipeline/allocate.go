package pipeline

import (
	"math"

	"github.com/theirongolddev/adsim/internal/model"
)

// Allocation is the per-period consulting and production spend chosen for a budget.
type Allocation struct {
	Consulting float64
	Production float64
}

// AllocationFor splits a monthly budget between consulting and production by goal.
// Profit and growth cap each line at a multiple of its base; risk uses fixed shares.
// Amounts are truncated to whole units.
func AllocationFor(budget float64, goal model.Goal, baseConsulting, baseProduction float64) Allocation {
	var c, p float64
	switch goal {
	case model.GoalGrowth:
		c = math.Min(0.5*budget, 1.5*baseConsulting)
		p = math.Min(0.3*budget, 1.3*baseProduction)
	case model.GoalRisk:
		c = 0.3 * budget
		p = 0.15 * budget
	default:
		c = math.Min(0.4*budget, 1.2*baseConsulting)
		p = math.Min(0.2*budget, 1.1*baseProduction)
	}
	return Allocation{Consulting: math.Trunc(c), Production: math.Trunc(p)}
}

// Allocate returns a schedule with the same allocation in every period.
// Merge the result over an existing schedule to keep advertising overrides.
func Allocate(budget float64, goal model.Goal, baseConsulting, baseProduction float64, periods int) model.CostOverrides {
	a := AllocationFor(budget, goal, baseConsulting, baseProduction)
	out := make(model.CostOverrides, periods*2)
	for i := 0; i < periods; i++ {
		out.Set(model.Consulting, i, a.Consulting)
		out.Set(model.Production, i, a.Production)
	}
	return out
}
