package model

import (
	"fmt"
	"sort"
)

// Category is a cost line that can be scheduled per period.
type Category string

const (
	Consulting  Category = "consulting"
	Production  Category = "production"
	Advertising Category = "advertising"
)

// Categories lists every schedulable category in display order.
var Categories = []Category{Consulting, Production, Advertising}

// ParseCategory accepts the canonical names plus a few short aliases.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "consulting", "consult", "c":
		return Consulting, nil
	case "production", "prod", "p":
		return Production, nil
	case "advertising", "ad", "ads", "a":
		return Advertising, nil
	}
	return "", fmt.Errorf("unknown cost category %q (want consulting, production or advertising)", s)
}

// Bases holds the configured per-period base amount of each category.
type Bases struct {
	Consulting  float64
	Production  float64
	Advertising float64
}

// Of returns the base amount for cat.
func (b Bases) Of(cat Category) float64 {
	switch cat {
	case Consulting:
		return b.Consulting
	case Production:
		return b.Production
	case Advertising:
		return b.Advertising
	}
	return 0
}

// OverrideKey addresses one scheduled amount.
type OverrideKey struct {
	Category Category
	Period   int
}

// CostOverrides maps (category, period) to an amount that replaces the base value.
// A missing key means "use the base value"; a present zero is a real override.
// Methods never mutate the receiver except Set and Delete.
type CostOverrides map[OverrideKey]float64

// Get returns the override for (cat, period) if one is set.
func (o CostOverrides) Get(cat Category, period int) (float64, bool) {
	v, ok := o[OverrideKey{Category: cat, Period: period}]
	return v, ok
}

// Resolve returns the override for (cat, period) or base when none is set.
func (o CostOverrides) Resolve(cat Category, period int, base float64) float64 {
	if v, ok := o.Get(cat, period); ok {
		return v
	}
	return base
}

// Set stores an override in place.
func (o CostOverrides) Set(cat Category, period int, amount float64) {
	o[OverrideKey{Category: cat, Period: period}] = amount
}

// Delete removes an override in place.
func (o CostOverrides) Delete(cat Category, period int) {
	delete(o, OverrideKey{Category: cat, Period: period})
}

// Clone returns an independent copy. A nil receiver clones to an empty map.
func (o CostOverrides) Clone() CostOverrides {
	out := make(CostOverrides, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Clear returns an empty schedule, which resolves every period to its base value.
func (o CostOverrides) Clear() CostOverrides {
	return CostOverrides{}
}

// Without returns a copy with every override of cat removed.
func (o CostOverrides) Without(cat Category) CostOverrides {
	out := make(CostOverrides, len(o))
	for k, v := range o {
		if k.Category != cat {
			out[k] = v
		}
	}
	return out
}

// Merge returns a copy of o with every entry of other written over it.
func (o CostOverrides) Merge(other CostOverrides) CostOverrides {
	out := o.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the override keys sorted by category order, then period.
func (o CostOverrides) Keys() []OverrideKey {
	rank := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		rank[c] = i
	}
	keys := make([]OverrideKey, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return rank[keys[i].Category] < rank[keys[j].Category]
		}
		return keys[i].Period < keys[j].Period
	})
	return keys
}

// SeasonalPreset is a named set of calendar-month multipliers.
// A nil slice means the preset leaves that category alone.
type SeasonalPreset struct {
	Name        string
	Description string
	Consulting  []float64
	Production  []float64
	Advertising []float64
}

// Multipliers returns the 12 calendar-month multipliers for cat, or nil.
func (p SeasonalPreset) Multipliers(cat Category) []float64 {
	switch cat {
	case Consulting:
		return p.Consulting
	case Production:
		return p.Production
	case Advertising:
		return p.Advertising
	}
	return nil
}
