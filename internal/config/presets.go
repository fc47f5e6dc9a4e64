package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/adsim/internal/model"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

func flat() []float64 {
	return []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
}

// DefaultPresets maps preset names to their calendar-month multipliers.
// Index 0 is January.
var DefaultPresets = map[string]model.SeasonalPreset{
	"default": {
		Name:        "default",
		Description: "Flat schedule, every month at base",
		Consulting:  flat(),
		Production:  flat(),
		Advertising: flat(),
	},
	"retail": {
		Name:        "retail",
		Description: "E-commerce and retail: New Year, spring, summer and year-end sales",
		Consulting:  []float64{1.2, 1.0, 1.0, 1.1, 1.0, 1.0, 1.1, 1.0, 1.0, 1.1, 1.3, 1.5},
		Production:  []float64{1.3, 0.8, 0.9, 1.2, 0.9, 1.0, 1.2, 0.9, 1.0, 1.2, 1.4, 1.6},
		Advertising: []float64{1.4, 0.7, 0.8, 1.3, 0.8, 0.9, 1.3, 0.8, 0.9, 1.3, 1.5, 1.8},
	},
	"travel": {
		Name:        "travel",
		Description: "Travel and leisure: holiday seasons and summer peak",
		Consulting:  []float64{1.3, 1.0, 1.2, 1.4, 1.5, 1.0, 1.6, 1.6, 1.0, 1.0, 1.0, 1.4},
		Production:  []float64{1.4, 0.9, 1.3, 1.5, 1.6, 0.9, 1.7, 1.7, 0.9, 0.9, 0.9, 1.5},
		Advertising: []float64{1.5, 0.8, 1.4, 1.6, 1.7, 0.8, 1.8, 1.8, 0.8, 0.8, 0.8, 1.6},
	},
	"b2b": {
		Name:        "b2b",
		Description: "B2B: fiscal year-end and quarter closes",
		Consulting:  []float64{1.0, 1.0, 1.4, 1.0, 1.0, 1.2, 1.0, 1.0, 1.2, 1.0, 1.0, 1.3},
		Production:  []float64{1.0, 1.0, 1.5, 1.0, 1.0, 1.3, 1.0, 1.0, 1.3, 1.0, 1.0, 1.4},
		Advertising: []float64{1.0, 1.0, 1.6, 1.0, 1.0, 1.4, 1.0, 1.0, 1.4, 1.0, 1.0, 1.5},
	},
	"startup": {
		Name:        "startup",
		Description: "Startup: launch push, then funding-round milestones",
		Consulting:  []float64{1.5, 1.0, 1.0, 1.2, 1.0, 1.0, 1.0, 1.0, 1.3, 1.0, 1.0, 1.0},
		Production:  []float64{1.6, 1.0, 1.0, 1.3, 1.0, 1.0, 1.0, 1.0, 1.4, 1.0, 1.0, 1.0},
		Advertising: []float64{1.7, 1.0, 1.0, 1.4, 1.0, 1.0, 1.0, 1.0, 1.5, 1.0, 1.0, 1.0},
	},
}

// LookupPreset returns a built-in preset by name.
func LookupPreset(name string) (model.SeasonalPreset, error) {
	p, ok := DefaultPresets[strings.ToLower(name)]
	if !ok {
		return model.SeasonalPreset{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	return sortedNames(DefaultPresets)
}

// PresetTable is the built-in registry extended with user-defined presets.
type PresetTable struct {
	presets map[string]model.SeasonalPreset
}

// NewPresetTable validates custom presets and layers them over the built-ins.
// A custom preset with a built-in name replaces it.
func NewPresetTable(custom map[string]PresetConfig) (*PresetTable, error) {
	presets := make(map[string]model.SeasonalPreset, len(DefaultPresets)+len(custom))
	for name, p := range DefaultPresets {
		presets[name] = p
	}
	for name, pc := range custom {
		key := strings.ToLower(name)
		p := model.SeasonalPreset{
			Name:        key,
			Description: pc.Description,
			Consulting:  pc.Consulting,
			Production:  pc.Production,
			Advertising: pc.Advertising,
		}
		if err := validatePreset(p); err != nil {
			return nil, fmt.Errorf("presets.%s: %w", name, err)
		}
		presets[key] = p
	}
	return &PresetTable{presets: presets}, nil
}

// Lookup returns a preset by name.
func (t *PresetTable) Lookup(name string) (model.SeasonalPreset, error) {
	p, ok := t.presets[strings.ToLower(name)]
	if !ok {
		return model.SeasonalPreset{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownPreset, name, strings.Join(t.Names(), ", "))
	}
	return p, nil
}

// Names returns every registered preset name, sorted.
func (t *PresetTable) Names() []string {
	return sortedNames(t.presets)
}

func validatePreset(p model.SeasonalPreset) error {
	defined := 0
	for _, cat := range model.Categories {
		m := p.Multipliers(cat)
		if m == nil {
			continue
		}
		defined++
		if len(m) != 12 {
			return fmt.Errorf("%s: want 12 monthly multipliers, got %d", cat, len(m))
		}
		for i, v := range m {
			if v <= 0 {
				return fmt.Errorf("%s: multiplier for month %d must be positive, got %g", cat, i+1, v)
			}
		}
	}
	if defined == 0 {
		return errors.New("defines no categories")
	}
	return nil
}

func sortedNames(m map[string]model.SeasonalPreset) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
