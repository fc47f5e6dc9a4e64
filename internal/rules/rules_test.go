package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
)

func records() []model.ProjectionRecord {
	return []model.ProjectionRecord{
		{Period: 0, Label: "2025-11", Month: time.November, Revenue: 500, AdCost: 150, TotalCost: 260, Profit: 240, Margin: 48, ROAS: 333},
		{Period: 1, Label: "2025-12", Month: time.December, Revenue: 750, AdCost: 225, TotalCost: 335, Profit: 415, Margin: 55.3, ROAS: 333},
		{Period: 2, Label: "2026-01", Month: time.January, Revenue: 100, AdCost: 150, TotalCost: 260, Profit: -160, Margin: -160, ROAS: 67},
	}
}

func TestEngine_MatchesPeriods(t *testing.T) {
	e, err := New([]config.RuleConfig{
		{Name: "thin margin", Condition: "margin < 50.0", Kind: "warning", Impact: "high"},
		{Name: "december", Condition: "month == 12 && revenue > 600.0"},
		{Name: "never", Condition: "profit > 1000000.0"},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 3, e.Len())

	got := e.Evaluate(records())
	require.Len(t, got, 2)

	assert.Equal(t, "thin margin", got[0].Title)
	assert.Equal(t, model.KindWarning, got[0].Kind)
	assert.Equal(t, model.ImpactHigh, got[0].Impact)
	assert.Equal(t, []string{"2025-11", "2026-01"}, got[0].Periods)

	assert.Equal(t, "december", got[1].Title)
	assert.Equal(t, model.KindCaution, got[1].Kind)
	assert.Equal(t, model.ImpactMedium, got[1].Impact)
	assert.Equal(t, []string{"2025-12"}, got[1].Periods)
}

func TestEngine_AggregateVariables(t *testing.T) {
	e, err := New([]config.RuleConfig{
		{Name: "below average", Condition: "roas < mean_roas - 100.0", Detail: "ROAS lags"},
	}, nil)
	require.NoError(t, err)

	got := e.Evaluate(records())
	require.Len(t, got, 1)
	assert.Equal(t, "ROAS lags", got[0].Detail)
	assert.Equal(t, []string{"2026-01"}, got[0].Periods)
}

func TestNew_RejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		rule config.RuleConfig
	}{
		{"syntax", config.RuleConfig{Condition: "margin <"}},
		{"unknown var", config.RuleConfig{Condition: "tax > 1.0"}},
		{"not bool", config.RuleConfig{Condition: "revenue * 2.0"}},
		{"bad kind", config.RuleConfig{Condition: "true", Kind: "panic"}},
		{"bad impact", config.RuleConfig{Condition: "true", Impact: "low"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]config.RuleConfig{tt.rule}, nil)
			assert.Error(t, err)
		})
	}
}

func TestEngine_Empty(t *testing.T) {
	e, err := New(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, e.Evaluate(records()))

	e, err = New([]config.RuleConfig{{Condition: "true"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, e.Evaluate(nil))
	got := e.Evaluate(records()[:1])
	require.Len(t, got, 1)
	assert.Equal(t, "rule 1", got[0].Title)
}
