// Package advisor produces budget recommendations from a projection, optionally
// delegating to an external text-generation provider with a local fallback.
package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 20 * time.Second

// SourceLocal names recommendations produced by the local heuristic.
const SourceLocal = "local"

var (
	// ErrNoContent indicates the provider answered with no recommendations.
	ErrNoContent = errors.New("advisor: provider returned no recommendations")
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("advisor: unauthorized (API key missing or invalid)")
	// ErrRateLimited indicates the provider rate limit was hit.
	ErrRateLimited = errors.New("advisor: rate limited")
	// ErrInvalidResponse indicates the provider body was not a recommendation list.
	ErrInvalidResponse = errors.New("advisor: invalid response")
)

// Provider produces recommendations for a projection summary.
type Provider interface {
	Name() string
	Recommend(ctx context.Context, req Request) ([]model.Recommendation, error)
}

// Request is what a provider sees of a projection.
// External providers send only the aggregate fields.
type Request struct {
	Goal         model.Goal
	TotalRevenue int64
	TotalProfit  int64
	MeanROAS     float64
	MarginSD     float64
	Periods      int

	Records []model.ProjectionRecord
}

// NewRequest summarizes records for a provider call.
func NewRequest(records []model.ProjectionRecord, goal model.Goal) Request {
	t := pipeline.Summarize(records)
	return Request{
		Goal:         goal,
		TotalRevenue: t.Revenue,
		TotalProfit:  t.Profit,
		MeanROAS:     t.MeanROAS,
		MarginSD:     t.MarginSD,
		Periods:      t.PeriodCount,
		Records:      records,
	}
}

// Result is the outcome of Recommend. Fallback holds the provider failure
// when the local heuristic answered instead.
type Result struct {
	Recommendations []model.Recommendation
	Source          string
	Fallback        error
}

// Option configures Recommend.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	timeout time.Duration
}

// WithLogger sets the logger used to report provider fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Recommend asks provider for recommendations and falls back to Heuristic when
// provider is nil or fails in any way. It never returns an error.
func Recommend(ctx context.Context, records []model.ProjectionRecord, goal model.Goal, provider Provider, opts ...Option) Result {
	o := options{logger: zap.NewNop(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if provider == nil {
		return Result{Recommendations: Heuristic(records, goal), Source: SourceLocal}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	recs, err := provider.Recommend(callCtx, NewRequest(records, goal))
	if err == nil && len(recs) == 0 {
		err = ErrNoContent
	}
	if err != nil {
		o.logger.Warn("recommendation provider failed, using local heuristic",
			zap.String("provider", provider.Name()),
			zap.String("goal", string(goal)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Result{Recommendations: Heuristic(records, goal), Source: SourceLocal, Fallback: err}
	}

	o.logger.Debug("recommendations received",
		zap.String("provider", provider.Name()),
		zap.Int("count", len(recs)),
		zap.Duration("elapsed", time.Since(start)))
	return Result{Recommendations: recs, Source: provider.Name()}
}

// NewProvider selects an external provider from configuration.
// It returns nil when no credentials are available.
func NewProvider(cfg config.Config) Provider {
	key := config.GetAPIKey(cfg)
	if key == "" {
		return nil
	}
	switch strings.ToLower(cfg.Advisor.Provider) {
	case "gemini":
		if p := NewGeminiProvider(key, cfg.Advisor.Model, cfg.Advisor.BaseURL); p != nil {
			return p
		}
	default:
		if p := NewChatProvider(key, cfg.Advisor.BaseURL, cfg.Advisor.Model); p != nil {
			return p
		}
	}
	return nil
}
