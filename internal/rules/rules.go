// Package rules evaluates user-defined diagnostic conditions written in CEL
// against every projected period.
package rules

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"go.uber.org/zap"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
)

type compiledRule struct {
	name    string
	kind    model.FindingKind
	impact  model.Impact
	detail  string
	program cel.Program
}

// Engine holds compiled rules.
type Engine struct {
	rules  []compiledRule
	logger *zap.Logger
}

// NewEnv returns the CEL environment rules compile against.
// Currency and ratio variables are doubles; period and month are ints.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("label", cel.StringType),
		cel.Variable("period", cel.IntType),
		cel.Variable("month", cel.IntType),
		cel.Variable("revenue", cel.DoubleType),
		cel.Variable("ad_cost", cel.DoubleType),
		cel.Variable("ad_ratio", cel.DoubleType),
		cel.Variable("consulting", cel.DoubleType),
		cel.Variable("production", cel.DoubleType),
		cel.Variable("other", cel.DoubleType),
		cel.Variable("total_cost", cel.DoubleType),
		cel.Variable("profit", cel.DoubleType),
		cel.Variable("margin", cel.DoubleType),
		cel.Variable("roas", cel.DoubleType),
		cel.Variable("mean_roas", cel.DoubleType),
		cel.Variable("margin_sd", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL env: %w", err)
	}
	return env, nil
}

// New compiles rule configurations. A rule that fails to compile, or that
// does not evaluate to a bool, is reported as an error.
func New(cfgs []config.RuleConfig, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	e := &Engine{logger: logger}
	for i, rc := range cfgs {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("rule %d", i+1)
		}

		ast, issues := env.Compile(rc.Condition)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %q: compiling: %w", name, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %q: condition must be a bool, got %s", name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: building program: %w", name, err)
		}

		kind, impact, err := classify(rc)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		e.rules = append(e.rules, compiledRule{
			name:    name,
			kind:    kind,
			impact:  impact,
			detail:  rc.Detail,
			program: prg,
		})
	}
	return e, nil
}

// Len returns the number of compiled rules.
func (e *Engine) Len() int { return len(e.rules) }

// Evaluate runs every rule over records and returns one finding per rule
// that matched at least one period, in rule order. Evaluation errors skip
// the period and are logged.
func (e *Engine) Evaluate(records []model.ProjectionRecord) []model.Finding {
	if len(e.rules) == 0 || len(records) == 0 {
		return nil
	}

	meanROAS := pipeline.Mean(pipeline.ROASValues(records))
	marginSD := pipeline.StdDev(pipeline.MarginValues(records))
	vars := make([]map[string]any, len(records))
	for i, r := range records {
		vars[i] = Vars(r)
		vars[i]["mean_roas"] = meanROAS
		vars[i]["margin_sd"] = marginSD
	}

	var findings []model.Finding
	for _, rule := range e.rules {
		var matched []string
		for i, v := range vars {
			out, _, err := rule.program.Eval(v)
			if err != nil {
				e.logger.Warn("rule evaluation failed",
					zap.String("rule", rule.name),
					zap.String("period", records[i].Label),
					zap.Error(err))
				continue
			}
			if ok, isBool := out.Value().(bool); isBool && ok {
				matched = append(matched, records[i].Label)
			}
		}
		if len(matched) == 0 {
			continue
		}
		detail := rule.detail
		if detail == "" {
			detail = fmt.Sprintf("Rule matched in %s.", strings.Join(matched, ", "))
		}
		findings = append(findings, model.Finding{
			Kind:    rule.kind,
			Title:   rule.name,
			Detail:  detail,
			Impact:  rule.impact,
			Periods: matched,
		})
	}
	return findings
}

// Vars exposes one record as CEL activation variables.
func Vars(r model.ProjectionRecord) map[string]any {
	return map[string]any{
		"label":      r.Label,
		"period":     int64(r.Period),
		"month":      int64(r.Month),
		"revenue":    float64(r.Revenue),
		"ad_cost":    float64(r.AdCost),
		"ad_ratio":   r.AdRatio,
		"consulting": float64(r.Consulting),
		"production": float64(r.Production),
		"other":      float64(r.Other),
		"total_cost": float64(r.TotalCost),
		"profit":     float64(r.Profit),
		"margin":     r.Margin,
		"roas":       r.ROAS,
	}
}

func classify(rc config.RuleConfig) (model.FindingKind, model.Impact, error) {
	kind := model.KindCaution
	switch strings.ToLower(rc.Kind) {
	case "":
	case string(model.KindWarning):
		kind = model.KindWarning
	case string(model.KindCaution):
		kind = model.KindCaution
	case string(model.KindSuggestion):
		kind = model.KindSuggestion
	default:
		return "", "", fmt.Errorf("unknown kind %q", rc.Kind)
	}

	impact := model.ImpactMedium
	switch strings.ToLower(rc.Impact) {
	case "", string(model.ImpactMedium):
	case string(model.ImpactHigh):
		impact = model.ImpactHigh
	default:
		return "", "", fmt.Errorf("unknown impact %q", rc.Impact)
	}
	return kind, impact, nil
}
