package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/xeipuuv/gojsonschema"

	"github.com/theirongolddev/adsim/internal/model"
)

const responseSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["period", "action", "current_value", "recommended_value", "expected_effect", "rationale"],
    "properties": {
      "period":            {"type": "string", "minLength": 1},
      "action":            {"type": "string", "minLength": 1},
      "current_value":     {"type": "string"},
      "recommended_value": {"type": "string"},
      "expected_effect":   {"type": "string"},
      "rationale":         {"type": "string"}
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(responseSchema)

// ParseRecommendations decodes a provider reply into recommendations.
// Markdown fences, trailing commas and similar damage are repaired first; the
// result must then be a list (optionally under a "recommendations" key) of
// objects carrying all six string fields.
func ParseRecommendations(text string) ([]model.Recommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%w: repairing JSON: %v", ErrInvalidResponse, err)
	}

	var doc any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrInvalidResponse, err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["recommendations"]; ok {
			doc = inner
		}
	}
	if list, ok := doc.([]any); ok && len(list) == 0 {
		return nil, ErrNoContent
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: validating: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(errs, "; "))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	var recs []model.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return recs, nil
}
