package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/theirongolddev/adsim/internal/model"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider asks Google Gemini for recommendations through the GenAI SDK.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider for the given key.
// Returns nil if the key is empty. baseURL may be empty.
func NewGeminiProvider(apiKey, model, baseURL string) *GeminiProvider {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini:" + p.model }

// Recommend implements Provider.
func (p *GeminiProvider) Recommend(ctx context.Context, req Request) ([]model.Recommendation, error) {
	prompt, err := userPrompt(req)
	if err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("advisor: creating gemini client: %w", err)
	}

	gc := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), gc)
	if err != nil {
		return nil, fmt.Errorf("advisor: gemini generation failed: %w", err)
	}
	return ParseRecommendations(result.Text())
}
