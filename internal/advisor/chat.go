package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/theirongolddev/adsim/internal/model"
)

const (
	defaultChatURL   = "https://api.openai.com/v1"
	defaultChatModel = "gpt-4o-mini"
	maxBodySize      = 1 << 20 // 1 MB
)

// ChatProvider calls an OpenAI-compatible chat completions endpoint.
type ChatProvider struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

var _ Provider = (*ChatProvider)(nil)

// NewChatProvider creates a provider for the given key.
// Returns nil if the key is empty.
func NewChatProvider(apiKey, baseURL, model string) *ChatProvider {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = defaultChatURL
	}
	if model == "" {
		model = defaultChatModel
	}
	return &ChatProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{},
	}
}

// Name implements Provider.
func (p *ChatProvider) Name() string { return "openai:" + p.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recommend implements Provider.
func (p *ChatProvider) Recommend(ctx context.Context, req Request) ([]model.Recommendation, error) {
	prompt, err := userPrompt(req)
	if err != nil {
		return nil, err
	}
	body := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("advisor: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("advisor: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("User-Agent", "github.com/theirongolddev/adsim/1.0")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advisor: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("advisor: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("advisor: reading response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("%w: decoding completion: %v", ErrInvalidResponse, err)
	}
	if len(cr.Choices) == 0 {
		return nil, ErrNoContent
	}
	return ParseRecommendations(cr.Choices[0].Message.Content)
}
