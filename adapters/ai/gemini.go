package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/elum-utils/cleen/models"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel   = "gemini-2.0-flash-exp"

	// PlaceholderAPIKey is the value shipped in example configs; it counts as unset.
	PlaceholderAPIKey = "YOUR_GEMINI_API_KEY_HERE"
)

// GeminiAdapter calls the generateContent endpoint with a single text prompt.
type GeminiAdapter struct {
	model    string
	apiKey   string
	endpoint string
	client   *resty.Client
}

// GeminiOptions configures adapter.
type GeminiOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewGeminiAdapter creates adapter instance. A blank or placeholder key yields models.ErrNotConfigured.
func NewGeminiAdapter(opt GeminiOptions) (*GeminiAdapter, error) {
	key := strings.TrimSpace(opt.APIKey)
	if key == "" || key == PlaceholderAPIKey {
		return nil, errors.Join(errors.New("ai: gemini API key is required"), models.ErrNotConfigured)
	}
	if strings.TrimSpace(opt.BaseURL) == "" {
		opt.BaseURL = DefaultGeminiBaseURL
	}
	if strings.TrimSpace(opt.Model) == "" {
		opt.Model = DefaultGeminiModel
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	base := strings.TrimRight(opt.BaseURL, "/")
	return &GeminiAdapter{
		model:    opt.Model,
		apiKey:   key,
		endpoint: base + "/" + opt.Model + ":generateContent",
		client: resty.New().
			SetTimeout(opt.Timeout).
			SetHeader("Content-Type", "application/json"),
	}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

// Classify sends prompt as the only content of a generation request and returns the first text part.
func (g *GeminiAdapter) Classify(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(body).
		Post(g.endpoint)
	if err != nil {
		return "", transportError(err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", statusError(resp)
	}
	return extractCandidateText(resp.Body())
}

func extractCandidateText(body []byte) (string, error) {
	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed("decode envelope: %v", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", malformed("candidates[0].content is missing")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", malformed("candidates[0].content.parts is empty")
	}
	return strings.TrimSpace(parts[0].Text), nil
}
