package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/elum-utils/cleen/models"
)

const (
	DefaultChatBaseURL = "https://api.deepseek.com"
	DefaultChatModel   = "deepseek-chat"
)

// ChatAdapter classifies through an OpenAI-compatible chat completions endpoint.
// The classification prompt travels as the user message; replies are read from choices[0].
type ChatAdapter struct {
	model    string
	system   string
	endpoint string
	client   *resty.Client
}

// ChatOptions configures adapter.
type ChatOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// SystemPrompt is sent before the classification prompt when set.
	SystemPrompt string
}

// NewChatAdapter creates adapter instance. A blank key yields models.ErrNotConfigured.
func NewChatAdapter(opt ChatOptions) (*ChatAdapter, error) {
	key := strings.TrimSpace(opt.APIKey)
	if key == "" {
		return nil, errors.Join(errors.New("ai: chat API key is required"), models.ErrNotConfigured)
	}
	model := strings.TrimSpace(opt.Model)
	if model == "" {
		model = DefaultChatModel
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChatAdapter{
		model:    model,
		system:   strings.TrimSpace(opt.SystemPrompt),
		endpoint: chatEndpoint(opt.BaseURL),
		client: resty.New().
			SetTimeout(timeout).
			SetAuthToken(key).
			SetHeader("Content-Type", "application/json"),
	}, nil
}

func (c *ChatAdapter) Name() string { return "chat" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends prompt as a single user message and returns the first choice's content.
func (c *ChatAdapter) Classify(ctx context.Context, prompt string) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if c.system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: c.system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		return "", transportError(err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", statusError(resp)
	}
	return extractChoiceContent(resp.Body())
}

func extractChoiceContent(body []byte) (string, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed("decode envelope: %v", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", malformed("choices[0].message is missing")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// chatEndpoint appends /chat/completions to base unless base already ends with it.
func chatEndpoint(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultChatBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimRight(base, "/") + "/chat/completions"
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(u.Path, "/chat/completions") {
		u.Path += "/chat/completions"
	}
	return u.String()
}
