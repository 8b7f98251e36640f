package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jvcl/datachat/internal/chat/entity"
)

// ErrNoCredential is returned before any network call when the API key
// is not configured.
var ErrNoCredential = errors.New("language model api key is not configured")

// Config holds the connection settings for an OpenAI-compatible
// chat-completions endpoint.
type Config struct {
	// APIKey is the bearer credential for the endpoint.
	APIKey string

	// BaseURL is the API base (e.g. "https://api.openai.com").
	BaseURL string

	// Model is the model name sent with every request.
	Model string

	// Timeout is the HTTP client timeout. Defaults to 60s if zero.
	Timeout time.Duration

	// EndpointPath defaults to "/v1/chat/completions".
	EndpointPath string

	// MaxSampleRows bounds how many dataset rows are embedded in the
	// prompt. Defaults to 50.
	MaxSampleRows int
}

// Client answers natural-language questions about a dataset by calling
// an OpenAI-compatible chat-completions API.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a Client with defaults applied.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxSampleRows <= 0 {
		cfg.MaxSampleRows = 50
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Ask sends the dataset context plus the question and renders the reply
// into an Answer.
func (c *Client) Ask(ctx context.Context, dataset *entity.Dataset, question string) (entity.Answer, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return entity.Answer{}, ErrNoCredential
	}

	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: buildSystemPrompt(dataset, c.cfg.MaxSampleRows)},
			{Role: "user", Content: question},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return entity.Answer{}, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + c.cfg.EndpointPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return entity.Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.Answer{}, fmt.Errorf("call query engine: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.Answer{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.Answer{}, &UpstreamError{
			Status:  resp.StatusCode,
			Message: readErrorMessage(raw),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return entity.Answer{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return entity.Answer{}, errors.New("query engine returned no choices")
	}

	return parseAnswer(decoded.Choices[0].Message.Content), nil
}

func readErrorMessage(raw []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
