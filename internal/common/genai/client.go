// internal/common/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"validation-workers/internal/common/config"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
)

var (
	// ErrUnavailable means the service is misconfigured or unreachable.
	// Callers surface this immediately; it never degrades to a fallback.
	ErrUnavailable = errors.New("GENERATION_UNAVAILABLE")
	ErrTimeout     = errors.New("GENERATION_TIMEOUT")
	ErrFailed      = errors.New("GENERATION_FAILED")
)

// Message is one chat turn sent to the generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single completion call.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	Model       string // optional override of the configured model
}

// Generator is the text-generation service contract the pipeline depends
// on. A returned error of ErrTimeout or ErrFailed means "no completion";
// callers apply their fallback path. ErrUnavailable is fatal.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Available() error
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg    config.GenAIConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.GenAIConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			// No client-level timeout; per-call contexts own the deadline.
		},
		logger: log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

// Available reports whether the client is configured to reach the service.
func (c *Client) Available() error {
	if c.cfg.BaseURL == "" {
		return fmt.Errorf("%w: base URL not configured", ErrUnavailable)
	}
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: API key not configured", ErrUnavailable)
	}
	return nil
}

// ScoringTemperature is the configured low-variance mode for scoring calls.
func (c *Client) ScoringTemperature() float64 { return c.cfg.ScoringTemperature }

// CreativeTemperature is the configured mode for persona and improvement calls.
func (c *Client) CreativeTemperature() float64 { return c.cfg.CreativeTemperature }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends the request and returns the raw completion text. Transient
// failures are retried with exponential backoff inside the context deadline.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if err := c.Available(); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.GenerationCalls.WithLabelValues("timeout").Inc()
				return "", ErrTimeout
			}
		}

		text, err := c.call(ctx, body)
		if err == nil {
			metrics.GenerationCalls.WithLabelValues("ok").Inc()
			metrics.GenerationDuration.Observe(time.Since(start).Seconds())
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			metrics.GenerationCalls.WithLabelValues("timeout").Inc()
			return "", ErrTimeout
		}
	}

	metrics.GenerationCalls.WithLabelValues("error").Inc()
	if ctx.Err() == context.DeadlineExceeded {
		return "", ErrTimeout
	}
	return "", fmt.Errorf("%w: %v", ErrFailed, lastErr)
}

// call performs a single HTTP round trip. The request is rebuilt each
// attempt because the body reader is consumed on send.
func (c *Client) call(ctx context.Context, body []byte) (string, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode error: %v", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}

	return parsed.Choices[0].Message.Content, nil
}
