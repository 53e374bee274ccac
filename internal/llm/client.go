package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stackstep/internal/config"
	"stackstep/pkg/metrics"
)

var ErrEmptyCompletion = errors.New("completion returned empty message content")

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client issues chat-completion requests against an OpenAI-compatible
// endpoint. Each call carries an explicit timeout; retrying is the
// generation loop's responsibility, not the client's.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(cfg config.LLMConfig, logger *zap.Logger) *Client {
	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// Complete sends a single completion request and returns the first
// choice's message content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		metrics.RecordLLMCallLatency("error", latency)
		c.logger.Warn("LLM request failed", zap.Error(err), zap.Duration("latency", latency))
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordLLMCallLatency(fmt.Sprintf("%d", resp.StatusCode), latency)
		c.logger.Warn("LLM request returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", latency),
		)
		return "", fmt.Errorf("llm endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.RecordLLMCallLatency("decode_error", latency)
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		metrics.RecordLLMCallLatency("empty", latency)
		return "", ErrEmptyCompletion
	}

	metrics.RecordLLMCallLatency("success", latency)
	c.logger.Debug("LLM request completed",
		zap.Duration("latency", latency),
		zap.Int("content_length", len(parsed.Choices[0].Message.Content)),
	)
	return parsed.Choices[0].Message.Content, nil
}
