package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/logger"

	"github.com/tidwall/gjson"
)

var (
	ErrNotConfigured = errors.New("insight endpoint is not configured")
	ErrEmptyAnswer   = errors.New("insight service returned no text")
)

// Client asks a generateContent-style text model for a business summary.
// It only reads the dashboard numbers it is given.
type Client struct {
	client   *http.Client
	endpoint string
	apiKey   string
	logger   *logger.Logger
}

func NewClient(client *http.Client, endpoint, apiKey string, log *logger.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, endpoint: endpoint, apiKey: apiKey, logger: log}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// Generate sends the prompt built from d and returns the model's text.
func (c *Client) Generate(ctx context.Context, d analytics.Dashboard) (string, error) {
	return c.Ask(ctx, BuildPrompt(d))
}

func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to encode insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	c.logger.Debug("INSIGHT", fmt.Sprintf("Requesting insight from %s", c.endpoint))
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("INSIGHT", fmt.Sprintf("Insight service error: %v", err))
		return "", fmt.Errorf("insight service error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read insight response: %w", err)
	}

	parsed := gjson.ParseBytes(raw)
	if msg := parsed.Get("error.message"); msg.Exists() {
		c.logger.Warn("INSIGHT", fmt.Sprintf("Insight service refused: %s", msg.String()))
		return "", fmt.Errorf("insight service error: %s", msg.String())
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight service returned status: %d", resp.StatusCode)
	}

	text := parsed.Get("candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", ErrEmptyAnswer
	}
	c.logger.Info("INSIGHT", fmt.Sprintf("Insight generated (%d chars)", len(text)))
	return text, nil
}
