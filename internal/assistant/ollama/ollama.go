// Package ollama implements the assistant generator over the Ollama
// /api/generate endpoint with streamed responses.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "llama2:latest"
	DefaultMaxTokens   = 200
	DefaultTemperature = 0.7

	maxRetries = 3
)

type Client struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     baseURL,
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends the prompt and accumulates the streamed response chunks
// until the model reports done. Connection failures are retried with
// exponential backoff before giving up; HTTP 4xx responses are not retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var resp *http.Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/generate", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req) //nolint:bodyclose // closed below or on retry
		if err != nil {
			return fmt.Errorf("post generate: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := fmt.Errorf("generate: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return readStream(ctx, resp.Body)
}

// readStream concatenates the "response" fields of the newline-delimited
// JSON chunks. A malformed chunk leaves an inline marker instead of
// aborting the whole reply, matching how the rest of the system degrades.
func readStream(ctx context.Context, r io.Reader) (string, error) {
	var out bytes.Buffer
	start := time.Now()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			out.WriteString(fmt.Sprintf("[erro ao processar trecho: %v]", err))
			continue
		}
		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	slog.DebugContext(ctx, "Assistant reply received",
		"chars", out.Len(),
		"elapsed", time.Since(start))
	return out.String(), nil
}
