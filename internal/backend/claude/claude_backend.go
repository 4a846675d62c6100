package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docsummary/internal/backend"
	"docsummary/internal/config"
	"docsummary/internal/domain"
	"docsummary/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Backend implements port.ModelBackend using the Anthropic Messages API.
type Backend struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewBackend creates a Claude backend from its config.
func NewBackend(cfg *config.BackendConfig) *Backend {
	return newBackend(cfg, apiURL)
}

// NewBackendWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewBackendWithEndpoint(cfg *config.BackendConfig, endpoint string) *Backend {
	return newBackend(cfg, endpoint)
}

func newBackend(cfg *config.BackendConfig, endpoint string) *Backend {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Backend{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

func (b *Backend) Name() domain.ModelChoice { return domain.ModelClaude }

func (b *Backend) PromptStyle() domain.PromptStyle { return domain.PromptStyleConversational }

// Model returns the model identifier sent to the API.
func (b *Backend) Model() string { return b.model }

// Configured reports whether the API key is set.
func (b *Backend) Configured() bool { return b.apiKey != "" }

func (b *Backend) Summarize(ctx context.Context, prompt string) (string, error) {
	if !b.Configured() {
		return "", backend.NewAuthMissingError(domain.ModelClaude)
	}

	text, err := b.complete(ctx, prompt)
	if backend.KindOf(err) == backend.KindEmptyResponse {
		log.Warn().Err(err).Str("model", b.model).Msg("claude.Backend: empty generation, using placeholder")
		return domain.NoSummaryPlaceholder, nil
	}
	return text, err
}

// WithModel returns a copy of b that requests model.
func (b *Backend) WithModel(model string) port.ModelBackend {
	c := *b
	c.model = model
	return &c
}

// SummarizeStream requests a streamed message and yields every text delta.
func (b *Backend) SummarizeStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !b.Configured() {
			yield("", backend.NewAuthMissingError(domain.ModelClaude))
			return
		}

		resp, err := b.send(ctx, prompt, true)
		if err != nil {
			yield("", err)
			return
		}
		defer func() { _ = resp.Body.Close() }()

		produced := false
		for data, err := range backend.EventData(resp.Body) {
			if err != nil {
				yield("", backend.NewTransportError(domain.ModelClaude, fmt.Errorf("reading stream: %w", err)))
				return
			}
			text, err := parseStreamEvent(data)
			if err != nil {
				yield("", err)
				return
			}
			if text == "" {
				continue
			}
			produced = true
			if !yield(text, nil) {
				return
			}
		}
		if !produced {
			log.Warn().Str("model", b.model).Msg("claude.Backend: empty stream, using placeholder")
			yield(domain.NoSummaryPlaceholder, nil)
		}
	}
}

func (b *Backend) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.send(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", backend.NewTransportError(domain.ModelClaude, fmt.Errorf("reading response: %w", err))
	}
	return parseResponse(respBody)
}

// send posts a message request and returns a 200 response with its body
// unread. Any other status is turned into an error.
func (b *Backend) send(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"model":      b.model,
		"max_tokens": b.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}
	if stream {
		reqBody["stream"] = true
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelClaude, fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelClaude, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelClaude, fmt.Errorf("calling anthropic API: %w", err))
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, backend.Truncate(string(respBody), 500))
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := backend.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, backend.NewRateLimitError(domain.ModelClaude, baseErr, retryAfter)
	}
	return nil, backend.NewTransportError(domain.ModelClaude, baseErr)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", backend.NewTransportError(domain.ModelClaude,
			fmt.Errorf("unmarshaling response: %w (raw: %s)", err, backend.Truncate(string(body), 500)))
	}

	if len(resp.Content) == 0 {
		return "", backend.NewEmptyResponseError(domain.ModelClaude, "no content blocks")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", backend.NewEmptyResponseError(domain.ModelClaude, "no text content")
	}

	// max_tokens truncation still yields a usable summary.
	if resp.StopReason == "max_tokens" {
		log.Debug().Msg("claude.Backend: summary truncated at max_tokens")
	}

	return sb.String(), nil
}

// streamEvent models the events of a streamed Messages API response that
// matter here.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseStreamEvent(data []byte) (string, error) {
	var evt streamEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return "", backend.NewTransportError(domain.ModelClaude,
			fmt.Errorf("unmarshaling stream event: %w (raw: %s)", err, backend.Truncate(string(data), 500)))
	}
	switch evt.Type {
	case "content_block_delta":
		if evt.Delta.Type == "text_delta" {
			return evt.Delta.Text, nil
		}
	case "error":
		return "", backend.NewTransportError(domain.ModelClaude,
			fmt.Errorf("anthropic stream error (%s): %s", evt.Error.Type, evt.Error.Message))
	}
	return "", nil
}
