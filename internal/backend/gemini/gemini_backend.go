package gemini

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
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Backend implements port.ModelBackend using Google's Gemini API with an API key.
type Backend struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

// NewBackend creates a Gemini backend.
func NewBackend(cfg *config.BackendConfig) *Backend {
	return newBackend(cfg, apiBaseURL)
}

// NewBackendWithEndpoint creates a backend pointing at a custom models base URL (for testing).
func NewBackendWithEndpoint(cfg *config.BackendConfig, baseURL string) *Backend {
	return newBackend(cfg, baseURL)
}

func newBackend(cfg *config.BackendConfig, baseURL string) *Backend {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
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
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
	}
}

func (b *Backend) Name() domain.ModelChoice { return domain.ModelGemini }

func (b *Backend) PromptStyle() domain.PromptStyle { return domain.PromptStylePlain }

// Model returns the model identifier sent to the API.
func (b *Backend) Model() string { return b.model }

// Configured reports whether the API key is set.
func (b *Backend) Configured() bool { return b.apiKey != "" }

// WithModel returns a copy of b that calls model.
func (b *Backend) WithModel(model string) port.ModelBackend {
	c := *b
	c.model = model
	return &c
}

func (b *Backend) Summarize(ctx context.Context, prompt string) (string, error) {
	if !b.Configured() {
		return "", backend.NewAuthMissingError(domain.ModelGemini)
	}

	text, err := b.generate(ctx, prompt)
	if backend.KindOf(err) == backend.KindEmptyResponse {
		log.Warn().Err(err).Str("model", b.model).Msg("gemini.Backend: empty generation, using placeholder")
		return domain.NoSummaryPlaceholder, nil
	}
	return text, err
}

// SummarizeStream calls streamGenerateContent and yields the text of every
// streamed candidate as it arrives.
func (b *Backend) SummarizeStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !b.Configured() {
			yield("", backend.NewAuthMissingError(domain.ModelGemini))
			return
		}

		resp, err := b.send(ctx, b.methodURL("streamGenerateContent")+"?alt=sse", prompt)
		if err != nil {
			yield("", err)
			return
		}
		defer func() { _ = resp.Body.Close() }()

		produced := false
		for data, err := range backend.EventData(resp.Body) {
			if err != nil {
				yield("", backend.NewTransportError(domain.ModelGemini, fmt.Errorf("reading stream: %w", err)))
				return
			}
			text, err := parseStreamChunk(data)
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
			log.Warn().Str("model", b.model).Msg("gemini.Backend: empty stream, using placeholder")
			yield(domain.NoSummaryPlaceholder, nil)
		}
	}
}

func (b *Backend) methodURL(method string) string {
	return fmt.Sprintf("%s/%s:%s", b.baseURL, b.model, method)
}

func (b *Backend) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.send(ctx, b.methodURL("generateContent"), prompt)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", backend.NewTransportError(domain.ModelGemini, fmt.Errorf("reading response: %w", err))
	}
	return parseResponse(respBody)
}

// send posts prompt to url and returns the response of a 200 reply with its
// body unread. Any other status is turned into an error.
func (b *Backend) send(ctx context.Context, url, prompt string) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": b.maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelGemini, fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelGemini, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, backend.NewTransportError(domain.ModelGemini, fmt.Errorf("calling gemini API: %w", err))
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, backend.Truncate(string(respBody), 500))
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := backend.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, backend.NewRateLimitError(domain.ModelGemini, baseErr, retryAfter)
	}
	return nil, backend.NewTransportError(domain.ModelGemini, baseErr)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", backend.NewTransportError(domain.ModelGemini,
			fmt.Errorf("unmarshaling response: %w (raw: %s)", err, backend.Truncate(string(body), 500)))
	}

	if len(resp.Candidates) == 0 {
		return "", backend.NewEmptyResponseError(domain.ModelGemini, "no candidates")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", backend.NewEmptyResponseError(domain.ModelGemini,
			"no parts (finish reason "+resp.Candidates[0].FinishReason+")")
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", backend.NewEmptyResponseError(domain.ModelGemini, "no text in parts")
	}
	return sb.String(), nil
}

// parseStreamChunk returns the text of one streamed response. Chunks that only
// carry a finish reason or usage data have no text.
func parseStreamChunk(data []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", backend.NewTransportError(domain.ModelGemini,
			fmt.Errorf("unmarshaling stream chunk: %w (raw: %s)", err, backend.Truncate(string(data), 500)))
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
