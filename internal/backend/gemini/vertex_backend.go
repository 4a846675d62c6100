package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"docsummary/internal/backend"
	"docsummary/internal/config"
	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// contentGenerator is the subset of *genai.GenerativeModel used by VertexBackend.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, parts ...genai.Part) responseIterator
}

// responseIterator is satisfied by *genai.GenerateContentResponseIterator.
type responseIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

// generativeModel adapts *genai.GenerativeModel to contentGenerator.
type generativeModel struct {
	*genai.GenerativeModel
}

func (m generativeModel) GenerateContentStream(ctx context.Context, parts ...genai.Part) responseIterator {
	return m.GenerativeModel.GenerateContentStream(ctx, parts...)
}

// VertexBackend implements port.ModelBackend by reaching Gemini through Vertex AI
// with application default credentials.
type VertexBackend struct {
	model     string
	maxTokens int
	generator contentGenerator
	client    *genai.Client
}

// NewVertexBackend creates a Vertex AI client for the configured project and region.
func NewVertexBackend(ctx context.Context, cfg *config.BackendConfig) (*VertexBackend, error) {
	if cfg.VertexProject == "" || cfg.VertexLocation == "" {
		return nil, fmt.Errorf("NewVertexBackend: project and location cannot be empty")
	}

	client, err := genai.NewClient(ctx, cfg.VertexProject, cfg.VertexLocation)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	modelName := cfg.DefaultModel
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	v := &VertexBackend{model: modelName, maxTokens: maxTokens, client: client}
	v.generator = v.newModel(modelName)
	return v, nil
}

func (v *VertexBackend) newModel(name string) contentGenerator {
	model := v.client.GenerativeModel(name)
	model.SetMaxOutputTokens(int32(v.maxTokens))
	return generativeModel{model}
}

// newVertexBackendWithGenerator is used by tests to bypass the Vertex client.
func newVertexBackendWithGenerator(model string, g contentGenerator) *VertexBackend {
	return &VertexBackend{model: model, generator: g}
}

func (v *VertexBackend) Name() domain.ModelChoice { return domain.ModelGemini }

func (v *VertexBackend) PromptStyle() domain.PromptStyle { return domain.PromptStylePlain }

// Model returns the Vertex model identifier.
func (v *VertexBackend) Model() string { return v.model }

// WithModel returns a backend sharing v's client that calls model. The copy
// must not be closed; v owns the client.
func (v *VertexBackend) WithModel(model string) port.ModelBackend {
	c := &VertexBackend{model: model, maxTokens: v.maxTokens, generator: v.generator}
	if v.client != nil {
		c.generator = v.newModel(model)
	}
	return c
}

func (v *VertexBackend) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := v.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", backend.NewTransportError(domain.ModelGemini, fmt.Errorf("vertex generate content: %w", err))
	}

	text := responseText(resp)
	if text == "" {
		log.Warn().Str("model", v.model).Msg("gemini.VertexBackend: empty generation, using placeholder")
		return domain.NoSummaryPlaceholder, nil
	}
	return text, nil
}

// SummarizeStream reads GenerateContentStream until iterator.Done and yields
// the text of every response.
func (v *VertexBackend) SummarizeStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		// stopping the range cancels the underlying stream
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		it := v.generator.GenerateContentStream(ctx, genai.Text(prompt))
		produced := false
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				yield("", backend.NewTransportError(domain.ModelGemini, fmt.Errorf("vertex stream: %w", err)))
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			produced = true
			if !yield(text, nil) {
				return
			}
		}
		if !produced {
			log.Warn().Str("model", v.model).Msg("gemini.VertexBackend: empty stream, using placeholder")
			yield(domain.NoSummaryPlaceholder, nil)
		}
	}
}

// Close releases the underlying Vertex client.
func (v *VertexBackend) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
