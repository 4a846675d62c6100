package gemini

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"docsummary/internal/backend"
	"docsummary/internal/config"
	"docsummary/internal/domain"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string

	stream    []*genai.GenerateContentResponse
	streamErr error
	streamCtx context.Context
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}

func (f *fakeGenerator) GenerateContentStream(ctx context.Context, parts ...genai.Part) responseIterator {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	f.streamCtx = ctx
	return &fakeIterator{responses: f.stream, err: f.streamErr}
}

type fakeIterator struct {
	responses []*genai.GenerateContentResponse
	err       error
}

func (it *fakeIterator) Next() (*genai.GenerateContentResponse, error) {
	if len(it.responses) > 0 {
		r := it.responses[0]
		it.responses = it.responses[1:]
		return r, nil
	}
	if it.err != nil {
		return nil, it.err
	}
	return nil, iterator.Done
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func TestVertexBackend_Summarize_Success(t *testing.T) {
	g := &fakeGenerator{resp: textResponse(genai.Text("A brief "), genai.Text("summary."))}
	v := newVertexBackendWithGenerator("gemini-2.0-flash", g)

	text, err := v.Summarize(context.Background(), "Summarize this text concisely:\nHello world")

	require.NoError(t, err)
	assert.Equal(t, "A brief summary.", text)
	assert.Equal(t, "Summarize this text concisely:\nHello world", g.prompt)
	assert.Equal(t, domain.ModelGemini, v.Name())
	assert.NoError(t, v.Close())
}

func TestVertexBackend_Summarize_EmptyUsesPlaceholder(t *testing.T) {
	v := newVertexBackendWithGenerator("m", &fakeGenerator{resp: &genai.GenerateContentResponse{}})

	text, err := v.Summarize(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, domain.NoSummaryPlaceholder, text)
}

func TestVertexBackend_Summarize_Error(t *testing.T) {
	v := newVertexBackendWithGenerator("m", &fakeGenerator{err: errors.New("permission denied")})

	_, err := v.Summarize(context.Background(), "p")

	require.Error(t, err)
	assert.Equal(t, backend.KindTransport, backend.KindOf(err))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestNewVertexBackend_RequiresProject(t *testing.T) {
	_, err := NewVertexBackend(context.Background(), &config.BackendConfig{VertexLocation: "us-central1"})
	assert.Error(t, err)
}

func TestVertexBackend_SummarizeStream(t *testing.T) {
	g := &fakeGenerator{stream: []*genai.GenerateContentResponse{
		textResponse(genai.Text("A brief ")),
		{},
		textResponse(genai.Text("summary.")),
	}}
	v := newVertexBackendWithGenerator("gemini-2.0-flash", g)

	var deltas []string
	for text, err := range v.SummarizeStream(context.Background(), "prompt") {
		require.NoError(t, err)
		deltas = append(deltas, text)
	}

	assert.Equal(t, []string{"A brief ", "summary."}, deltas)
	assert.Equal(t, "prompt", g.prompt)
	// the stream context is released once the range ends
	assert.Error(t, g.streamCtx.Err())
}

func TestVertexBackend_SummarizeStream_EmptyUsesPlaceholder(t *testing.T) {
	v := newVertexBackendWithGenerator("m", &fakeGenerator{})

	var deltas []string
	for text, err := range v.SummarizeStream(context.Background(), "p") {
		require.NoError(t, err)
		deltas = append(deltas, text)
	}

	assert.Equal(t, []string{domain.NoSummaryPlaceholder}, deltas)
}

func TestVertexBackend_SummarizeStream_ErrorAfterText(t *testing.T) {
	g := &fakeGenerator{
		stream:    []*genai.GenerateContentResponse{textResponse(genai.Text("partial"))},
		streamErr: errors.New("quota exceeded"),
	}
	v := newVertexBackendWithGenerator("m", g)

	var deltas []string
	var lastErr error
	for text, err := range v.SummarizeStream(context.Background(), "p") {
		if err != nil {
			lastErr = err
			continue
		}
		deltas = append(deltas, text)
	}

	assert.Equal(t, []string{"partial"}, deltas)
	require.Error(t, lastErr)
	assert.Equal(t, backend.KindTransport, backend.KindOf(lastErr))
	assert.Contains(t, lastErr.Error(), "quota exceeded")
}

func TestVertexBackend_WithModel(t *testing.T) {
	g := &fakeGenerator{resp: textResponse(genai.Text("ok"))}
	v := newVertexBackendWithGenerator("gemini-2.0-flash", g)

	pro, ok := v.WithModel("gemini-1.5-pro").(*VertexBackend)
	require.True(t, ok)

	assert.Equal(t, "gemini-1.5-pro", pro.Model())
	assert.Equal(t, "gemini-2.0-flash", v.Model())
	text, err := pro.Summarize(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
