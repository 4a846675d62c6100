package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docsummary/internal/backend"
	"docsummary/internal/domain"
	"docsummary/internal/port"
	"docsummary/internal/service"
	"docsummary/internal/status"
	"docsummary/mocks"
)

type summaryServiceSetup struct {
	extractor *mocks.MockTextExtractor
	resolver  *mocks.MockBackendResolver
	register  *status.Register
	service   service.SummaryService
}

func newSummaryService(mirror bool) *summaryServiceSetup {
	s := &summaryServiceSetup{
		extractor: new(mocks.MockTextExtractor),
		resolver:  new(mocks.MockBackendResolver),
		register:  status.NewRegister(),
	}
	s.service = service.NewSummaryService(s.extractor, s.resolver, s.register, service.SummaryServiceConfig{
		MaxUploadBytes: 1024,
		MirrorProgress: mirror,
		Stream:         service.SequencerConfig{ChunkSize: 100},
	})
	return s
}

func drain(t *testing.T, s service.SummaryService, req *domain.SummarizationRequest) []domain.ProgressEvent {
	t.Helper()
	seq, err := s.Summarize(context.Background(), req)
	require.NoError(t, err)
	var events []domain.ProgressEvent
	for e := range seq {
		events = append(events, e)
	}
	return events
}

func TestSummaryService_RoundTrip(t *testing.T) {
	s := newSummaryService(true)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelClaude)
	b.On("PromptStyle").Return(domain.PromptStyleConversational)
	b.On("Summarize", mock.Anything, "\n\nHuman: Summarize this text concisely:\nHello world\n\nAssistant:").
		Return("A brief summary.", nil)

	s.extractor.On("Extract", mock.Anything, port.ExtractInput{FileName: "doc.txt", Data: []byte("Hello world")}).
		Return("Hello world", nil)
	s.resolver.On("Resolve", "claude").Return(b)

	events := drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("Hello world"),
		FileName:    "doc.txt",
		ModelChoice: domain.ModelClaude,
		ReceivedAt:  time.Now(),
	})

	last := events[len(events)-1]
	assert.Equal(t, domain.StatusCompleted, last.Status)
	assert.Equal(t, "A brief summary.", last.SummaryText())
	b.AssertExpectations(t)
	s.extractor.AssertExpectations(t)
}

func TestSummaryService_CustomPromptPlainStyle(t *testing.T) {
	s := newSummaryService(false)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelGemini)
	b.On("PromptStyle").Return(domain.PromptStylePlain)
	b.On("Summarize", mock.Anything, "List the key points:\nbody").Return("points", nil)

	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("body", nil)
	s.resolver.On("Resolve", "gemini").Return(b)

	events := drain(t, s.service, &domain.SummarizationRequest{
		Document:     []byte("body"),
		FileName:     "a.md",
		ModelChoice:  domain.ModelGemini,
		CustomPrompt: "List the key points:",
	})

	assert.Equal(t, "points", events[len(events)-1].SummaryText())
	b.AssertExpectations(t)
}

func TestSummaryService_MissingCredentialFallsBack(t *testing.T) {
	s := newSummaryService(true)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelClaude)
	b.On("PromptStyle").Return(domain.PromptStyleConversational)
	b.On("Summarize", mock.Anything, mock.Anything).Return("", backend.NewAuthMissingError(domain.ModelClaude))

	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	s.resolver.On("Resolve", "claude").Return(b)

	events := drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: domain.ModelClaude,
	})

	last := events[len(events)-1]
	assert.Equal(t, domain.StatusCompleted, last.Status)
	assert.Equal(t, domain.FallbackSummary, last.SummaryText())
}

func TestSummaryService_NoExtractableTextNeverResolvesBackend(t *testing.T) {
	s := newSummaryService(true)
	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("", domain.ErrNoExtractableText)

	seq, err := s.service.Summarize(context.Background(), &domain.SummarizationRequest{
		Document: []byte("%PDF-1.4"),
		FileName: "scan.pdf",
	})

	assert.Nil(t, seq)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	s.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
	assert.Equal(t, domain.StatusSnapshot{Stage: "extraction", Message: domain.MsgExtractionFailed}, s.register.Get())
}

func TestSummaryService_FileTooLarge(t *testing.T) {
	s := newSummaryService(true)

	_, err := s.service.Summarize(context.Background(), &domain.SummarizationRequest{
		Document: make([]byte, 2048),
		FileName: "big.txt",
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	s.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestSummaryService_MissingFile(t *testing.T) {
	s := newSummaryService(true)

	_, err := s.service.Summarize(context.Background(), &domain.SummarizationRequest{FileName: "x.txt"})

	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestSummaryService_ExtractorFailurePropagates(t *testing.T) {
	s := newSummaryService(true)
	boom := errors.New("disk on fire")
	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("", boom)

	_, err := s.service.Summarize(context.Background(), &domain.SummarizationRequest{
		Document: []byte("x"),
		FileName: "x.txt",
	})

	assert.ErrorIs(t, err, boom)
}

func TestSummaryService_MirrorsProgressIntoRegister(t *testing.T) {
	s := newSummaryService(true)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelGemini)
	b.On("PromptStyle").Return(domain.PromptStylePlain)
	b.On("Summarize", mock.Anything, mock.Anything).Return("done", nil)
	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	s.resolver.On("Resolve", "gemini").Return(b)

	drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: domain.ModelGemini,
	})

	assert.Equal(t, domain.StatusSnapshot{Stage: "generation", Message: domain.MsgCompleted}, s.register.Get())
}

func TestSummaryService_NoMirrorLeavesRegisterEmpty(t *testing.T) {
	s := newSummaryService(false)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelGemini)
	b.On("PromptStyle").Return(domain.PromptStylePlain)
	b.On("Summarize", mock.Anything, mock.Anything).Return("done", nil)
	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	s.resolver.On("Resolve", "gemini").Return(b)

	drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: domain.ModelGemini,
	})

	assert.Equal(t, domain.StatusSnapshot{}, s.register.Get())
}

func TestSummaryService_BackendsAndReady(t *testing.T) {
	s := newSummaryService(true)
	infos := []domain.BackendInfo{{Name: domain.ModelClaude, Model: "m", Configured: true}}
	s.resolver.On("Backends").Return(infos)
	s.resolver.On("AnyConfigured").Return(true)

	assert.Equal(t, infos, s.service.Backends())
	assert.True(t, s.service.Ready())
}

func TestSummaryService_MirrorWritesEveryStage(t *testing.T) {
	register := new(mocks.MockStatusRegister)
	mock.InOrder(
		register.On("Set", "extraction", domain.MsgExtracting).Once(),
		register.On("Set", "processing", domain.MsgExtracting).Once(),
		register.On("Set", "initialization", domain.MsgInitializing).Once(),
		register.On("Set", "generation", domain.MsgGenerating).Once(),
		register.On("Set", "generation", domain.MsgCompleted).Once(),
	)
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	resolver := new(mocks.MockBackendResolver)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelGemini)
	b.On("PromptStyle").Return(domain.PromptStylePlain)
	b.On("Summarize", mock.Anything, mock.Anything).Return("done", nil)
	resolver.On("Resolve", "gemini").Return(b)

	svc := service.NewSummaryService(extractor, resolver, register, service.SummaryServiceConfig{
		MirrorProgress: true,
		Stream:         service.SequencerConfig{ChunkSize: 100},
	})
	drain(t, svc, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: domain.ModelGemini,
	})

	register.AssertExpectations(t)
	register.AssertNotCalled(t, "Get")
}

func TestSummaryService_NoExtractableTextMirrorsFailure(t *testing.T) {
	register := new(mocks.MockStatusRegister)
	mock.InOrder(
		register.On("Set", "extraction", domain.MsgExtracting).Once(),
		register.On("Set", "extraction", domain.MsgExtractionFailed).Once(),
	)
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return("", domain.ErrNoExtractableText)

	svc := service.NewSummaryService(extractor, new(mocks.MockBackendResolver), register, service.SummaryServiceConfig{
		MirrorProgress: true,
	})
	_, err := svc.Summarize(context.Background(), &domain.SummarizationRequest{
		Document: []byte("%PDF-1.4"),
		FileName: "scan.pdf",
	})

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	register.AssertExpectations(t)
}

func TestSummaryService_ModelOverride(t *testing.T) {
	s := newSummaryService(false)
	pro := new(mocks.MockModelBackend)
	pro.On("Name").Return(domain.ModelGemini)
	pro.On("PromptStyle").Return(domain.PromptStylePlain)
	pro.On("Summarize", mock.Anything, mock.Anything).Return("from pro", nil)

	flash := new(mocks.MockStreamingBackend)
	flash.On("Name").Return(domain.ModelGemini).Maybe()
	flash.On("WithModel", "gemini-1.5-pro").Return(pro)

	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	s.resolver.On("Resolve", "gemini").Return(flash)

	events := drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: domain.ModelGemini,
		Model:       "gemini-1.5-pro",
	})

	assert.Equal(t, "from pro", events[len(events)-1].SummaryText())
	flash.AssertExpectations(t)
	flash.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	pro.AssertExpectations(t)
}

func TestSummaryService_ModelOverrideIgnoredWithoutSelector(t *testing.T) {
	s := newSummaryService(false)
	b := new(mocks.MockModelBackend)
	b.On("Name").Return(domain.ModelClaude)
	b.On("PromptStyle").Return(domain.PromptStyleConversational)
	b.On("Summarize", mock.Anything, mock.Anything).Return("", backend.NewAuthMissingError(domain.ModelClaude))

	s.extractor.On("Extract", mock.Anything, mock.Anything).Return("text", nil)
	s.resolver.On("Resolve", "CLAUDE").Return(b)

	events := drain(t, s.service, &domain.SummarizationRequest{
		Document:    []byte("text"),
		FileName:    "a.txt",
		ModelChoice: "CLAUDE",
		Model:       "claude-3-5-haiku-latest",
	})

	assert.Equal(t, domain.FallbackSummary, events[len(events)-1].SummaryText())
}

func TestSummaryService_InvalidModelIdentifier(t *testing.T) {
	for _, model := range []string{"../secrets", "gemini pro", "gemini-pro:streamGenerateContent", "-flag"} {
		t.Run(model, func(t *testing.T) {
			s := newSummaryService(true)

			_, err := s.service.Summarize(context.Background(), &domain.SummarizationRequest{
				Document: []byte("text"),
				FileName: "a.txt",
				Model:    model,
			})

			assert.ErrorIs(t, err, domain.ErrInvalidModelName)
			s.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
		})
	}
}
