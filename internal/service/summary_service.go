package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docsummary/internal/domain"
	"docsummary/internal/port"
	"docsummary/internal/prompt"
)

// SummaryServiceConfig holds the settings of SummaryService.
type SummaryServiceConfig struct {
	MaxUploadBytes int64
	// MirrorProgress copies every stage transition into the status register.
	MirrorProgress bool
	Stream         SequencerConfig
}

// SummaryService defines the summarization contract.
type SummaryService interface {
	// Summarize extracts the document text and returns the progress event
	// sequence. Errors returned here happen before streaming starts.
	Summarize(ctx context.Context, req *domain.SummarizationRequest) (iter.Seq[domain.ProgressEvent], error)
	Backends() []domain.BackendInfo
	Ready() bool
}

type summaryService struct {
	extractor port.TextExtractor
	backends  port.BackendResolver
	register  port.StatusRegister
	sequencer *Sequencer
	cfg       SummaryServiceConfig
}

// NewSummaryService creates a new SummaryService implementation. register may
// be nil when progress is not mirrored.
func NewSummaryService(
	extractor port.TextExtractor,
	backends port.BackendResolver,
	register port.StatusRegister,
	cfg SummaryServiceConfig,
) SummaryService {
	return &summaryService{
		extractor: extractor,
		backends:  backends,
		register:  register,
		sequencer: NewSequencer(cfg.Stream),
		cfg:       cfg,
	}
}

func (s *summaryService) Summarize(ctx context.Context, req *domain.SummarizationRequest) (iter.Seq[domain.ProgressEvent], error) {
	if req == nil || req.Document == nil {
		return nil, domain.ErrMissingFile
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(req.Document)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrFileTooLarge, len(req.Document), s.cfg.MaxUploadBytes)
	}
	if req.Model != "" && !domain.ValidModelName(req.Model) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidModelName, req.Model)
	}

	startedAt := req.ReceivedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	sink := s.newSink(req)

	sink.Report(domain.StageExtraction, domain.MsgExtracting)
	text, err := s.extractor.Extract(ctx, port.ExtractInput{FileName: req.FileName, Data: req.Document})
	if err != nil {
		if errors.Is(err, domain.ErrNoExtractableText) {
			sink.Report(domain.StageExtraction, domain.MsgExtractionFailed)
		}
		return nil, fmt.Errorf("extracting %q: %w", req.FileName, err)
	}

	b := s.selectBackend(req)
	p := prompt.Build(b.PromptStyle(), req.CustomPrompt, text)

	log.Info().
		Str("file", req.FileName).
		Str("backend", string(b.Name())).
		Str("model", req.Model).
		Int("text_len", len(text)).
		Msg("service.Summarize: starting stream")

	return s.sequencer.Events(ctx, Job{
		Prompt:    p,
		Backend:   b,
		StartedAt: startedAt,
		Sink:      sink,
	}), nil
}

// selectBackend resolves the model choice and applies the per-request model
// identifier when the backend accepts one.
func (s *summaryService) selectBackend(req *domain.SummarizationRequest) port.ModelBackend {
	b := s.backends.Resolve(string(req.ModelChoice))
	if req.Model == "" {
		return b
	}
	sel, ok := b.(port.ModelSelector)
	if !ok {
		log.Warn().Str("backend", string(b.Name())).Str("model", req.Model).
			Msg("service.Summarize: backend takes no model override, ignoring")
		return b
	}
	return sel.WithModel(req.Model)
}

func (s *summaryService) Backends() []domain.BackendInfo {
	return s.backends.Backends()
}

func (s *summaryService) Ready() bool {
	return s.backends.AnyConfigured()
}

func (s *summaryService) newSink(req *domain.SummarizationRequest) *requestSink {
	sink := &requestSink{
		logger: log.With().Str("file", req.FileName).Logger(),
	}
	if s.cfg.MirrorProgress && s.register != nil {
		sink.register = s.register
	}
	return sink
}

// requestSink is the progress handle of a single request.
type requestSink struct {
	logger   zerolog.Logger
	register port.StatusRegister
}

func (r *requestSink) Report(stage domain.Stage, message string) {
	r.logger.Debug().Str("stage", string(stage)).Msg(message)
	if r.register != nil {
		r.register.Set(string(stage), message)
	}
}
