package port

import (
	"context"
	"iter"

	"docsummary/internal/domain"
)

// ModelBackend abstracts a language-model completion service used for summarization.
type ModelBackend interface {
	// Name identifies the backend variant.
	Name() domain.ModelChoice
	// PromptStyle tells the prompt builder how to frame instruction and text.
	PromptStyle() domain.PromptStyle
	// Summarize sends prompt to the backend and returns the completed text.
	// Failures are *backend.Error values.
	Summarize(ctx context.Context, prompt string) (string, error)
}

// StreamingBackend is a ModelBackend that can hand over the generation as the
// vendor produces it.
type StreamingBackend interface {
	ModelBackend
	// SummarizeStream yields text deltas in order. A non-nil error is yielded
	// once and ends the sequence. Stopping the range releases the vendor call.
	SummarizeStream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// ModelSelector is implemented by backends that accept a vendor model
// identifier per request.
type ModelSelector interface {
	// WithModel returns a backend bound to model. The receiver is not changed.
	WithModel(model string) ModelBackend
}

// BackendResolver selects the backend serving a model choice.
type BackendResolver interface {
	// Resolve never returns nil; an unusable choice yields a backend whose
	// Summarize fails with an unavailable error.
	Resolve(choice string) ModelBackend
	Backends() []domain.BackendInfo
	AnyConfigured() bool
}
