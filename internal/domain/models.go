package domain

import (
	"regexp"
	"time"
)

// ProgressEvent is one element of the summarization stream. Values are built
// through the constructors below and never mutated afterwards.
type ProgressEvent struct {
	Status    EventStatus `json:"status"`
	Stage     Stage       `json:"stage"`
	Message   string      `json:"message"`
	Chunk     string      `json:"chunk,omitempty"`
	Summary   *string     `json:"summary,omitempty"`
	Progress  string      `json:"progress,omitempty"`
	Timestamp float64     `json:"timestamp"`
}

// IsTerminal reports whether e is the last event of its stream.
func (e ProgressEvent) IsTerminal() bool {
	return e.Status.IsTerminal()
}

// SummaryText returns the summary carried by e, or "" if it has none.
func (e ProgressEvent) SummaryText() string {
	if e.Summary == nil {
		return ""
	}
	return *e.Summary
}

// NewIncomingEvent builds a non-terminal stage event.
func NewIncomingEvent(stage Stage, message string, elapsed time.Duration) ProgressEvent {
	return ProgressEvent{
		Status:    StatusIncoming,
		Stage:     stage,
		Message:   message,
		Timestamp: elapsed.Seconds(),
	}
}

// NewChunkEvent builds a generation event carrying one summary chunk.
func NewChunkEvent(chunk, progress string, elapsed time.Duration) ProgressEvent {
	return ProgressEvent{
		Status:    StatusIncoming,
		Stage:     StageGeneration,
		Message:   MsgGenerating,
		Chunk:     chunk,
		Progress:  progress,
		Timestamp: elapsed.Seconds(),
	}
}

// NewCompletedEvent builds the successful terminal event. The summary field is
// always present, even when empty.
func NewCompletedEvent(summary string, elapsed time.Duration) ProgressEvent {
	return ProgressEvent{
		Status:    StatusCompleted,
		Stage:     StageGeneration,
		Message:   MsgCompleted,
		Summary:   &summary,
		Timestamp: elapsed.Seconds(),
	}
}

// NewErrorEvent builds a failing terminal event.
func NewErrorEvent(stage Stage, summary, message string, elapsed time.Duration) ProgressEvent {
	return ProgressEvent{
		Status:    StatusError,
		Stage:     stage,
		Message:   message,
		Summary:   &summary,
		Timestamp: elapsed.Seconds(),
	}
}

// ErrorEnvelope is the single, non-streamed JSON body returned when a request
// fails before the event stream starts.
type ErrorEnvelope struct {
	Status  EventStatus `json:"status"`
	Stage   Stage       `json:"stage"`
	Summary string      `json:"summary"`
	Message string      `json:"message"`
}

// ExtractionErrorEnvelope is returned when the document yields no text.
func ExtractionErrorEnvelope() ErrorEnvelope {
	return ErrorEnvelope{
		Status:  StatusError,
		Stage:   StageExtraction,
		Summary: ExtractionFailedText,
		Message: MsgExtractionFailed,
	}
}

// ProcessingErrorEnvelope is returned for unhandled faults.
func ProcessingErrorEnvelope(detail string) ErrorEnvelope {
	return ErrorEnvelope{
		Status:  StatusError,
		Stage:   StageProcessing,
		Summary: GenerationFailedText,
		Message: detail,
	}
}

// SummarizationRequest is owned by a single HTTP call and discarded when its
// stream completes.
type SummarizationRequest struct {
	Document     []byte
	FileName     string
	ModelChoice  ModelChoice
	CustomPrompt string
	// Model overrides the vendor model of the chosen backend. Empty keeps the
	// configured default.
	Model        string
	ReceivedAt   time.Time
}

var modelNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidModelName reports whether model is usable as a vendor model identifier.
// The identifier ends up in a URL path, so only a conservative charset passes.
func ValidModelName(model string) bool {
	return modelNamePattern.MatchString(model)
}

// StatusSnapshot is the content of the shared status register.
type StatusSnapshot struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// StatusUpdate is one sample of the register sent on the /status feed.
type StatusUpdate struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// BackendInfo describes a configured backend for the listing endpoint.
type BackendInfo struct {
	Name       ModelChoice `json:"name"`
	Model      string      `json:"model"`
	Configured bool        `json:"configured"`
}
