package port

import "docsummary/internal/domain"

// ProgressSink receives stage transitions of a single summarization run.
type ProgressSink interface {
	Report(stage domain.Stage, message string)
}

// StatusRegister is the process-wide, last-writer-wins status side channel.
type StatusRegister interface {
	Set(stage, message string)
	Get() domain.StatusSnapshot
}
