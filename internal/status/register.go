// Package status holds the process-wide status register read by the /status feed.
package status

import (
	"sync"

	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// Register is a last-writer-wins store of the most recent stage and message.
// Concurrent summarizations overwrite each other; the register is advisory only.
type Register struct {
	mu   sync.RWMutex
	snap domain.StatusSnapshot
}

// NewRegister creates an empty Register.
func NewRegister() *Register {
	return &Register{}
}

var _ port.StatusRegister = (*Register)(nil)

// Set replaces stage and message together.
func (r *Register) Set(stage, message string) {
	r.mu.Lock()
	r.snap = domain.StatusSnapshot{Stage: stage, Message: message}
	r.mu.Unlock()
}

// Get returns the current snapshot.
func (r *Register) Get() domain.StatusSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Report implements port.ProgressSink so a run can mirror its stages here.
func (r *Register) Report(stage domain.Stage, message string) {
	r.Set(string(stage), message)
}
