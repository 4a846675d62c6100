package backend

import (
	"context"
	"fmt"
	"sort"

	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// Registry resolves a model choice to a backend once per request.
type Registry struct {
	backends map[domain.ModelChoice]port.ModelBackend
	models   map[domain.ModelChoice]string
	ready    map[domain.ModelChoice]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: map[domain.ModelChoice]port.ModelBackend{},
		models:   map[domain.ModelChoice]string{},
		ready:    map[domain.ModelChoice]bool{},
	}
}

// Register adds a backend. model and configured are reported by Backends.
func (r *Registry) Register(b port.ModelBackend, model string, configured bool) {
	r.backends[b.Name()] = b
	r.models[b.Name()] = model
	r.ready[b.Name()] = configured
}

// Resolve returns the backend for choice. An unknown choice yields an
// Unavailable backend so the failure flows through the normal event path.
// Choices are matched exactly, so "CLAUDE" or " gemini " are unknown.
func (r *Registry) Resolve(choice string) port.ModelBackend {
	mc := domain.ModelChoice(choice)
	if mc == "" {
		mc = domain.DefaultModelChoice
	}
	if b, ok := r.backends[mc]; ok {
		return b
	}
	return &Unavailable{
		Choice: mc,
		Err:    fmt.Errorf("%w: %q", domain.ErrInvalidModelChoice, choice),
	}
}

// Backends lists registered backends sorted by name.
func (r *Registry) Backends() []domain.BackendInfo {
	out := make([]domain.BackendInfo, 0, len(r.backends))
	for name := range r.backends {
		out = append(out, domain.BackendInfo{
			Name:       name,
			Model:      r.models[name],
			Configured: r.ready[name],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AnyConfigured reports whether at least one backend has a credential.
func (r *Registry) AnyConfigured() bool {
	for _, ok := range r.ready {
		if ok {
			return true
		}
	}
	return false
}

// Unavailable is the backend used for a model choice that cannot be served.
// It never calls a vendor.
type Unavailable struct {
	Choice domain.ModelChoice
	Err    error
}

func (u *Unavailable) Name() domain.ModelChoice { return u.Choice }

func (u *Unavailable) PromptStyle() domain.PromptStyle { return domain.PromptStylePlain }

func (u *Unavailable) Summarize(_ context.Context, _ string) (string, error) {
	return "", u.Err
}
