package service

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"docsummary/internal/backend"
	"docsummary/internal/domain"
	"docsummary/internal/port"
)

const defaultChunkSize = 100

// SequencerConfig controls the pacing of the event stream. The delays are
// synthetic: they let a client render each stage, they do not track real work.
type SequencerConfig struct {
	StageDelay time.Duration
	ChunkDelay time.Duration
	ChunkSize  int
	// LiveGeneration relays the vendor's own token stream when the backend
	// supports it, instead of chunking the finished summary.
	LiveGeneration bool
}

// Job is one run of the sequencer.
type Job struct {
	Prompt    string
	Backend   port.ModelBackend
	StartedAt time.Time
	// Sink receives every stage transition of the run. May be nil.
	Sink port.ProgressSink
}

// Sequencer turns a single backend call into the progress event stream.
type Sequencer struct {
	cfg SequencerConfig
	now func() time.Time
}

// NewSequencer creates a Sequencer. A non-positive chunk size defaults to 100.
func NewSequencer(cfg SequencerConfig) *Sequencer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &Sequencer{cfg: cfg, now: time.Now}
}

// Events returns the lazy event sequence of job. Nothing happens until the
// sequence is ranged over, and it can be consumed once. The stream always ends
// in exactly one terminal event unless the consumer stops early or ctx is
// cancelled during a pause, in which case it ends without one.
//
// The backend call is detached from ctx: once issued it runs to completion
// even if the consumer goes away, and its result is then dropped. A relayed
// vendor stream is abandoned instead, at the next delta after ctx ends.
func (s *Sequencer) Events(ctx context.Context, job Job) iter.Seq[domain.ProgressEvent] {
	return func(yield func(domain.ProgressEvent) bool) {
		run := &sequencerRun{seq: s, ctx: ctx, job: job, yield: yield}
		run.execute()
	}
}

type sequencerRun struct {
	seq   *Sequencer
	ctx   context.Context
	job   Job
	yield func(domain.ProgressEvent) bool
}

func (r *sequencerRun) execute() {
	if !r.stage(domain.StageProcessing, domain.MsgExtracting) {
		return
	}
	if !r.stage(domain.StageInitialization, domain.MsgInitializing) {
		return
	}

	if sb, ok := r.job.Backend.(port.StreamingBackend); ok && r.seq.cfg.LiveGeneration {
		r.relay(sb)
		return
	}

	summary, err := r.job.Backend.Summarize(context.WithoutCancel(r.ctx), r.job.Prompt)
	if err != nil {
		if !backend.IsUnavailable(err) {
			r.fail(err)
			return
		}
		r.logUnavailable(err)
		summary = domain.FallbackSummary
	}
	if r.ctx.Err() != nil {
		log.Debug().Msg("service.Sequencer: consumer gone, discarding summary")
		return
	}
	r.chunkSummary(summary)
}

// chunkSummary emits a finished summary as paced chunk events followed by the
// completed event.
func (r *sequencerRun) chunkSummary(summary string) {
	chunks := ChunkText(summary, r.seq.cfg.ChunkSize)
	total := utf8.RuneCountInString(summary)
	done := 0
	for i, chunk := range chunks {
		if i == 0 {
			r.report(domain.StageGeneration, domain.MsgGenerating)
		} else if !r.pause(r.seq.cfg.ChunkDelay) {
			return
		}
		done += utf8.RuneCountInString(chunk)
		if !r.emit(domain.NewChunkEvent(chunk, fmt.Sprintf("%d/%d", done, total), r.elapsed())) {
			return
		}
	}
	r.complete(summary)
}

// relay forwards the vendor stream as it arrives. Deltas are regrouped into
// chunks of ChunkSize runes with no synthetic delay. Progress is left out
// because the total length is unknown until the stream ends.
func (r *sequencerRun) relay(b port.StreamingBackend) {
	size := r.seq.cfg.ChunkSize
	var full strings.Builder
	var pending []rune
	started := false

	flush := func(n int) bool {
		if !started {
			r.report(domain.StageGeneration, domain.MsgGenerating)
			started = true
		}
		chunk := string(pending[:n])
		pending = pending[n:]
		return r.emit(domain.NewChunkEvent(chunk, "", r.elapsed()))
	}

	for delta, err := range b.SummarizeStream(context.WithoutCancel(r.ctx), r.job.Prompt) {
		if err != nil {
			if full.Len() == 0 && backend.IsUnavailable(err) {
				r.logUnavailable(err)
				r.chunkSummary(domain.FallbackSummary)
				return
			}
			r.fail(err)
			return
		}
		if r.ctx.Err() != nil {
			log.Debug().Msg("service.Sequencer: consumer gone, abandoning stream")
			return
		}
		full.WriteString(delta)
		pending = append(pending, []rune(delta)...)
		for len(pending) >= size {
			if !flush(size) {
				return
			}
		}
	}
	if r.ctx.Err() != nil {
		return
	}
	if len(pending) > 0 && !flush(len(pending)) {
		return
	}
	r.complete(full.String())
}

func (r *sequencerRun) complete(summary string) {
	r.report(domain.StageGeneration, domain.MsgCompleted)
	r.emit(domain.NewCompletedEvent(strings.TrimSpace(summary), r.elapsed()))
}

func (r *sequencerRun) fail(err error) {
	log.Error().Err(err).Str("backend", string(r.job.Backend.Name())).
		Msg("service.Sequencer: backend call failed")
	r.report(domain.StageGeneration, domain.MsgGenerationFailed)
	r.emit(domain.NewErrorEvent(domain.StageGeneration, domain.GenerationFailedText, err.Error(), r.elapsed()))
}

func (r *sequencerRun) logUnavailable(err error) {
	log.Warn().Err(err).Str("backend", string(r.job.Backend.Name())).
		Msg("service.Sequencer: backend unavailable, using fallback summary")
}

// stage emits an incoming stage event and then pauses.
func (r *sequencerRun) stage(stage domain.Stage, message string) bool {
	r.report(stage, message)
	if !r.emit(domain.NewIncomingEvent(stage, message, r.elapsed())) {
		return false
	}
	return r.pause(r.seq.cfg.StageDelay)
}

func (r *sequencerRun) emit(e domain.ProgressEvent) bool {
	return r.yield(e)
}

func (r *sequencerRun) report(stage domain.Stage, message string) {
	if r.job.Sink != nil {
		r.job.Sink.Report(stage, message)
	}
}

func (r *sequencerRun) elapsed() time.Duration {
	if r.job.StartedAt.IsZero() {
		return 0
	}
	return r.seq.now().Sub(r.job.StartedAt)
}

// pause waits for d and reports false if ctx ended first.
func (r *sequencerRun) pause(d time.Duration) bool {
	if d <= 0 {
		return r.ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-r.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ChunkText splits s into contiguous pieces of size runes; the last piece may
// be shorter. An empty s yields no chunks.
func ChunkText(s string, size int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if s == "" {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
