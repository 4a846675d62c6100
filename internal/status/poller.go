package status

import (
	"context"
	"time"

	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// Poller samples a register at a fixed interval.
type Poller struct {
	register port.StatusRegister
	interval time.Duration
	now      func() time.Time
}

// NewPoller creates a Poller. A non-positive interval defaults to 100ms.
func NewPoller(register port.StatusRegister, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Poller{register: register, interval: interval, now: time.Now}
}

// Interval returns the sampling interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run samples the register until ctx is done or emit fails. Nothing is emitted
// while the register's stage is empty. The first sample is taken immediately.
func (p *Poller) Run(ctx context.Context, emit func(domain.StatusUpdate) error) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		snap := p.register.Get()
		if snap.Stage != "" {
			update := domain.StatusUpdate{
				Stage:     snap.Stage,
				Message:   snap.Message,
				Timestamp: p.now().Format(time.RFC3339Nano),
			}
			if err := emit(update); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
