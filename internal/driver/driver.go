package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 250
)

type Manager interface {
	Tick(context.Context) error
}

// ManagerFunc adapts a plain function to a Manager.
type ManagerFunc func(context.Context) error

func (f ManagerFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

type PollDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewPollDriver(managers []Manager, opts ...PollDriverOpt) *PollDriver {
	d := &PollDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *PollDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs every manager once. A failing manager is logged and the rest
// still run.
func (d *PollDriver) Tick(ctx context.Context) int {
	failed := 0
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			failed++
			slog.WarnContext(ctx, "manager tick failed", "error", err)
		}
	}
	return failed
}
