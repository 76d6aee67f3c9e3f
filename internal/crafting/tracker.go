package crafting

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-inventory/internal/protocol"
)

const (
	DefaultGrace = 100 * time.Millisecond
)

// Sender delivers a fire-and-forget call to the host.
type Sender interface {
	Send(ctx context.Context, event string, data any) error
}

// Progress is the state of the one active craft.
type Progress struct {
	Recipe   string
	Start    time.Time
	Duration time.Duration
	Percent  float64
	Ending   bool
}

// Tracker follows a single craft from start until the host ends it. It is
// driven by Tick on a fixed interval.
type Tracker struct {
	host  Sender
	now   func() time.Time
	grace time.Duration

	mu     sync.Mutex
	active *Progress
}

type TrackerOpt func(*Tracker)

func WithClock(now func() time.Time) TrackerOpt {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithGrace(grace time.Duration) TrackerOpt {
	return func(t *Tracker) {
		t.grace = grace
	}
}

func NewTracker(host Sender, opts ...TrackerOpt) *Tracker {
	t := &Tracker{
		host:  host,
		now:   time.Now,
		grace: DefaultGrace,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start begins tracking recipe, replacing any earlier craft.
func (t *Tracker) Start(recipe string, start time.Time, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = &Progress{
		Recipe:   recipe,
		Start:    start,
		Duration: duration,
	}
}

// SetProgress applies a host-reported percentage.
func (t *Tracker) SetProgress(pct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil {
		t.active.Percent = pct
	}
}

// End clears the active craft.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = nil
}

// Progress returns a copy of the active craft.
func (t *Tracker) Progress() (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return Progress{}, false
	}
	return *t.active, true
}

func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.active != nil
}

// Tick recomputes the percentage. Once the duration plus grace has elapsed it
// asks the host to finish the craft, exactly once, and then waits for End.
func (t *Tracker) Tick(ctx context.Context) error {
	t.mu.Lock()
	if t.active == nil || t.active.Ending {
		t.mu.Unlock()
		return nil
	}

	elapsed := t.now().Sub(t.active.Start)
	if elapsed < t.active.Duration+t.grace {
		t.active.Percent = percent(elapsed, t.active.Duration)
		t.mu.Unlock()
		return nil
	}

	t.active.Ending = true
	t.active.Percent = 100
	recipe := t.active.Recipe
	t.mu.Unlock()

	slog.InfoContext(ctx, "craft finished locally", "recipe", recipe)
	return t.host.Send(ctx, protocol.EventCraftEnd, recipe)
}

func percent(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 100
	}
	return min(100, max(0, float64(elapsed)/float64(duration)*100))
}
