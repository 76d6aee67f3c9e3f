package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-inventory/internal/drag"
	"github.com/pixil98/go-inventory/internal/protocol"
)

const DefaultNearbyInterval = 2 * time.Second

// NearbyWatcher asks the host whether any players are close enough to
// receive an item. It only polls while a stack is held.
type NearbyWatcher struct {
	store    *Store
	interval time.Duration
	last     time.Time
}

func NewNearbyWatcher(store *Store, interval time.Duration) *NearbyWatcher {
	if interval <= 0 {
		interval = DefaultNearbyInterval
	}
	return &NearbyWatcher{
		store:    store,
		interval: interval,
	}
}

// Tick polls the host when the interval has passed.
func (w *NearbyWatcher) Tick(ctx context.Context) error {
	s := w.store

	s.mu.Lock()
	holding := s.session.State() == drag.Holding
	if !holding {
		s.playersNearby = false
	}
	now := s.now()
	s.mu.Unlock()

	if !holding || now.Sub(w.last) < w.interval {
		return nil
	}
	w.last = now

	raw, err := s.host.Call(ctx, protocol.EventGetNearbyPlayers, struct{}{})
	if err != nil {
		return fmt.Errorf("checking nearby players: %w", err)
	}

	var resp protocol.NearbyResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("decoding nearby players: %w", err)
		}
	}

	s.mu.Lock()
	s.playersNearby = resp.Count > 0
	s.mu.Unlock()
	return nil
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
