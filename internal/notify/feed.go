// Package notify keeps the short feed of item change alerts.
package notify

import (
	"slices"
	"time"

	"github.com/pixil98/go-inventory/internal/inventory"
)

const DefaultLimit = 4

const (
	TypeAdd       = "add"
	TypeRemoved   = "removed"
	TypeUsed      = "used"
	TypeHolstered = "Holstered"
	TypeEquipped  = "Equipped"
)

// Alert is one entry in the feed. Timestamp is unix milliseconds and unique
// within a feed.
type Alert struct {
	Type      string
	Item      *inventory.Item
	Timestamp int64
}

// Feed holds the newest alerts first.
type Feed struct {
	limit  int
	now    func() time.Time
	last   int64
	alerts []Alert
}

type FeedOpt func(*Feed)

func WithLimit(n int) FeedOpt {
	return func(f *Feed) {
		if n > 0 {
			f.limit = n
		}
	}
}

func WithClock(now func() time.Time) FeedOpt {
	return func(f *Feed) {
		f.now = now
	}
}

func NewFeed(opts ...FeedOpt) *Feed {
	f := &Feed{
		limit: DefaultLimit,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Add pushes an alert to the front, dropping the oldest past the limit.
func (f *Feed) Add(typ string, item *inventory.Item) Alert {
	ts := f.now().UnixMilli()
	if ts <= f.last {
		ts = f.last + 1
	}
	f.last = ts

	a := Alert{Type: typ, Item: item.Clone(), Timestamp: ts}
	f.alerts = slices.Insert(f.alerts, 0, a)
	if len(f.alerts) > f.limit {
		f.alerts = f.alerts[:f.limit]
	}
	return a
}

func (f *Feed) Remove(ts int64) {
	f.alerts = slices.DeleteFunc(f.alerts, func(a Alert) bool {
		return a.Timestamp == ts
	})
}

func (f *Feed) Clear() {
	f.alerts = nil
}

func (f *Feed) All() []Alert {
	out := make([]Alert, len(f.alerts))
	for i, a := range f.alerts {
		a.Item = a.Item.Clone()
		out[i] = a
	}
	return out
}

func (f *Feed) Len() int {
	return len(f.alerts)
}
