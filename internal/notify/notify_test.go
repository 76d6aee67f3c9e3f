package notify

import (
	"testing"
	"time"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-testutil"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestFeed_Add(t *testing.T) {
	f := NewFeed(WithClock(fixedClock(1000)))

	for i := 1; i <= 6; i++ {
		f.Add(TypeAdd, &inventory.Item{Name: "water", Count: i})
	}

	all := f.All()
	testutil.AssertEqual(t, "capped", len(all), DefaultLimit)
	testutil.AssertEqual(t, "newest first", all[0].Item.Count, 6)
	testutil.AssertEqual(t, "oldest kept", all[3].Item.Count, 3)
	testutil.AssertEqual(t, "unique timestamps", all[0].Timestamp, int64(1005))
	testutil.AssertEqual(t, "unique timestamps tail", all[3].Timestamp, int64(1002))
}

func TestFeed_Remove(t *testing.T) {
	f := NewFeed(WithClock(fixedClock(50)), WithLimit(10))
	a := f.Add(TypeUsed, &inventory.Item{Name: "burger", Count: 1})
	b := f.Add(TypeRemoved, &inventory.Item{Name: "water", Count: 2})

	f.Remove(a.Timestamp)
	all := f.All()
	testutil.AssertEqual(t, "one left", len(all), 1)
	testutil.AssertEqual(t, "kept", all[0].Timestamp, b.Timestamp)

	f.Remove(999)
	testutil.AssertEqual(t, "unknown ignored", f.Len(), 1)

	f.Clear()
	testutil.AssertEqual(t, "cleared", f.Len(), 0)
}

func TestFeed_AllIsCopy(t *testing.T) {
	f := NewFeed()
	f.Add(TypeAdd, &inventory.Item{Name: "water", Count: 2})

	all := f.All()
	all[0].Item.Count = 99

	testutil.AssertEqual(t, "unchanged", f.All()[0].Item.Count, 2)
}

func TestFormatter_Format(t *testing.T) {
	defs := catalog.New(map[string]*catalog.Definition{
		"water": {Label: "Water Bottle"},
	})

	tests := map[string]struct {
		overrides map[string]string
		alert     Alert
		exp       string
	}{
		"add uses catalog label": {
			alert: Alert{Type: TypeAdd, Item: &inventory.Item{Name: "water", Count: 3}},
			exp:   "+3 Water Bottle",
		},
		"unknown item falls back to name": {
			alert: Alert{Type: TypeRemoved, Item: &inventory.Item{Name: "rock", Count: 1}},
			exp:   "-1 rock",
		},
		"metadata label wins": {
			alert: Alert{Type: TypeUsed, Item: &inventory.Item{
				Name:     "water",
				Count:    1,
				MetaData: inventory.Metadata{inventory.KeyCustomItemLabel: inventory.String("Holy Water")},
			}},
			exp: "Used Holy Water",
		},
		"override with sprig": {
			overrides: map[string]string{TypeEquipped: `{{ .Label | upper }} ready`},
			alert:     Alert{Type: TypeEquipped, Item: &inventory.Item{Name: "water", Count: 1}},
			exp:       "WATER BOTTLE ready",
		},
		"unknown type": {
			alert: Alert{Type: "dropped", Item: &inventory.Item{Name: "water", Count: 1}},
			exp:   "dropped Water Bottle",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := NewFormatter(defs, tt.overrides)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := f.Format(tt.alert)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "text", got, tt.exp)
		})
	}
}

func TestNewFormatter_BadTemplate(t *testing.T) {
	_, err := NewFormatter(catalog.New(nil), map[string]string{TypeAdd: "{{ .Count "})
	testutil.AssertErrorContains(t, err, "parsing add template")
}
