package console

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-inventory/internal/fixtures"
	"github.com/pixil98/go-inventory/internal/overlay"
	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHost struct {
	mu     sync.Mutex
	events []string
}

func (m *mockHost) Send(_ context.Context, event string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockHost) Call(_ context.Context, event string, _ any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return json.RawMessage(`true`), nil
}

func newTestConsole(t *testing.T, seed fixtures.Seed) (*Console, *overlay.Store) {
	t.Helper()

	set, err := fixtures.Load("../../assets/fixtures")
	require.NoError(t, err)

	store := overlay.NewStore(&mockHost{})
	require.NoError(t, set.Apply(context.Background(), store, seed))

	c, err := NewConsole(store, WithFixtures(set))
	require.NoError(t, err)
	return c, store
}

func TestConsole_Exec(t *testing.T) {
	tests := map[string]struct {
		lines   []string
		expOut  []string
		expErr  string
		noStash bool
	}{
		"show lists both containers": {
			lines:  []string{"show"},
			expOut: []string{"== Pockets (char-1)", "== Stash (stash-9)", "Burger", "Kitchen"},
		},
		"hold and drop moves a stack": {
			lines:  []string{"hold p 1", "drop s 2"},
			expOut: []string{"Holding 4 of Burger from player slot 1", "Move."},
		},
		"hold half": {
			lines:  []string{"hold p 3 half"},
			expOut: []string{"Holding 3 of"},
		},
		"cancel puts the stack back": {
			lines:  []string{"hold p 1", "cancel"},
			expOut: []string{"Put back."},
		},
		"quick transfer": {
			lines:  []string{"quick s 4"},
			expOut: []string{"Move."},
		},
		"drop without holding": {
			lines:  []string{"drop p 1"},
			expErr: "Not holding an item.",
		},
		"bad side": {
			lines:  []string{"hold x 1"},
			expErr: "Side must be player (p) or secondary (s).",
		},
		"bad amount": {
			lines:  []string{"hold p 1 lots"},
			expErr: "Amount must be half, single or a positive number.",
		},
		"missing argument": {
			lines:  []string{"hold p"},
			expErr: "Expected at least 2 argument(s), got 1",
		},
		"unknown command": {
			lines:  []string{"dance"},
			expErr: "Unknown command: dance",
		},
		"cart needs a shop": {
			lines:  []string{"cart add 1"},
			expErr: "Secondary inventory is not a shop.",
		},
		"recipe out of range": {
			lines:  []string{"recipe 9"},
			expErr: "Unknown recipe: index 8.",
		},
		"recipe moves the cursor": {
			lines:  []string{"recipe 2"},
			expOut: []string{"> coffee:"},
		},
		"uncraft when idle": {
			lines:  []string{"uncraft"},
			expErr: "Nothing is being crafted.",
		},
		"seed menu": {
			lines:  []string{"seed"},
			expOut: []string{"Apartment Stash", "Corner Market", "Pockets"},
		},
		"seed opens a shop": {
			lines:   []string{"seed 2", "cart add 2", "cart"},
			expOut:  []string{"== Market (shop-24)", "Cart: 1 line(s), $4.50.", "Burger x1 @ $4.50 = $4.50"},
			noStash: true,
		},
		"seed out of range": {
			lines:  []string{"seed 7"},
			expErr: "Invalid selection!",
		},
		"help lists categories": {
			lines:  []string{"help"},
			expOut: []string{"Crafting: craft, recipe, uncraft", "Session: close, quit"},
		},
		"help for one command": {
			lines:  []string{"help hold"},
			expOut: []string{"Usage: hold <side> <slot> [amount]"},
		},
		"give needs players nearby": {
			lines:  []string{"hold p 1", "give"},
			expErr: "Item cannot be given.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			seed := fixtures.Seed{Player: "pockets", Secondary: "stash", Bench: "kitchen"}
			if tt.noStash {
				seed.Secondary = ""
			}
			c, _ := newTestConsole(t, seed)

			var buf bytes.Buffer
			var err error
			for _, line := range tt.lines {
				if err = c.Exec(context.Background(), &buf, line); err != nil {
					break
				}
			}

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				var userErr *UserError
				assert.ErrorAs(t, err, &userErr)
				return
			}
			require.NoError(t, err)
			for _, exp := range tt.expOut {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}

func TestConsole_Close(t *testing.T) {
	c, store := newTestConsole(t, fixtures.Seed{Player: "pockets"})

	var buf bytes.Buffer
	require.NoError(t, c.Exec(context.Background(), &buf, "close"))

	testutil.AssertEqual(t, "output", buf.String(), "Closed.\n")
	testutil.AssertEqual(t, "hidden", store.View().Hidden, true)
}

func TestConsole_Alerts(t *testing.T) {
	c, _ := newTestConsole(t, fixtures.Seed{Player: "pockets"})

	var buf bytes.Buffer
	require.NoError(t, c.Exec(context.Background(), &buf, "alerts"))
	testutil.AssertEqual(t, "output", buf.String(), "No recent changes.\n")
}

type pipe struct {
	io.Reader
	io.Writer
}

func TestConsole_RunSession(t *testing.T) {
	c, _ := newTestConsole(t, fixtures.Seed{Player: "pockets"})

	var out bytes.Buffer
	in := strings.NewReader("\nhold p 1\nbogus\nquit\nshow\n")
	require.NoError(t, c.RunSession(context.Background(), pipe{Reader: in, Writer: &out}))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Overlay dev console."))
	assert.Contains(t, text, "Holding 4 of Burger")
	assert.Contains(t, text, "Unknown command: bogus")
	assert.True(t, strings.HasSuffix(text, "Bye.\n"))
	assert.NotContains(t, text, "== Stash")
}

func TestConsole_RunSessionCancelled(t *testing.T) {
	c, _ := newTestConsole(t, fixtures.Seed{Player: "pockets"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := c.RunSession(ctx, pipe{Reader: strings.NewReader("show\n"), Writer: &out})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "== Pockets")
}
