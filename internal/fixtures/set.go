package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/storage"
)

// Handler receives the seeded host messages.
type Handler interface {
	Handle(ctx context.Context, msg protocol.Message) error
}

// Set is every fixture found under one directory. Each kind lives in its own
// subdirectory: items, inventories, recipes and benches.
type Set struct {
	Items       *storage.FileStore[*catalog.Definition]
	Inventories *storage.FileStore[*InventorySpec]
	Recipes     *storage.FileStore[*RecipeSpec]
	Benches     *storage.FileStore[*BenchSpec]
}

func Load(dir string) (*Set, error) {
	var err error
	s := &Set{}

	s.Items, err = storage.NewFileStore[*catalog.Definition](filepath.Join(dir, "items"))
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	s.Inventories, err = storage.NewFileStore[*InventorySpec](filepath.Join(dir, "inventories"))
	if err != nil {
		return nil, fmt.Errorf("loading inventories: %w", err)
	}
	s.Recipes, err = storage.NewFileStore[*RecipeSpec](filepath.Join(dir, "recipes"))
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	s.Benches, err = storage.NewFileStore[*BenchSpec](filepath.Join(dir, "benches"))
	if err != nil {
		return nil, fmt.Errorf("loading benches: %w", err)
	}

	if err := s.resolve(); err != nil {
		return nil, err
	}

	slog.Info("loaded fixtures",
		"items", s.Items.Len(),
		"inventories", s.Inventories.Len(),
		"recipes", s.Recipes.Len(),
		"benches", s.Benches.Len())

	return s, nil
}

// resolve links benches to their recipes and checks every stacked item and
// reagent names a known definition.
func (s *Set) resolve() error {
	el := errors.NewErrorList()

	for id, b := range s.Benches.GetAll() {
		for i := range b.Recipes {
			if err := b.Recipes[i].Resolve(s.Recipes); err != nil {
				el.Add(fmt.Errorf("bench %s: %w", id, err))
			}
		}
	}

	for id, r := range s.Recipes.GetAll() {
		if _, ok := s.Items.Get(r.Result.Name); !ok {
			el.Add(fmt.Errorf("recipe %s: unknown result %q", id, r.Result.Name))
		}
		for _, it := range r.Items {
			if _, ok := s.Items.Get(it.Name); !ok {
				el.Add(fmt.Errorf("recipe %s: unknown reagent %q", id, it.Name))
			}
		}
	}

	for id, inv := range s.Inventories.GetAll() {
		for _, it := range inv.Inventory {
			if it == nil {
				continue
			}
			if _, ok := s.Items.Get(it.Name); !ok {
				el.Add(fmt.Errorf("inventory %s: unknown item %q", id, it.Name))
			}
		}
	}

	return el.Err()
}

// Seed names the fixtures pushed to the overlay. Secondary and Bench are
// optional.
type Seed struct {
	Player    string
	Secondary string
	Bench     string
}

// Apply replays the host messages that open the overlay with the seeded
// fixtures.
func (s *Set) Apply(ctx context.Context, h Handler, seed Seed) error {
	player, ok := s.Inventories.Get(seed.Player)
	if !ok {
		return fmt.Errorf("unknown player inventory %q", seed.Player)
	}

	msgs := []seedMessage{
		{protocol.SetItems, s.Items.GetAll()},
		{protocol.ItemsLoaded, nil},
		{protocol.SetPlayerInventory, player.Snapshot},
	}

	if seed.Secondary != "" {
		secondary, ok := s.Inventories.Get(seed.Secondary)
		if !ok {
			return fmt.Errorf("unknown secondary inventory %q", seed.Secondary)
		}
		msgs = append(msgs,
			seedMessage{protocol.SetSecondaryInventory, secondary.Snapshot},
			seedMessage{protocol.ShowSecondary, nil},
		)
	}

	if seed.Bench != "" {
		bench, ok := s.Benches.Get(seed.Bench)
		if !ok {
			return fmt.Errorf("unknown bench %q", seed.Bench)
		}
		msgs = append(msgs, seedMessage{protocol.SetBench, bench.Data(seed.Bench, player.Counts())})
	}

	msgs = append(msgs, seedMessage{protocol.AppShow, nil})

	if err := replay(ctx, h, msgs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "seeded overlay", "player", seed.Player, "secondary", seed.Secondary, "bench", seed.Bench)
	return nil
}

// ShowSecondary pushes one inventory as the open secondary container.
func (s *Set) ShowSecondary(ctx context.Context, h Handler, id string) error {
	inv, ok := s.Inventories.Get(id)
	if !ok {
		return fmt.Errorf("unknown inventory %q", id)
	}

	return replay(ctx, h, []seedMessage{
		{protocol.SetSecondaryInventory, inv.Snapshot},
		{protocol.ShowSecondary, nil},
	})
}

type seedMessage struct {
	typ  protocol.MessageType
	data any
}

func replay(ctx context.Context, h Handler, msgs []seedMessage) error {
	for _, m := range msgs {
		msg, err := protocol.NewMessage(m.typ, m.data)
		if err != nil {
			return err
		}
		if err := h.Handle(ctx, msg); err != nil {
			return fmt.Errorf("seeding %s: %w", m.typ, err)
		}
	}
	return nil
}
