package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/fixtures"
)

// FixturesConfig seeds the overlay from local files instead of waiting on
// the host. An empty path disables it.
type FixturesConfig struct {
	Path      string `json:"path"`
	Player    string `json:"player"`
	Secondary string `json:"secondary"`
	Bench     string `json:"bench"`
}

func (c *FixturesConfig) enabled() bool {
	return c.Path != ""
}

func (c *FixturesConfig) validate() error {
	if !c.enabled() {
		return nil
	}

	el := errors.NewErrorList()

	if _, err := os.Stat(c.Path); err != nil {
		el.Add(fmt.Errorf("fixtures: invalid path %q: %w", c.Path, err))
	}
	if c.Player == "" && (c.Secondary != "" || c.Bench != "") {
		el.Add(fmt.Errorf("fixtures: player is required to seed a secondary or bench"))
	}

	return el.Err()
}

func (c *FixturesConfig) seed() fixtures.Seed {
	return fixtures.Seed{
		Player:    c.Player,
		Secondary: c.Secondary,
		Bench:     c.Bench,
	}
}
