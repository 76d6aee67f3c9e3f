package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/driver"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/notify"
	"github.com/pixil98/go-inventory/internal/overlay"
)

type Config struct {
	TickInterval   string           `json:"tick_interval"`
	NearbyInterval string           `json:"nearby_interval"`
	PlayerType     int              `json:"player_type"`
	Bridge         BridgeConfig     `json:"bridge"`
	Listeners      []ListenerConfig `json:"listeners"`
	Fixtures       FixturesConfig   `json:"fixtures"`
	Alerts         AlertsConfig     `json:"alerts"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := parseInterval(c.TickInterval, driver.DefaultTickLength); err != nil {
		el.Add(fmt.Errorf("tick_interval: %w", err))
	}
	if _, err := parseInterval(c.NearbyInterval, overlay.DefaultNearbyInterval); err != nil {
		el.Add(fmt.Errorf("nearby_interval: %w", err))
	}
	if c.PlayerType < 0 {
		el.Add(fmt.Errorf("player_type must not be negative"))
	}

	el.Add(c.Bridge.validate())

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Fixtures.validate())
	el.Add(c.Alerts.validate())

	return el.Err()
}

func (c *Config) playerType() inventory.Type {
	if c.PlayerType == 0 {
		return inventory.TypePlayer
	}
	return inventory.Type(c.PlayerType)
}

// parseInterval reads a positive duration, falling back to def when s is
// empty.
func parseInterval(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

type AlertsConfig struct {
	Limit     int               `json:"limit"`
	Templates map[string]string `json:"templates"`
}

func (c *AlertsConfig) validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("alerts: limit must not be negative")
	}
	return nil
}

func (c *AlertsConfig) limit() int {
	if c.Limit == 0 {
		return notify.DefaultLimit
	}
	return c.Limit
}
