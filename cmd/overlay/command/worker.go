package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-inventory/internal/console"
	"github.com/pixil98/go-inventory/internal/driver"
	"github.com/pixil98/go-inventory/internal/fixtures"
	"github.com/pixil98/go-inventory/internal/listener"
	"github.com/pixil98/go-inventory/internal/notify"
	"github.com/pixil98/go-inventory/internal/overlay"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	host, err := cfg.Bridge.buildBridge()
	if err != nil {
		return nil, fmt.Errorf("creating bridge: %w", err)
	}

	store := overlay.NewStore(host,
		overlay.WithPlayerType(cfg.playerType()),
		overlay.WithAlertLimit(cfg.Alerts.limit()),
	)
	host.Bind(store)

	var set *fixtures.Set
	if cfg.Fixtures.enabled() {
		set, err = fixtures.Load(cfg.Fixtures.Path)
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		if cfg.Fixtures.Player != "" {
			if err := set.Apply(context.Background(), store, cfg.Fixtures.seed()); err != nil {
				return nil, fmt.Errorf("seeding fixtures: %w", err)
			}
		}
	}

	tick, err := parseInterval(cfg.TickInterval, driver.DefaultTickLength)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	nearby, err := parseInterval(cfg.NearbyInterval, overlay.DefaultNearbyInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing nearby_interval: %w", err)
	}

	d := driver.NewPollDriver([]driver.Manager{
		store.Tracker(),
		overlay.NewNearbyWatcher(store, nearby),
	}, driver.WithTickLength(tick))

	workers := service.WorkerList{
		"bridge": host,
		"driver": d,
	}

	if len(cfg.Listeners) == 0 {
		return workers, nil
	}

	formatter, err := notify.NewFormatter(store.Catalog(), cfg.Alerts.Templates)
	if err != nil {
		return nil, fmt.Errorf("creating alert formatter: %w", err)
	}

	opts := []console.ConsoleOpt{console.WithFormatter(formatter)}
	if set != nil {
		opts = append(opts, console.WithFixtures(set))
	}
	c, err := console.NewConsole(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating console: %w", err)
	}

	cm := listener.NewConnectionManager(c)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		ln, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = ln
	}
	workers["listeners"] = &listeners

	return workers, nil
}
