package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/bridge"
	"github.com/pixil98/go-inventory/internal/overlay"
)

type BridgeType int

const (
	BridgeTypeNats BridgeType = iota
	BridgeTypeWebsocket
)

func (bt *BridgeType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "nats":
		*bt = BridgeTypeNats
	case "websocket":
		*bt = BridgeTypeWebsocket
	default:
		return fmt.Errorf("unknown bridge type: %s", text)
	}
	return nil
}

// hostBridge is a transport the store can talk to the host through.
type hostBridge interface {
	overlay.Host
	Bind(h bridge.Handler)
	Start(ctx context.Context) error
}

type BridgeConfig struct {
	Type        BridgeType      `json:"type"`
	CallTimeout string          `json:"call_timeout"`
	Nats        NatsConfig      `json:"nats"`
	Websocket   WebsocketConfig `json:"websocket"`
}

type NatsConfig struct {
	URL           string `json:"url"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	SubjectPrefix string `json:"subject_prefix"`
	StartTimeout  string `json:"start_timeout"`
}

type WebsocketConfig struct {
	Addr string `json:"addr"`
	Path string `json:"path"`
}

func (c *BridgeConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := parseInterval(c.CallTimeout, bridge.DefaultCallTimeout); err != nil {
		el.Add(fmt.Errorf("bridge: call_timeout: %w", err))
	}

	switch c.Type {
	case BridgeTypeNats:
		if _, err := parseInterval(c.Nats.StartTimeout, 0); err != nil {
			el.Add(fmt.Errorf("bridge: nats: start_timeout: %w", err))
		}
		if c.Nats.Port < -1 || c.Nats.Port > 65535 {
			el.Add(fmt.Errorf("bridge: nats: port %d out of range", c.Nats.Port))
		}
	case BridgeTypeWebsocket:
		if c.Websocket.Path != "" && c.Websocket.Path[0] != '/' {
			el.Add(fmt.Errorf("bridge: websocket: path must start with /"))
		}
	}

	return el.Err()
}

func (c *BridgeConfig) buildBridge() (hostBridge, error) {
	timeout, err := parseInterval(c.CallTimeout, bridge.DefaultCallTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing call_timeout: %w", err)
	}

	switch c.Type {
	case BridgeTypeNats:
		return c.Nats.buildNatsBridge(timeout)
	case BridgeTypeWebsocket:
		var opts []bridge.WebsocketBridgeOpt
		opts = append(opts, bridge.WithCallTimeout(timeout))
		if c.Websocket.Addr != "" {
			opts = append(opts, bridge.WithAddr(c.Websocket.Addr))
		}
		if c.Websocket.Path != "" {
			opts = append(opts, bridge.WithPath(c.Websocket.Path))
		}
		return bridge.NewWebsocketBridge(opts...), nil
	default:
		return nil, fmt.Errorf("unknown bridge type: %v", c.Type)
	}
}

func (c *NatsConfig) buildNatsBridge(timeout time.Duration) (*bridge.NatsBridge, error) {
	opts := []bridge.NatsBridgeOpt{bridge.WithNatsCallTimeout(timeout)}
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, bridge.WithStartTimeout(d))
	}
	if c.URL != "" {
		opts = append(opts, bridge.WithURL(c.URL))
	}
	if c.Host != "" {
		opts = append(opts, bridge.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, bridge.WithPort(c.Port))
	}
	if c.SubjectPrefix != "" {
		opts = append(opts, bridge.WithSubjectPrefix(c.SubjectPrefix))
	}

	b, err := bridge.NewNatsBridge(opts...)
	if err != nil {
		return nil, err
	}

	return b, nil
}
