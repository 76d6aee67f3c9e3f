package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-inventory/internal/protocol"
)

const (
	DefaultSubjectPrefix = "overlay"
)

// NatsBridge talks to the host over NATS. Inbound messages arrive on
// <prefix>.ui and outbound events go to <prefix>.host.<event>. Without a
// url it runs its own embedded server.
type NatsBridge struct {
	binding

	ns *server.Server

	mu    sync.RWMutex
	conn  *nats.Conn
	ready chan struct{}

	url            string
	prefix         string
	startupTimeout time.Duration
	callTimeout    time.Duration
	host           string
	port           int
}

func NewNatsBridge(opts ...NatsBridgeOpt) (*NatsBridge, error) {
	b := &NatsBridge{
		ready:          make(chan struct{}),
		prefix:         DefaultSubjectPrefix,
		startupTimeout: 10 * time.Second,
		callTimeout:    DefaultCallTimeout,
		host:           "127.0.0.1",
		port:           -1,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.url != "" {
		return b, nil
	}

	ns, err := server.NewServer(&server.Options{
		Host:   b.host,
		Port:   b.port,
		NoSigs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	b.ns = ns

	return b, nil
}

func (b *NatsBridge) Start(ctx context.Context) error {
	url := b.url
	if b.ns != nil {
		b.ns.Start()
		if !b.ns.ReadyForConnections(b.startupTimeout) {
			return fmt.Errorf("nats server not ready for connections")
		}
		url = b.ns.ClientURL()
		slog.InfoContext(ctx, "nats server listening", "addr", b.ns.Addr())
	}

	conn, err := nats.Connect(url, nats.Name("overlay"))
	if err != nil {
		b.shutdown()
		return fmt.Errorf("connecting to nats: %w", err)
	}

	sub, err := conn.Subscribe(b.InboundSubject(), func(m *nats.Msg) {
		var msg protocol.Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			slog.WarnContext(ctx, "dropping malformed host message", "error", err)
			return
		}
		if err := b.deliver(ctx, msg); err != nil {
			slog.WarnContext(ctx, "handling host message", "type", msg.Type, "error", err)
		}
	})
	if err != nil {
		conn.Close()
		b.shutdown()
		return fmt.Errorf("subscribing to %s: %w", b.InboundSubject(), err)
	}

	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	close(b.ready)

	slog.InfoContext(ctx, "nats bridge connected", "url", url, "subject", b.InboundSubject())

	<-ctx.Done()

	b.mu.Lock()
	b.conn = nil
	b.mu.Unlock()

	if err := sub.Drain(); err != nil {
		slog.WarnContext(ctx, "draining subscription", "error", err)
	}
	conn.Close()
	b.shutdown()

	return nil
}

// Ready is closed once the bridge is connected and subscribed.
func (b *NatsBridge) Ready() <-chan struct{} {
	return b.ready
}

// ClientURL is the address a host should connect to.
func (b *NatsBridge) ClientURL() string {
	if b.ns != nil {
		return b.ns.ClientURL()
	}
	return b.url
}

func (b *NatsBridge) InboundSubject() string {
	return b.prefix + ".ui"
}

func (b *NatsBridge) HostSubject(event string) string {
	return b.prefix + ".host." + event
}

func (b *NatsBridge) Send(ctx context.Context, event string, data any) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	env, payload, err := encode(event, data)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "sending host event", "event", event, "id", env.Id)
	return conn.Publish(b.HostSubject(event), payload)
}

func (b *NatsBridge) Call(ctx context.Context, event string, data any) (json.RawMessage, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	env, payload, err := encode(event, data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	slog.DebugContext(ctx, "calling host", "event", event, "id", env.Id)
	msg, err := conn.RequestWithContext(ctx, b.HostSubject(event), payload)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", event, err)
	}

	var reply protocol.Reply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, fmt.Errorf("decoding %s reply: %w", event, err)
	}
	if reply.Error != "" {
		return nil, &HostError{Event: event, Message: reply.Error}
	}
	return reply.Data, nil
}

func (b *NatsBridge) connection() (*nats.Conn, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.conn == nil {
		return nil, ErrNotStarted
	}
	return b.conn, nil
}

func (b *NatsBridge) shutdown() {
	if b.ns == nil {
		return
	}
	b.ns.Shutdown()
	b.ns.WaitForShutdown()
}
