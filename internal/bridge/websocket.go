package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-inventory/internal/protocol"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWebsocketPath = "/ws"

	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

// frame is any message the host writes: an inbound host message or a reply.
type frame struct {
	Type    string          `json:"type"`
	Id      string          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// WebsocketBridge serves a single host connection. A newer connection
// replaces the older one.
type WebsocketBridge struct {
	binding

	upgrader    websocket.Upgrader
	addr        string
	path        string
	callTimeout time.Duration

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	pending map[string]chan protocol.Reply
}

func NewWebsocketBridge(opts ...WebsocketBridgeOpt) *WebsocketBridge {
	b := &WebsocketBridge{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		addr:        "127.0.0.1:8765",
		path:        DefaultWebsocketPath,
		callTimeout: DefaultCallTimeout,
		pending:     make(map[string]chan protocol.Reply),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *WebsocketBridge) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(b.path, b)

	srv := &http.Server{
		Addr:              b.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.InfoContext(ctx, "websocket bridge listening", "addr", b.addr, "path", b.path)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		b.disconnect()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ServeHTTP upgrades the request and reads host frames until the
// connection drops.
func (b *WebsocketBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "upgrading host connection", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	b.mu.Lock()
	prev := b.conn
	b.conn = conn
	b.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	slog.InfoContext(r.Context(), "host connected", "remote", conn.RemoteAddr().String())
	b.read(r.Context(), conn)
}

func (b *WebsocketBridge) read(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		b.mu.Lock()
		if b.conn == conn {
			b.conn = nil
		}
		b.mu.Unlock()
		conn.Close()
		slog.InfoContext(ctx, "host disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "reading host frame", "error", err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			slog.WarnContext(ctx, "dropping malformed host frame", "error", err)
			continue
		}

		if f.Type == protocol.ReplyType {
			b.resolve(ctx, protocol.Reply{Type: f.Type, Id: f.Id, Data: f.Data, Error: f.Error})
			continue
		}

		msg := protocol.Message{Type: protocol.MessageType(f.Type), Data: f.Data, Payload: f.Payload}
		if err := b.deliver(ctx, msg); err != nil {
			slog.WarnContext(ctx, "handling host message", "type", msg.Type, "error", err)
		}
	}
}

func (b *WebsocketBridge) resolve(ctx context.Context, r protocol.Reply) {
	b.mu.Lock()
	ch, ok := b.pending[r.Id]
	delete(b.pending, r.Id)
	b.mu.Unlock()

	if !ok {
		slog.DebugContext(ctx, "dropping unmatched reply", "id", r.Id)
		return
	}
	ch <- r
}

func (b *WebsocketBridge) Send(ctx context.Context, event string, data any) error {
	env, payload, err := encode(event, data)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "sending host event", "event", event, "id", env.Id)
	return b.write(payload)
}

func (b *WebsocketBridge) Call(ctx context.Context, event string, data any) (json.RawMessage, error) {
	env, payload, err := encode(event, data)
	if err != nil {
		return nil, err
	}

	ch := make(chan protocol.Reply, 1)
	b.mu.Lock()
	b.pending[env.Id] = ch
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, env.Id)
		b.mu.Unlock()
	}()

	slog.DebugContext(ctx, "calling host", "event", event, "id", env.Id)
	if err := b.write(payload); err != nil {
		return nil, err
	}

	timer := time.NewTimer(b.callTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.Error != "" {
			return nil, &HostError{Event: event, Message: r.Error}
		}
		return r.Data, nil
	case <-timer.C:
		return nil, fmt.Errorf("calling %s: %w", event, context.DeadlineExceeded)
	case <-ctx.Done():
		return nil, fmt.Errorf("calling %s: %w", event, ctx.Err())
	}
}

// Connected reports whether a host is attached.
func (b *WebsocketBridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

func (b *WebsocketBridge) write(payload []byte) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (b *WebsocketBridge) disconnect() {
	b.mu.Lock()
	conn := b.conn
	b.conn = nil
	b.mu.Unlock()

	if conn == nil {
		return
	}
	b.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait))
	b.writeMu.Unlock()
	conn.Close()
}
