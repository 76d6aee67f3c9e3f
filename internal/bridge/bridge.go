// Package bridge carries messages between the overlay and the host script.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-inventory/internal/protocol"
)

const (
	DefaultCallTimeout = 5 * time.Second
)

var (
	ErrNotStarted   = errors.New("bridge not started")
	ErrNotConnected = errors.New("host not connected")
	ErrNoHandler    = errors.New("no handler bound")
)

// Handler receives inbound host messages.
type Handler interface {
	Handle(ctx context.Context, msg protocol.Message) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, msg protocol.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg protocol.Message) error {
	return f(ctx, msg)
}

// HostError is the error text a host returned for a Call.
type HostError struct {
	Event   string
	Message string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s: %s", e.Event, e.Message)
}

// binding holds the handler behind a lock, since the store that handles
// messages is built after the bridge it sends through.
type binding struct {
	mu      sync.RWMutex
	handler Handler
}

func (b *binding) Bind(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

func (b *binding) deliver(ctx context.Context, msg protocol.Message) error {
	b.mu.RLock()
	h := b.handler
	b.mu.RUnlock()

	if h == nil {
		return ErrNoHandler
	}
	return h.Handle(ctx, msg)
}

func encode(event string, data any) (*protocol.Envelope, []byte, error) {
	env, err := protocol.NewEnvelope(event, data)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding %s: %w", event, err)
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding %s envelope: %w", event, err)
	}
	return env, b, nil
}
