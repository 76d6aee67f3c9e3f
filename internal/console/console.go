// Package console is a line based dev console that drives an overlay store
// the way the UI would.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-inventory/internal/display"
	"github.com/pixil98/go-inventory/internal/fixtures"
	"github.com/pixil98/go-inventory/internal/notify"
	"github.com/pixil98/go-inventory/internal/overlay"
	"github.com/pixil98/go-inventory/internal/storage"
)

const prompt = "> "

type Console struct {
	store     *overlay.Store
	fixtures  *fixtures.Set
	menu      *storage.SelectableStorer[*fixtures.InventorySpec]
	formatter *notify.Formatter
	handler   *Handler
	view      *template.Template
	now       func() time.Time
}

type ConsoleOpt func(*Console)

// WithFixtures enables the seed command.
func WithFixtures(set *fixtures.Set) ConsoleOpt {
	return func(c *Console) {
		c.fixtures = set
	}
}

func WithFormatter(f *notify.Formatter) ConsoleOpt {
	return func(c *Console) {
		c.formatter = f
	}
}

func WithClock(now func() time.Time) ConsoleOpt {
	return func(c *Console) {
		c.now = now
	}
}

func NewConsole(store *overlay.Store, opts ...ConsoleOpt) (*Console, error) {
	c := &Console{
		store:   store,
		handler: NewHandler(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.formatter == nil {
		f, err := notify.NewFormatter(store.Catalog(), nil)
		if err != nil {
			return nil, fmt.Errorf("creating alert formatter: %w", err)
		}
		c.formatter = f
	}

	if c.fixtures != nil {
		c.menu = storage.NewSelectableStorer[*fixtures.InventorySpec](c.fixtures.Inventories)
	}

	view, err := template.New("view").Funcs(templateFuncs).Parse(viewTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing view template: %w", err)
	}
	c.view = view

	for _, cmd := range c.builtins() {
		if err := c.handler.Register(cmd); err != nil {
			return nil, fmt.Errorf("registering %s: %w", cmd.Name, err)
		}
	}

	return c, nil
}

// Session is one connected console user.
type Session struct {
	Id string
	w  io.Writer
}

// Printf writes to the session, wrapped to the console width.
func (s *Session) Printf(format string, args ...any) error {
	_, err := io.WriteString(s.w, display.Wrap(fmt.Sprintf(format, args...)))
	return err
}

// Println writes text followed by a newline without wrapping it.
func (s *Session) Println(text string) error {
	_, err := io.WriteString(s.w, text+"\n")
	return err
}

// RunSession reads commands from rw until the user quits or the connection
// drops. User mistakes are written back; anything else ends the session.
func (c *Console) RunSession(ctx context.Context, rw io.ReadWriter) error {
	sess := &Session{Id: uuid.NewString(), w: rw}
	slog.InfoContext(ctx, "console session started", "session", sess.Id)
	defer slog.InfoContext(ctx, "console session ended", "session", sess.Id)

	if err := sess.Println("Overlay dev console. Type 'help' for commands."); err != nil {
		return err
	}
	if _, err := io.WriteString(rw, prompt); err != nil {
		return err
	}

	scanner := bufio.NewScanner(rw)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		err := c.handler.Exec(ctx, sess, line)

		var userErr *UserError
		switch {
		case errors.Is(err, errQuit):
			return sess.Println("Bye.")
		case errors.As(err, &userErr):
			if err := sess.Println(userErr.Message); err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("executing %q: %w", line, err)
		}

		if _, err := io.WriteString(rw, prompt); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Exec runs a single command line outside of a connected session.
func (c *Console) Exec(ctx context.Context, w io.Writer, line string) error {
	return c.handler.Exec(ctx, &Session{Id: uuid.NewString(), w: w}, line)
}

// rejected turns a refused store action into a message for the user.
func rejected(err error) error {
	if err == nil {
		return nil
	}
	return NewUserError(display.Capitalize(err.Error()) + ".")
}
