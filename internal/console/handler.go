package console

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Handler looks up and runs commands by name.
type Handler struct {
	commands map[string]*Command
}

func NewHandler() *Handler {
	return &Handler{commands: map[string]*Command{}}
}

func (h *Handler) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	name := strings.ToLower(cmd.Name)
	if _, exists := h.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	h.commands[name] = cmd
	return nil
}

func (h *Handler) Get(name string) (*Command, bool) {
	cmd, ok := h.commands[strings.ToLower(name)]
	return cmd, ok
}

// Groups returns command names by category, each list sorted.
func (h *Handler) Groups() map[string][]string {
	groups := make(map[string][]string)
	for name, cmd := range h.commands {
		category := cmd.Category
		if category == "" {
			category = "other"
		}
		groups[category] = append(groups[category], name)
	}
	for _, names := range groups {
		slices.Sort(names)
	}
	return groups
}

// Exec parses one input line and runs the named command.
func (h *Handler) Exec(ctx context.Context, sess *Session, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := h.Get(fields[0])
	if !ok {
		return NewUserError(fmt.Sprintf("Unknown command: %s", fields[0]))
	}

	in, err := parseInputs(cmd.Inputs, fields[1:])
	if err != nil {
		return err
	}

	return cmd.Run(ctx, sess, in)
}
