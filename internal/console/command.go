package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString InputType = "string" // Single word, or every remaining word if Rest
	InputTypeNumber InputType = "number" // Integer
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string
	Type     InputType
	Required bool
	Rest     bool // If true, captures all remaining input
}

// CommandFunc runs a command for one session.
type CommandFunc func(ctx context.Context, sess *Session, in Input) error

type Command struct {
	Name        string
	Category    string
	Description string
	Inputs      []InputSpec
	Run         CommandFunc
}

func (c *Command) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("command name not set")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q: run not set", c.Name)
	}

	for i, input := range c.Inputs {
		if input.Name == "" {
			return fmt.Errorf("input %d: name is required", i)
		}
		switch input.Type {
		case InputTypeString, InputTypeNumber:
		default:
			return fmt.Errorf("input %q: unknown type %q", input.Name, input.Type)
		}
		if input.Rest && i != len(c.Inputs)-1 {
			return fmt.Errorf("input %q: only the last input can have rest=true", input.Name)
		}
	}

	return nil
}

// Usage renders the command line with <required> and [optional] inputs.
func (c *Command) Usage() string {
	parts := []string{c.Name}
	for _, input := range c.Inputs {
		if input.Required {
			parts = append(parts, fmt.Sprintf("<%s>", input.Name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s]", input.Name))
		}
	}
	return strings.Join(parts, " ")
}

// Input holds parsed inputs by name: int for numbers, string otherwise.
type Input map[string]any

func (in Input) Has(name string) bool {
	_, ok := in[name]
	return ok
}

func (in Input) String(name string) string {
	s, _ := in[name].(string)
	return s
}

func (in Input) Int(name string) int {
	n, _ := in[name].(int)
	return n
}

// parseInputs validates raw words against specs.
func parseInputs(specs []InputSpec, rawArgs []string) (Input, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		return nil, NewUserError(fmt.Sprintf("Expected at least %d argument(s), got %d", requiredCount, len(rawArgs)))
	}

	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, NewUserError(fmt.Sprintf("Expected at most %d argument(s), got %d", len(specs), len(rawArgs)))
	}

	in := Input{}
	argIndex := 0

	for _, spec := range specs {
		if argIndex >= len(rawArgs) {
			if spec.Required {
				return nil, NewUserError(fmt.Sprintf("Missing required parameter: %s", spec.Name))
			}
			continue
		}

		var raw string
		if spec.Rest {
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		switch spec.Type {
		case InputTypeNumber:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, NewUserError(fmt.Sprintf("%s must be a number, got %q", spec.Name, raw))
			}
			in[spec.Name] = n
		default:
			in[spec.Name] = raw
		}
	}

	return in, nil
}
