package terminal

import (
	"errors"
	"fmt"
	"strings"
)

// Category groups commands in the help listing.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategorySystem   Category = "System"
	CategoryFun      Category = "Fun"
	CategoryLinks    Category = "Links"
)

// Handler executes a command. args excludes the command token.
type Handler func(in *Interpreter, args []string)

// Command is a registry entry.
type Command struct {
	Name     string
	Usage    string
	Summary  string
	Category Category
	Handler  Handler
}

// Registry maps lowercase command names to commands, preserving
// registration order. It is immutable once built.
type Registry struct {
	order []Command
	index map[string]int
}

// ErrDuplicateCommand is returned when two commands share a name.
var ErrDuplicateCommand = errors.New("terminal: duplicate command")

// NewRegistry validates cmds and builds a registry.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{
		order: make([]Command, 0, len(cmds)),
		index: make(map[string]int, len(cmds)),
	}
	for _, cmd := range cmds {
		if cmd.Name == "" {
			return nil, errors.New("terminal: empty command name")
		}
		if cmd.Name != strings.ToLower(cmd.Name) || strings.ContainsAny(cmd.Name, " \t\n") {
			return nil, fmt.Errorf("terminal: command name %q must be a lowercase token", cmd.Name)
		}
		if cmd.Handler == nil {
			return nil, fmt.Errorf("terminal: nil handler for %s", cmd.Name)
		}
		if _, exists := r.index[cmd.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name)
		}
		if cmd.Usage == "" {
			cmd.Usage = cmd.Name
		}
		r.index[cmd.Name] = len(r.order)
		r.order = append(r.order, cmd)
	}
	return r, nil
}

// Lookup finds a command by its exact lowercase name.
func (r *Registry) Lookup(name string) (Command, bool) {
	i, ok := r.index[name]
	if !ok {
		return Command{}, false
	}
	return r.order[i], true
}

// Names lists command names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, cmd := range r.order {
		names[i] = cmd.Name
	}
	return names
}

// Commands returns the entries in registration order.
func (r *Registry) Commands() []Command {
	out := make([]Command, len(r.order))
	copy(out, r.order)
	return out
}

// Match returns the names starting with prefix, in registration order.
func (r *Registry) Match(prefix string) []string {
	var matches []string
	for _, cmd := range r.order {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd.Name)
		}
	}
	return matches
}

func (r *Registry) Len() int { return len(r.order) }
