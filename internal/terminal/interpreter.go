package terminal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

// Direction selects the history navigation step.
type Direction int

const (
	Previous Direction = iota
	Next
)

// Key is a key press the interpreter reacts to.
type Key int

const (
	KeyNone Key = iota
	KeySubmit
	KeyHistoryPrevious
	KeyHistoryNext
	KeyComplete
)

// ParseKey maps DOM-style key names onto interpreter keys.
func ParseKey(name string) Key {
	switch name {
	case "Enter":
		return KeySubmit
	case "ArrowUp":
		return KeyHistoryPrevious
	case "ArrowDown":
		return KeyHistoryNext
	case "Tab":
		return KeyComplete
	default:
		return KeyNone
	}
}

// Params configures an Interpreter. Input, Output and Scheduler are
// required; the rest fall back to defaults.
type Params struct {
	Input     InputSurface
	Output    TranscriptSurface
	Scheduler Scheduler
	Opener    LinkOpener
	Profile   *Profile
	Rand      *rand.Rand
	Now       func() time.Time
	Logger    *slog.Logger
}

// Interpreter turns input-line events into dispatched commands and renders
// their output. It is not safe for concurrent use; every call, including
// scheduled continuations, must happen on one context.
type Interpreter struct {
	input     InputSurface
	output    TranscriptSurface
	scheduler Scheduler
	opener    LinkOpener
	profile   Profile
	rand      *rand.Rand
	now       func() time.Time
	logger    *slog.Logger

	registry *Registry
	files    FileTable
	history  History
}

// New constructs an interpreter with the built-in command set.
func New(p Params) (*Interpreter, error) {
	if p.Input == nil {
		return nil, errors.New("terminal: input surface required")
	}
	if p.Output == nil {
		return nil, errors.New("terminal: transcript surface required")
	}
	if p.Scheduler == nil {
		return nil, errors.New("terminal: scheduler required")
	}

	in := &Interpreter{
		input:     p.Input,
		output:    p.Output,
		scheduler: p.Scheduler,
		opener:    p.Opener,
		rand:      p.Rand,
		now:       p.Now,
		logger:    p.Logger,
	}
	if p.Profile != nil {
		in.profile = *p.Profile
	} else {
		in.profile = DefaultProfile()
	}
	if in.opener == nil {
		in.opener = nopOpener{}
	}
	if in.rand == nil {
		in.rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	if in.now == nil {
		in.now = time.Now
	}
	if in.logger == nil {
		in.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	registry, err := NewRegistry(builtinCommands()...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	in.registry = registry
	in.files = newFileTable()
	return in, nil
}

// Registry exposes the command registry.
func (in *Interpreter) Registry() *Registry { return in.registry }

// History exposes the command history.
func (in *Interpreter) History() *History { return &in.history }

// Profile returns the rendered profile content.
func (in *Interpreter) Profile() Profile { return in.profile }

// PromptLabel is the prefix shown before echoed command lines.
func (in *Interpreter) PromptLabel() string { return in.profile.PromptLabel() }

// HandleKey dispatches a key press. It reports whether the key was consumed.
func (in *Interpreter) HandleKey(k Key) bool {
	switch k {
	case KeySubmit:
		in.Submit()
	case KeyHistoryPrevious:
		in.NavigateHistory(Previous)
	case KeyHistoryNext:
		in.NavigateHistory(Next)
	case KeyComplete:
		in.Autocomplete()
	default:
		return false
	}
	return true
}

// Submit executes the current input line. Whitespace-only lines are ignored.
func (in *Interpreter) Submit() {
	line := strings.TrimSpace(in.input.Value())
	if line == "" {
		return
	}

	in.history.Append(line)
	in.output.Append(Block{Style: StylePlain, Prompt: in.PromptLabel(), Text: line})

	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	if cmd, ok := in.registry.Lookup(name); ok {
		in.logger.Debug("dispatch command", "command", name, "args", len(args))
		cmd.Handler(in, args)
	} else {
		in.logger.Debug("unknown command", "command", fields[0])
		in.emit(StyleError, fmt.Sprintf("Command '%s' not found. Type 'help' for available commands.", fields[0]))
	}

	in.input.SetValue("")
	in.output.ScrollToEnd()
}

// NavigateHistory recalls an earlier or later line into the input surface.
func (in *Interpreter) NavigateHistory(dir Direction) {
	var (
		line string
		ok   bool
	)
	switch dir {
	case Previous:
		line, ok = in.history.Previous()
	case Next:
		line, ok = in.history.Next()
	}
	if ok {
		in.input.SetValue(line)
	}
}

// Autocomplete completes the input to a unique command name, or lists the
// candidates when the prefix is ambiguous.
func (in *Interpreter) Autocomplete() {
	prefix := strings.ToLower(in.input.Value())
	matches := in.registry.Match(prefix)
	switch {
	case len(matches) == 1:
		in.input.SetValue(matches[0])
	case len(matches) > 1:
		in.emit(StyleInfo, "Available commands: "+strings.Join(matches, ", "))
		in.output.ScrollToEnd()
	}
}

// Run executes name with args as if it had been dispatched from Submit,
// without touching history or the input surface.
func (in *Interpreter) Run(name string, args ...string) bool {
	cmd, ok := in.registry.Lookup(strings.ToLower(name))
	if !ok {
		return false
	}
	cmd.Handler(in, args)
	return true
}

func (in *Interpreter) emit(style Style, lines ...string) {
	in.output.Append(newBlock(style, lines...))
}

// deferBlock schedules a follow-up block and keeps the transcript scrolled.
func (in *Interpreter) deferBlock(d time.Duration, style Style, text string) {
	in.scheduler.AfterFunc(d, func() {
		in.emit(style, text)
		in.output.ScrollToEnd()
	})
}

func (in *Interpreter) open(url string) {
	if err := in.opener.Open(url); err != nil {
		in.logger.Warn("open link", "url", url, "error", err)
	}
}
