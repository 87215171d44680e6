// Package tui renders the portfolio terminal as a Bubble Tea program.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/ccheshirecat/folio/internal/terminal"
)

// Options configures Run.
type Options struct {
	Profile *terminal.Profile
	Logger  *slog.Logger
	Opener  terminal.LinkOpener
}

// deferredMsg carries a scheduled continuation back into Update.
type deferredMsg struct {
	fn func()
}

// Run launches the Bubble Tea TUI and blocks until the user quits.
func Run(opts Options) error {
	// A failing xdg-open must not scribble over the alt screen.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

type model struct {
	interp *terminal.Interpreter
	logger *slog.Logger
	styles Styles

	input    textinput.Model
	viewport viewport.Model
	blocks   []terminal.Block
	pending  []tea.Cmd

	width  int
	height int
	ready  bool
}

func newModel(opts Options) (*model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opener := opts.Opener
	if opener == nil {
		opener = browserOpener{}
	}

	ti := textinput.New()
	ti.Placeholder = "type 'help' and press Enter"
	ti.CharLimit = 0
	ti.Focus()

	m := &model{
		logger:   logger,
		styles:   DefaultStyles(),
		input:    ti,
		viewport: viewport.New(80, 20),
	}

	interp, err := terminal.New(terminal.Params{
		Input:     inputSurface{m},
		Output:    transcriptSurface{m},
		Scheduler: tickScheduler{m},
		Opener:    opener,
		Profile:   opts.Profile,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	m.interp = interp
	m.input.Prompt = m.styles.Prompt.Render(interp.PromptLabel()) + " "
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		m.ready = true
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case deferredMsg:
		msg.fn()
		return m, m.drainPending()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if key := keyFor(msg); key != terminal.KeyNone {
			m.interp.HandleKey(key)
			return m, m.drainPending()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	header := m.styles.Header.Render(m.interp.Profile().Name + " :: " + m.interp.Profile().Role)
	footer := m.styles.Footer.Render("enter run · ↑/↓ history · tab complete · pgup/pgdn scroll · esc quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.input.View(),
		footer,
	)
}

// keyFor maps the keys the interpreter owns.
func keyFor(msg tea.KeyMsg) terminal.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return terminal.KeySubmit
	case tea.KeyUp:
		return terminal.KeyHistoryPrevious
	case tea.KeyDown:
		return terminal.KeyHistoryNext
	case tea.KeyTab:
		return terminal.KeyComplete
	default:
		return terminal.KeyNone
	}
}

// recalcLayout gives the viewport everything except header, input and footer.
func (m *model) recalcLayout() {
	m.viewport.Width = m.width
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
	m.input.Width = m.width - lipgloss.Width(m.input.Prompt) - 1
}

func (m *model) refresh() {
	m.viewport.SetContent(m.styles.RenderTranscript(m.blocks))
}

func (m *model) drainPending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

type inputSurface struct{ m *model }

func (s inputSurface) Value() string { return s.m.input.Value() }

func (s inputSurface) SetValue(v string) {
	s.m.input.SetValue(v)
	s.m.input.CursorEnd()
}

type transcriptSurface struct{ m *model }

func (s transcriptSurface) Append(b terminal.Block) {
	s.m.blocks = append(s.m.blocks, b)
	s.m.refresh()
}

func (s transcriptSurface) Clear() {
	s.m.blocks = nil
	s.m.refresh()
}

func (s transcriptSurface) ScrollToEnd() {
	s.m.viewport.GotoBottom()
}

// tickScheduler turns continuations into tea.Tick commands so they run inside
// Update, on the program's event loop.
type tickScheduler struct{ m *model }

func (s tickScheduler) AfterFunc(d time.Duration, fn func()) {
	s.m.pending = append(s.m.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return deferredMsg{fn: fn}
	}))
}

type browserOpener struct{}

func (browserOpener) Open(url string) error {
	return browser.OpenURL(url)
}
