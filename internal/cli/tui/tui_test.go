package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccheshirecat/folio/internal/terminal"
)

type recordingOpener struct{ urls []string }

func (r *recordingOpener) Open(url string) error {
	r.urls = append(r.urls, url)
	return nil
}

func newTestModel(t *testing.T) (*model, *recordingOpener) {
	t.Helper()
	opener := &recordingOpener{}
	m, err := newModel(Options{Opener: opener})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, opener
}

func typeLine(m *model, line string) tea.Cmd {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

// runDeferred executes a returned command and feeds its deferred message back.
func runDeferred(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a scheduled command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runDeferred(t, m, c)
		}
		return
	}
	if _, ok := msg.(deferredMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	m.Update(msg)
}

func TestSubmitRendersBlocks(t *testing.T) {
	m, _ := newTestModel(t)

	if cmd := typeLine(m, "echo Hello World"); cmd != nil {
		t.Fatalf("echo should not schedule work")
	}
	if len(m.blocks) != 2 {
		t.Fatalf("expected echo and output blocks, got %+v", m.blocks)
	}
	if !m.blocks[0].IsEcho() || m.blocks[1].Text != "Hello World" {
		t.Fatalf("unexpected blocks: %+v", m.blocks)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "Hello World") {
		t.Fatalf("view does not show output")
	}
}

func TestHistoryAndCompletionKeys(t *testing.T) {
	m, _ := newTestModel(t)
	typeLine(m, "whoami")
	typeLine(m, "pwd")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.input.Value() != "pwd" {
		t.Fatalf("up recalled %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.input.Value() != "whoami" {
		t.Fatalf("second up recalled %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" {
		t.Fatalf("down past newest should clear, got %q", m.input.Value())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sk")})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != "skills" {
		t.Fatalf("tab completed to %q", m.input.Value())
	}
}

func TestDeferredContinuationRunsInUpdate(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := typeLine(m, "ping")
	before := len(m.blocks)

	runDeferred(t, m, cmd)

	if len(m.blocks) != before+1 {
		t.Fatalf("expected one deferred block, got %d -> %d", before, len(m.blocks))
	}
	last := m.blocks[len(m.blocks)-1]
	if last.Style != terminal.StyleSuccess || !strings.Contains(last.Text, "time=1.337ms") {
		t.Fatalf("unexpected ping reply: %+v", last)
	}
}

func TestClearAndLinks(t *testing.T) {
	m, opener := newTestModel(t)
	typeLine(m, "github")
	if len(opener.urls) != 1 || opener.urls[0] != terminal.DefaultProfile().GitHubURL {
		t.Fatalf("opener saw %v", opener.urls)
	}
	typeLine(m, "clear")
	if len(m.blocks) != 0 {
		t.Fatalf("clear left %d blocks", len(m.blocks))
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not return quit")
	}
}

func TestRenderBlock(t *testing.T) {
	s := DefaultStyles()
	echo := s.RenderBlock(terminal.Block{Prompt: "nitish@portfolio:~$", Text: "ls"})
	if !strings.Contains(echo, "nitish@portfolio:~$") || !strings.Contains(echo, "ls") {
		t.Fatalf("echo render %q", echo)
	}
	multi := s.RenderBlock(terminal.Block{Style: terminal.StyleInfo, Text: "a\nb"})
	if strings.Count(multi, "\n") != 1 {
		t.Fatalf("multi-line render %q", multi)
	}
}
