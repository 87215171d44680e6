package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccheshirecat/folio/internal/terminal"
)

// Styles maps block categories onto terminal colours.
type Styles struct {
	Prompt  lipgloss.Style
	Plain   lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
}

// DefaultStyles mirrors the green-on-black palette of the web page.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// NewStyles builds the palette against r's colour profile.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Prompt:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Plain:   r.NewStyle().Foreground(lipgloss.Color("252")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("14")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Header:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).PaddingLeft(1),
		Footer:  r.NewStyle().Foreground(lipgloss.Color("240")).PaddingLeft(1),
	}
}

func (s Styles) forStyle(style terminal.Style) lipgloss.Style {
	switch style {
	case terminal.StyleInfo:
		return s.Info
	case terminal.StyleSuccess:
		return s.Success
	case terminal.StyleError:
		return s.Error
	default:
		return s.Plain
	}
}

// RenderBlock renders one transcript block. Echo blocks put the prompt label
// before the submitted line.
func (s Styles) RenderBlock(b terminal.Block) string {
	body := s.forStyle(b.Style)
	if b.IsEcho() {
		return s.Prompt.Render(b.Prompt) + " " + body.Render(b.Text)
	}
	lines := strings.Split(b.Text, "\n")
	for i, line := range lines {
		lines[i] = body.Render(line)
	}
	return strings.Join(lines, "\n")
}

// RenderTranscript renders blocks in order, one per line group.
func (s Styles) RenderTranscript(blocks []terminal.Block) string {
	var out strings.Builder
	for i, b := range blocks {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(s.RenderBlock(b))
	}
	return out.String()
}
