package terminal

import (
	"fmt"
	"strings"
)

// Style classifies a transcript block for the presentation layer.
type Style int

const (
	StylePlain Style = iota
	StyleInfo
	StyleSuccess
	StyleError
)

var styleNames = [...]string{
	StylePlain:   "plain",
	StyleInfo:    "info",
	StyleSuccess: "success",
	StyleError:   "error",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(styleNames) {
		return nil, fmt.Errorf("terminal: unknown style %d", int(s))
	}
	return []byte(styleNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range styleNames {
		if n == name {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("terminal: unknown style %q", name)
}

// Block is one rendered unit of transcript output. Prompt is only set on
// echoed command lines.
type Block struct {
	Style  Style  `json:"style"`
	Prompt string `json:"prompt,omitempty"`
	Text   string `json:"text"`
}

// IsEcho reports whether the block echoes a submitted command line.
func (b Block) IsEcho() bool {
	return b.Prompt != ""
}

func newBlock(style Style, lines ...string) Block {
	return Block{Style: style, Text: strings.Join(lines, "\n")}
}
