package terminal

import "time"

// InputSurface is the single-line editable field the interpreter reads from.
type InputSurface interface {
	Value() string
	SetValue(string)
}

// TranscriptSurface is the append-only output area the interpreter renders into.
type TranscriptSurface interface {
	Append(Block)
	Clear()
	ScrollToEnd()
}

// Scheduler runs fn once after d on the same context that drives the
// interpreter. Scheduled work cannot be cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// LinkOpener opens an external link in a new browsing context.
type LinkOpener interface {
	Open(url string) error
}

// Field is an in-memory InputSurface.
type Field struct {
	value string
}

func (f *Field) Value() string { return f.value }

func (f *Field) SetValue(v string) { f.value = v }

// Transcript is an in-memory TranscriptSurface. It has no viewport, so
// ScrollToEnd only counts requests.
type Transcript struct {
	blocks  []Block
	scrolls int
}

func (t *Transcript) Append(b Block) {
	t.blocks = append(t.blocks, b)
}

func (t *Transcript) Clear() {
	t.blocks = nil
}

func (t *Transcript) ScrollToEnd() {
	t.scrolls++
}

// Blocks returns a copy of the recorded blocks.
func (t *Transcript) Blocks() []Block {
	out := make([]Block, len(t.blocks))
	copy(out, t.blocks)
	return out
}

func (t *Transcript) Len() int { return len(t.blocks) }

// Scrolls reports how many times ScrollToEnd was requested.
func (t *Transcript) Scrolls() int { return t.scrolls }

type nopOpener struct{}

func (nopOpener) Open(string) error { return nil }
