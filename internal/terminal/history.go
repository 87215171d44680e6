package terminal

// History records submitted lines in chronological order together with a
// navigation cursor. The cursor ranges over [0, Len()]; Len() means a fresh
// line is being edited.
type History struct {
	entries []string
	cursor  int
}

// Append records line and moves the cursor past the end.
func (h *History) Append(line string) {
	h.entries = append(h.entries, line)
	h.cursor = len(h.entries)
}

// Previous steps the cursor back and returns the recalled entry. ok is false
// when the cursor is already at the oldest entry.
func (h *History) Previous() (line string, ok bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next steps the cursor forward. Stepping off the newest entry yields an
// empty line; ok is false when the cursor is already past the end.
func (h *History) Next() (line string, ok bool) {
	last := len(h.entries) - 1
	switch {
	case h.cursor < last:
		h.cursor++
		return h.entries[h.cursor], true
	case h.cursor == last:
		h.cursor = len(h.entries)
		return "", true
	default:
		return "", false
	}
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Cursor() int { return h.cursor }

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
