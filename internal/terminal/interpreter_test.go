package terminal

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"
)

// manualScheduler queues continuations until the test advances its clock.
type manualScheduler struct {
	now   time.Duration
	tasks []scheduledTask
}

type scheduledTask struct {
	at time.Duration
	fn func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.tasks = append(s.tasks, scheduledTask{at: s.now + d, fn: fn})
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	sort.SliceStable(s.tasks, func(i, j int) bool { return s.tasks[i].at < s.tasks[j].at })
	for len(s.tasks) > 0 && s.tasks[0].at <= s.now {
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		task.fn()
	}
}

func (s *manualScheduler) Pending() int { return len(s.tasks) }

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type harness struct {
	in     *Interpreter
	input  *Field
	out    *Transcript
	sched  *manualScheduler
	opener *recordingOpener
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		input:  &Field{},
		out:    &Transcript{},
		sched:  &manualScheduler{},
		opener: &recordingOpener{},
	}
	in, err := New(Params{
		Input:     h.input,
		Output:    h.out,
		Scheduler: h.sched,
		Opener:    h.opener,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Now:       func() time.Time { return time.Date(2025, 9, 20, 20, 30, 5, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	h.in = in
	return h
}

func (h *harness) submit(line string) {
	h.input.SetValue(line)
	h.in.Submit()
}

// output drops echoed command lines.
func (h *harness) output() []Block {
	var blocks []Block
	for _, b := range h.out.Blocks() {
		if !b.IsEcho() {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func TestNewRequiresSurfaces(t *testing.T) {
	if _, err := New(Params{Output: &Transcript{}, Scheduler: &manualScheduler{}}); err == nil {
		t.Fatalf("expected error without input surface")
	}
	if _, err := New(Params{Input: &Field{}, Scheduler: &manualScheduler{}}); err == nil {
		t.Fatalf("expected error without transcript surface")
	}
	if _, err := New(Params{Input: &Field{}, Output: &Transcript{}}); err == nil {
		t.Fatalf("expected error without scheduler")
	}
}

func TestSubmitWhitespaceIsNoop(t *testing.T) {
	for _, line := range []string{"", " ", "\t", "  \t  "} {
		h := newHarness(t)
		h.submit(line)
		if h.in.History().Len() != 0 || h.in.History().Cursor() != 0 {
			t.Fatalf("history changed for %q: len=%d cursor=%d", line, h.in.History().Len(), h.in.History().Cursor())
		}
		if h.out.Len() != 0 || h.out.Scrolls() != 0 {
			t.Fatalf("transcript changed for %q", line)
		}
		if h.input.Value() != line {
			t.Fatalf("input changed for %q: %q", line, h.input.Value())
		}
	}
}

func TestSubmitRecordsHistoryAndEchoes(t *testing.T) {
	h := newHarness(t)
	for i, line := range []string{"pwd", "  echo  hi  ", "frobnicate"} {
		h.submit(line)
		if got := h.in.History().Len(); got != i+1 {
			t.Fatalf("history len = %d, want %d", got, i+1)
		}
		if h.in.History().Cursor() != h.in.History().Len() {
			t.Fatalf("cursor not reset: %d", h.in.History().Cursor())
		}
		if h.input.Value() != "" {
			t.Fatalf("input not cleared: %q", h.input.Value())
		}
	}
	want := []string{"pwd", "echo  hi", "frobnicate"}
	if got := h.in.History().Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("history = %q, want %q", got, want)
	}

	first := h.out.Blocks()[0]
	if !first.IsEcho() || first.Prompt != "nitish@portfolio:~$" || first.Text != "pwd" || first.Style != StylePlain {
		t.Fatalf("unexpected echo block: %+v", first)
	}
	if h.out.Scrolls() != 3 {
		t.Fatalf("expected a scroll per submit, got %d", h.out.Scrolls())
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	before := h.in.Registry().Names()
	h.submit("Frobnicate now")

	out := h.output()
	if len(out) != 1 || out[0].Style != StyleError {
		t.Fatalf("expected one error block, got %+v", out)
	}
	if !strings.Contains(out[0].Text, "'Frobnicate'") || !strings.Contains(out[0].Text, "help") {
		t.Fatalf("unexpected error text: %q", out[0].Text)
	}
	if !reflect.DeepEqual(before, h.in.Registry().Names()) {
		t.Fatalf("registry mutated")
	}
	if got := h.in.Files().Names(); len(got) != 4 {
		t.Fatalf("file table mutated: %v", got)
	}
	if h.in.History().Len() != 1 {
		t.Fatalf("invalid line not recorded in history")
	}
}

func TestCommandTokenIsCaseFolded(t *testing.T) {
	h := newHarness(t)
	h.submit("PWD")
	out := h.output()
	if len(out) != 1 || out[0].Text != "/home/nitish/portfolio" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.submit("echo hello world")
	h.in.NavigateHistory(Previous)
	if h.input.Value() != "echo hello world" {
		t.Fatalf("recalled %q", h.input.Value())
	}
}

func TestHistoryNavigation(t *testing.T) {
	h := newHarness(t)
	h.submit("pwd")
	h.submit("date")
	h.submit("ls")

	h.in.HandleKey(KeyHistoryPrevious)
	h.in.HandleKey(KeyHistoryPrevious)
	if h.input.Value() != "date" {
		t.Fatalf("expected date, got %q", h.input.Value())
	}
	h.in.HandleKey(KeyHistoryPrevious)
	h.in.HandleKey(KeyHistoryPrevious)
	if h.input.Value() != "pwd" || h.in.History().Cursor() != 0 {
		t.Fatalf("expected pwd at cursor 0, got %q at %d", h.input.Value(), h.in.History().Cursor())
	}

	h.in.HandleKey(KeyHistoryNext)
	h.in.HandleKey(KeyHistoryNext)
	if h.input.Value() != "ls" {
		t.Fatalf("expected ls, got %q", h.input.Value())
	}
	h.in.HandleKey(KeyHistoryNext)
	if h.input.Value() != "" || h.in.History().Cursor() != 3 {
		t.Fatalf("expected fresh line past end, got %q at %d", h.input.Value(), h.in.History().Cursor())
	}
}

func TestHistoryBoundariesAreNoops(t *testing.T) {
	h := newHarness(t)
	h.input.SetValue("draft")
	h.in.NavigateHistory(Previous)
	h.in.NavigateHistory(Next)
	if h.input.Value() != "draft" {
		t.Fatalf("empty history changed input: %q", h.input.Value())
	}

	h.submit("pwd")
	h.input.SetValue("draft")
	h.in.NavigateHistory(Next)
	if h.input.Value() != "draft" {
		t.Fatalf("next past end changed input: %q", h.input.Value())
	}

	h.in.NavigateHistory(Previous)
	h.input.SetValue("edited")
	h.in.NavigateHistory(Previous)
	if h.input.Value() != "edited" {
		t.Fatalf("previous at cursor 0 changed input: %q", h.input.Value())
	}
}

func TestAutocompleteUnique(t *testing.T) {
	h := newHarness(t)
	h.input.SetValue("sk")
	h.in.HandleKey(KeyComplete)
	if h.input.Value() != "skills" {
		t.Fatalf("expected skills, got %q", h.input.Value())
	}
	if h.out.Len() != 0 {
		t.Fatalf("unexpected blocks: %+v", h.out.Blocks())
	}
}

func TestAutocompleteCaseFolds(t *testing.T) {
	h := newHarness(t)
	h.input.SetValue("MAT")
	h.in.Autocomplete()
	if h.input.Value() != "matrix" {
		t.Fatalf("expected matrix, got %q", h.input.Value())
	}
}

func TestAutocompleteAmbiguous(t *testing.T) {
	h := newHarness(t)
	h.input.SetValue("e")
	h.in.Autocomplete()
	if h.input.Value() != "e" {
		t.Fatalf("input changed: %q", h.input.Value())
	}
	blocks := h.out.Blocks()
	if len(blocks) != 1 || blocks[0].Style != StyleInfo {
		t.Fatalf("expected one info block, got %+v", blocks)
	}
	if blocks[0].Text != "Available commands: experience, education, echo" {
		t.Fatalf("unexpected listing: %q", blocks[0].Text)
	}
}

func TestAutocompleteNoMatch(t *testing.T) {
	h := newHarness(t)
	h.input.SetValue("zz")
	h.in.Autocomplete()
	if h.input.Value() != "zz" || h.out.Len() != 0 || h.out.Scrolls() != 0 {
		t.Fatalf("zero-match autocomplete had side effects")
	}
}

func TestHandleKeyUnknown(t *testing.T) {
	h := newHarness(t)
	if h.in.HandleKey(KeyNone) {
		t.Fatalf("KeyNone consumed")
	}
	if ParseKey("Escape") != KeyNone || ParseKey("Enter") != KeySubmit || ParseKey("Tab") != KeyComplete {
		t.Fatalf("ParseKey mapping wrong")
	}
}

func TestOpenerFailureStillConfirms(t *testing.T) {
	h := newHarness(t)
	h.opener.err = errors.New("no browser")
	h.submit("github")
	out := h.output()
	if len(out) != 1 || out[0].Style != StyleSuccess {
		t.Fatalf("expected confirmation, got %+v", out)
	}
	if len(h.opener.urls) != 1 || h.opener.urls[0] != DefaultProfile().GitHubURL {
		t.Fatalf("opener not invoked: %v", h.opener.urls)
	}
}

func TestCustomProfile(t *testing.T) {
	p := DefaultProfile()
	p.User = "ada"
	p.Home = "/home/ada"
	in, err := New(Params{Input: &Field{}, Output: &Transcript{}, Scheduler: &manualScheduler{}, Profile: &p})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if in.PromptLabel() != "ada@portfolio:~$" {
		t.Fatalf("prompt = %q", in.PromptLabel())
	}
}
