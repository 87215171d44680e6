// Package session hosts interactive terminal sessions for the web page. Each
// connection owns one interpreter driven by its own cooperative loop.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ccheshirecat/folio/internal/loop"
	"github.com/ccheshirecat/folio/internal/terminal"
)

// Conn is the subset of *websocket.Conn a session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Info describes an active session.
type Info struct {
	ID         string    `json:"id"`
	RemoteAddr string    `json:"remote_addr"`
	StartedAt  time.Time `json:"started_at"`
	Commands   int       `json:"commands"`
	Blocks     int       `json:"blocks"`
}

// Options configures a Manager.
type Options struct {
	Logger  *slog.Logger
	Profile *terminal.Profile
}

// Manager tracks active sessions.
type Manager struct {
	logger  *slog.Logger
	profile *terminal.Profile

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager constructs a Manager.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		logger:   logger,
		profile:  opts.Profile,
		sessions: make(map[string]*Session),
	}
}

// Serve runs a session on conn until the client disconnects or ctx ends.
func (m *Manager) Serve(ctx context.Context, conn Conn, remoteAddr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := m.newSession(conn, remoteAddr, cancel)
	if err != nil {
		return err
	}
	m.register(s)
	defer m.unregister(s)

	s.logger.Info("terminal session started", "remote_addr", remoteAddr)
	defer func() {
		s.logger.Info("terminal session ended", "commands", s.commands.Load())
	}()

	loopErr := make(chan error, 1)
	go func() { loopErr <- s.loop.Run(ctx) }()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := s.loop.Post(s.sendReady); err != nil {
		return err
	}

	readErr := s.readLoop(ctx)
	cancel()
	<-loopErr

	if werr := s.writeErr(); werr != nil {
		return werr
	}
	return readErr
}

// List returns active sessions ordered by start time.
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.info())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Count reports the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) unregister(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.id)
}

// Session is one connected terminal.
type Session struct {
	id        string
	remote    string
	startedAt time.Time
	conn      Conn
	cancel    context.CancelFunc
	logger    *slog.Logger
	loop      *loop.Loop

	interp     *terminal.Interpreter
	field      terminal.Field
	transcript terminal.Transcript

	commands atomic.Int64
	blocks   atomic.Int64

	errMu    sync.Mutex
	firstErr error
}

func (m *Manager) newSession(conn Conn, remoteAddr string, cancel context.CancelFunc) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		remote:    remoteAddr,
		startedAt: time.Now().UTC(),
		conn:      conn,
		cancel:    cancel,
		loop:      loop.New(32),
	}
	s.logger = m.logger.With("session", s.id)

	interp, err := terminal.New(terminal.Params{
		Input:     remoteInput{s},
		Output:    remoteTranscript{s},
		Scheduler: s.loop,
		Opener:    remoteOpener{s},
		Profile:   m.profile,
		Logger:    s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("session: new interpreter: %w", err)
	}
	s.interp = interp
	return s, nil
}

func (s *Session) info() Info {
	return Info{
		ID:         s.id,
		RemoteAddr: s.remote,
		StartedAt:  s.startedAt,
		Commands:   int(s.commands.Load()),
		Blocks:     int(s.blocks.Load()),
	}
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || isClosed(err) {
				return nil
			}
			return fmt.Errorf("session: read: %w", err)
		}

		in, err := decodeInbound(data)
		if err != nil {
			msg := err.Error()
			if postErr := s.loop.Post(func() { s.send(Frame{Type: FrameError, Error: msg}) }); postErr != nil {
				return nil
			}
			continue
		}
		if err := s.loop.Post(func() { s.handle(in) }); err != nil {
			return nil
		}
	}
}

// handle runs on the session loop.
func (s *Session) handle(in inbound) {
	if in.hasValue {
		s.field.SetValue(in.value)
	}
	if in.kind == FrameKey {
		s.interp.HandleKey(in.key)
		s.commands.Store(int64(s.interp.History().Len()))
	}
}

func (s *Session) sendReady() {
	s.send(Frame{
		Type:     FrameReady,
		Session:  s.id,
		Prompt:   s.interp.PromptLabel(),
		Commands: s.interp.Registry().Names(),
	})
}

// send runs on the session loop; gorilla connections allow one writer.
func (s *Session) send(f Frame) {
	if s.writeErr() != nil {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		s.logger.Error("marshal frame", "type", f.Type, "error", err)
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.errMu.Lock()
		if s.firstErr == nil && !isClosed(err) {
			s.firstErr = fmt.Errorf("session: write: %w", err)
		}
		s.errMu.Unlock()
		s.cancel()
		_ = s.conn.Close()
	}
}

func (s *Session) writeErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.firstErr
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, websocket.ErrCloseSent) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

// remoteInput mirrors the browser's text field. Client input frames update
// it silently; interpreter writes are pushed back to the client.
type remoteInput struct{ s *Session }

func (r remoteInput) Value() string { return r.s.field.Value() }

func (r remoteInput) SetValue(v string) {
	r.s.field.SetValue(v)
	r.s.send(Frame{Type: FrameValue, Value: &v})
}

type remoteTranscript struct{ s *Session }

func (r remoteTranscript) Append(b terminal.Block) {
	r.s.transcript.Append(b)
	r.s.blocks.Store(int64(r.s.transcript.Len()))
	r.s.send(Frame{Type: FrameBlock, Block: &b})
}

func (r remoteTranscript) Clear() {
	r.s.transcript.Clear()
	r.s.blocks.Store(0)
	r.s.send(Frame{Type: FrameClear})
}

func (r remoteTranscript) ScrollToEnd() {
	r.s.send(Frame{Type: FrameScroll})
}

type remoteOpener struct{ s *Session }

func (r remoteOpener) Open(url string) error {
	r.s.send(Frame{Type: FrameOpen, URL: url})
	return r.s.writeErr()
}
