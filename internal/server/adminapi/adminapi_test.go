package adminapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ccheshirecat/folio/internal/contact"
	"github.com/ccheshirecat/folio/internal/server/db"
	"github.com/ccheshirecat/folio/internal/server/eventbus/memory"
	"github.com/ccheshirecat/folio/internal/session"
)

type fakeMessages struct {
	items   map[int64]contact.Message
	limitIn int
}

func (f *fakeMessages) List(_ context.Context, limit int) ([]contact.Message, error) {
	f.limitIn = limit
	out := make([]contact.Message, 0, len(f.items))
	for _, m := range f.items {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessages) Get(_ context.Context, id int64) (*contact.Message, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, db.ErrMessageNotFound
	}
	return &m, nil
}

func (f *fakeMessages) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return db.ErrMessageNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeSessions []session.Info

func (f fakeSessions) List() []session.Info { return f }

func newTestRouter(key string) (http.Handler, *fakeMessages, *memory.Bus) {
	msgs := &fakeMessages{items: map[int64]contact.Message{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com", Message: "hi", Status: "delivered"},
	}}
	bus := memory.New()
	h := New(Params{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Messages: msgs,
		Sessions: fakeSessions{{ID: "abc", RemoteAddr: "192.0.2.1", Commands: 3}},
		Bus:      bus,
		Key:      key,
	})
	return h, msgs, bus
}

func do(t *testing.T, h http.Handler, method, path, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(KeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMessagesCRUD(t *testing.T) {
	h, msgs, _ := newTestRouter("")

	rec := do(t, h, http.MethodGet, "/messages?limit=5", "")
	if rec.Code != http.StatusOK || msgs.limitIn != 5 {
		t.Fatalf("list: status %d limit %d", rec.Code, msgs.limitIn)
	}
	var list []contact.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list decode: %v %+v", err, list)
	}

	if rec := do(t, h, http.MethodGet, "/messages?limit=x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages/1", ""); rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/messages/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status %d", rec.Code)
	}
}

func TestSessionsList(t *testing.T) {
	h, _, _ := newTestRouter("")
	rec := do(t, h, http.MethodGet, "/sessions", "")
	var infos []session.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "abc" || infos[0].Commands != 3 {
		t.Fatalf("unexpected sessions: %+v", infos)
	}
}

func TestRequireKey(t *testing.T) {
	h, _, _ := newTestRouter("s3cret")

	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz must stay open, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/messages", "s3cret"); rec.Code != http.StatusOK {
		t.Fatalf("valid key status %d", rec.Code)
	}
}

func TestMessageEventsStream(t *testing.T) {
	h, _, bus := newTestRouter("")
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/messages", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}

	deadline := time.Now().Add(2 * time.Second)
	for bus.Subscribers(contact.TopicMessages) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	event := contact.MessageEvent{
		Type:    contact.EventReceived,
		Message: contact.Message{ID: 9, Name: "Grace"},
	}
	if err := bus.Publish(ctx, contact.TopicMessages, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	eventLine, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if strings.TrimSpace(eventLine) != "event: "+contact.EventReceived {
		t.Fatalf("unexpected event line %q", eventLine)
	}
	dataLine, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	var got contact.MessageEvent
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(dataLine), "data: ")), &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Message.ID != 9 {
		t.Fatalf("unexpected payload %+v", got)
	}
}
