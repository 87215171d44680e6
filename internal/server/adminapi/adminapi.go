// Package adminapi serves the operator endpoints used to read contact messages
// and watch live terminal sessions.
package adminapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ccheshirecat/folio/internal/contact"
	"github.com/ccheshirecat/folio/internal/server/db"
	"github.com/ccheshirecat/folio/internal/server/eventbus"
	"github.com/ccheshirecat/folio/internal/session"
)

// KeyHeader carries the admin key when one is configured.
const KeyHeader = "X-Folio-Admin-Key"

const defaultListLimit = 50

// Messages is the contact store view the admin API needs.
type Messages interface {
	List(ctx context.Context, limit int) ([]contact.Message, error)
	Get(ctx context.Context, id int64) (*contact.Message, error)
	Delete(ctx context.Context, id int64) error
}

// Sessions lists live terminal sessions.
type Sessions interface {
	List() []session.Info
}

// Params wires the admin router.
type Params struct {
	Logger   *slog.Logger
	Messages Messages
	Sessions Sessions
	Bus      eventbus.Bus
	Key      string
}

// Handler wires HTTP endpoints for operators.
type Handler struct {
	logger   *slog.Logger
	messages Messages
	sessions Sessions
	bus      eventbus.Bus
}

// New constructs the admin router.
func New(p Params) http.Handler {
	h := &Handler{
		logger:   p.Logger,
		messages: p.Messages,
		sessions: p.Sessions,
		bus:      p.Bus,
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(p.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(requireKey(p.Key))
		r.Get("/messages", h.handleListMessages)
		r.Get("/messages/{id}", h.handleGetMessage)
		r.Delete("/messages/{id}", h.handleDeleteMessage)
		r.Get("/sessions", h.handleListSessions)
		r.Get("/events/messages", h.handleMessageEvents)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("admin request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.String("latency", time.Since(start).String()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("client_ip", r.RemoteAddr),
			)
		})
	}
}

// requireKey rejects requests without the configured key. An empty key
// disables the check.
func requireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(KeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	items, err := h.messages.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list messages", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}
	msg, err := h.messages.Get(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}
	if err := h.messages.Delete(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeJSON(w, http.StatusOK, []session.Info{})
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.List())
}

// handleMessageEvents streams contact events as server-sent events.
func (h *Handler) handleMessageEvents(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		writeError(w, http.StatusServiceUnavailable, "event bus unavailable")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan any, 32)
	unsubscribe, err := h.bus.Subscribe(contact.TopicMessages, events)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-events:
			event, ok := payload.(contact.MessageEvent)
			if !ok {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("marshal message event", "error", err)
				continue
			}
			if _, err := w.Write([]byte("event: " + event.Type + "\n")); err != nil {
				return
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	if errors.Is(err, db.ErrMessageNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
