package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/ccheshirecat/folio/internal/server/config"
)

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Params{API: http.NewServeMux()}); err == nil {
		t.Fatalf("expected error without logger")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New(Params{Logger: logger}); err == nil {
		t.Fatalf("expected error without api handler")
	}
}

func TestAdminListenerFollowsConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ServerConfig{APIListenAddr: "127.0.0.1:0", AdminListenAddr: "off"}

	a, err := New(Params{Config: cfg, Logger: logger, API: http.NewServeMux(), Admin: http.NewServeMux()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(a.Addrs()) != 1 {
		t.Fatalf("admin listener started while disabled: %v", a.Addrs())
	}

	cfg.AdminListenAddr = "127.0.0.1:0"
	a, err = New(Params{Config: cfg, Logger: logger, API: http.NewServeMux(), Admin: http.NewServeMux()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(a.Addrs()) != 2 {
		t.Fatalf("expected api and admin listeners, got %v", a.Addrs())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ServerConfig{APIListenAddr: "127.0.0.1:0", AdminListenAddr: "127.0.0.1:0"}
	a, err := New(Params{Config: cfg, Logger: logger, API: http.NewServeMux(), Admin: http.NewServeMux()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop")
	}
}
