package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ccheshirecat/folio/internal/server/config"
	"github.com/ccheshirecat/folio/internal/server/db"
)

// App wires the config, persistence and the two HTTP listeners.
type App struct {
	cfg          config.ServerConfig
	logger       *slog.Logger
	store        db.Store
	servers      []*http.Server
	shutdownWait time.Duration
}

// Params carries the daemon's dependencies.
type Params struct {
	Config config.ServerConfig
	Logger *slog.Logger
	Store  db.Store
	API    http.Handler
	Admin  http.Handler
}

// New constructs the daemon application. The admin handler is only served
// when the config enables an admin listener.
func New(p Params) (*App, error) {
	if p.Logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if p.API == nil {
		return nil, fmt.Errorf("api handler must not be nil")
	}

	servers := []*http.Server{newServer(p.Config.APIListenAddr, p.API)}
	if p.Config.AdminEnabled() && p.Admin != nil {
		servers = append(servers, newServer(p.Config.AdminListenAddr, p.Admin))
	}

	return &App{
		cfg:          p.Config,
		logger:       p.Logger,
		store:        p.Store,
		servers:      servers,
		shutdownWait: 15 * time.Second,
	}, nil
}

// Terminal sessions and event streams are long lived, so only reads are bounded.
func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run serves every listener, blocking until context cancellation or a listener fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, len(a.servers))
	for _, srv := range a.servers {
		go func(srv *http.Server) {
			a.logger.Info("server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownWait)
	defer cancel()
	for _, srv := range a.servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http shutdown", "addr", srv.Addr, "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(shutdownCtx); err != nil {
			a.logger.Error("store close", "error", err)
		}
	}
	return runErr
}

// Addrs lists the configured listen addresses.
func (a *App) Addrs() []string {
	out := make([]string, 0, len(a.servers))
	for _, srv := range a.servers {
		out = append(out, srv.Addr)
	}
	return out
}
