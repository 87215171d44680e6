package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccheshirecat/folio/internal/contact"
	"github.com/ccheshirecat/folio/internal/server/adminapi"
	"github.com/ccheshirecat/folio/internal/server/app"
	"github.com/ccheshirecat/folio/internal/server/config"
	"github.com/ccheshirecat/folio/internal/server/db/sqlite"
	"github.com/ccheshirecat/folio/internal/server/eventbus/memory"
	"github.com/ccheshirecat/folio/internal/server/httpapi"
	"github.com/ccheshirecat/folio/internal/session"
	"github.com/ccheshirecat/folio/internal/shared/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logging.New("foliod")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}

	events := memory.New()

	contacts, err := contact.New(contact.Params{
		Store:     store,
		Bus:       events,
		Logger:    logger.With("component", "contact"),
		Recipient: cfg.ContactRecipient,
	})
	if err != nil {
		logger.Error("init contact service", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(session.Options{Logger: logger.With("component", "session")})

	api := httpapi.New(httpapi.Params{
		Logger:         logger,
		Contact:        contacts,
		Sessions:       sessions,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	admin := adminapi.New(adminapi.Params{
		Logger:   logger.With("component", "admin"),
		Messages: contacts,
		Sessions: sessions,
		Bus:      events,
		Key:      cfg.AdminKey,
	})
	if cfg.AdminEnabled() && cfg.AdminKey == "" {
		logger.Warn("admin api has no key configured", "addr", cfg.AdminListenAddr)
	}

	daemon, err := app.New(app.Params{
		Config: cfg,
		Logger: logger,
		Store:  store,
		API:    api,
		Admin:  admin,
	})
	if err != nil {
		logger.Error("init app", "error", err)
		os.Exit(1)
	}

	if err := daemon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("daemon exit", "error", err)
		os.Exit(1)
	}
}
