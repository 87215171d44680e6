package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	for _, key := range []string{"FOLIO_DB_PATH", "FOLIO_API_LISTEN", "FOLIO_ADMIN_LISTEN", "FOLIO_ADMIN_KEY", "FOLIO_ALLOWED_ORIGINS", "FOLIO_CONTACT_RECIPIENT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.APIListenAddr != "0.0.0.0:8080" {
		t.Fatalf("api listen = %q", cfg.APIListenAddr)
	}
	if cfg.AdminListenAddr != "127.0.0.1:8081" || !cfg.AdminEnabled() {
		t.Fatalf("admin listen = %q", cfg.AdminListenAddr)
	}
	if cfg.DatabasePath != "/home/tester/.folio/state.db" {
		t.Fatalf("db path = %q", cfg.DatabasePath)
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_DB_PATH", "/tmp/folio.db")
	t.Setenv("FOLIO_API_LISTEN", "127.0.0.1:")
	t.Setenv("FOLIO_ADMIN_LISTEN", "off")
	t.Setenv("FOLIO_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("FOLIO_CONTACT_RECIPIENT", " me@example.com ")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.APIListenAddr != "127.0.0.1:8080" {
		t.Fatalf("api listen = %q", cfg.APIListenAddr)
	}
	if cfg.AdminEnabled() {
		t.Fatalf("admin should be disabled")
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.ContactRecipient != "me@example.com" {
		t.Fatalf("recipient = %q", cfg.ContactRecipient)
	}
}

func TestFromEnvRejectsBadAddresses(t *testing.T) {
	t.Setenv("FOLIO_DB_PATH", "/tmp/folio.db")
	t.Setenv("FOLIO_ADMIN_LISTEN", "")

	t.Setenv("FOLIO_API_LISTEN", "not-an-address")
	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "api listen") {
		t.Fatalf("expected api listen error, got %v", err)
	}

	t.Setenv("FOLIO_API_LISTEN", "127.0.0.1:8081")
	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "collides") {
		t.Fatalf("expected collision error, got %v", err)
	}
}
