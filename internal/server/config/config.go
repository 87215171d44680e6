package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDBPath          = "~/.folio/state.db"
	defaultAPIPort         = "8080"
	defaultAPIListenAddr   = "0.0.0.0:" + defaultAPIPort
	defaultAdminListenAddr = "127.0.0.1:8081"
)

// ServerConfig captures the runtime configuration required by the daemon.
type ServerConfig struct {
	DatabasePath     string
	APIListenAddr    string
	AdminListenAddr  string
	AdminKey         string
	AllowedOrigins   []string
	ContactRecipient string
}

// FromEnv loads server configuration from environment variables, applying
// opinionated defaults when unset.
func FromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		DatabasePath:     expandPath(getenv("FOLIO_DB_PATH", defaultDBPath)),
		APIListenAddr:    getenv("FOLIO_API_LISTEN", defaultAPIListenAddr),
		AdminListenAddr:  getenv("FOLIO_ADMIN_LISTEN", defaultAdminListenAddr),
		AdminKey:         strings.TrimSpace(os.Getenv("FOLIO_ADMIN_KEY")),
		AllowedOrigins:   splitList(os.Getenv("FOLIO_ALLOWED_ORIGINS")),
		ContactRecipient: strings.TrimSpace(os.Getenv("FOLIO_CONTACT_RECIPIENT")),
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return ServerConfig{}, fmt.Errorf("database path required")
	}

	api, err := normalizeListen(cfg.APIListenAddr, defaultAPIPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid api listen address %q: %w", cfg.APIListenAddr, err)
	}
	cfg.APIListenAddr = api

	if cfg.AdminListenAddr != "off" {
		admin, err := normalizeListen(cfg.AdminListenAddr, "")
		if err != nil {
			return ServerConfig{}, fmt.Errorf("invalid admin listen address %q: %w", cfg.AdminListenAddr, err)
		}
		if admin == cfg.APIListenAddr {
			return ServerConfig{}, fmt.Errorf("admin listen address %q collides with api listen address", admin)
		}
		cfg.AdminListenAddr = admin
	}

	return cfg, nil
}

// AdminEnabled reports whether the admin listener should be started.
func (c ServerConfig) AdminEnabled() bool {
	return c.AdminListenAddr != "" && c.AdminListenAddr != "off"
}

func normalizeListen(addr, fallbackPort string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("listen address required")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(port) == "" {
		if fallbackPort == "" {
			return "", fmt.Errorf("port required")
		}
		port = fallbackPort
	}
	return net.JoinHostPort(host, port), nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}
