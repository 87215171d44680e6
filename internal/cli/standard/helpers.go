package standard

import (
	"encoding/json"
	"io"
	"os"
	"strings"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func debugEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("FOLIO_LOG_LEVEL")), "debug")
}

func encodeAsJSON(out io.Writer, payload any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
