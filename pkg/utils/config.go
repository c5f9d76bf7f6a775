package utils

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config is the immutable process configuration. It is loaded once at
// startup; everything else is re-derived per request.
type Config struct {
	Token        string
	DatabaseID   string
	SharedSecret string
	ListenAddr   string
	Labels       PropertyLabels
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present (a missing file is not an error).
func Load() Config {
	_ = godotenv.Load()

	addr := os.Getenv("ANGEL_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Config{
		Token:        strings.TrimSpace(os.Getenv("NOTION_TOKEN")),
		DatabaseID:   NormalizeDatabaseID(os.Getenv("JOURNAL_DATABASE_ID")),
		SharedSecret: os.Getenv("ANGEL_SHARED_SECRET"),
		ListenAddr:   addr,
		Labels:       LoadLabels(os.Getenv("ANGEL_LABELS_FILE")),
	}
}

var hex32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NormalizeDatabaseID canonicalizes a container id given in either compact
// (32 hex digits) or delimited form into lowercase 8-4-4-4-12. Anything not
// reducible to 32 hex digits passes through unchanged, so a bad value is
// rejected by the remote rather than locally.
func NormalizeDatabaseID(s string) string {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	if !hex32.MatchString(t) {
		return s
	}
	u, err := uuid.Parse(t)
	if err != nil {
		return s
	}
	return u.String()
}
