package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		if err := Setup(Config{Level: "loud"}); err == nil {
			t.Fatalf("expected error for unknown level")
		}
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		if err := Setup(Config{Level: "debug", Format: "json", Output: path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if zerolog.GlobalLevel() != zerolog.DebugLevel {
			t.Fatalf("expected debug level, got %s", zerolog.GlobalLevel())
		}
	})
}

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"short":                    "[REDACTED]",
		"TEST-1234567890-abcdefgh": "TEST-...[REDACTED]",
	}
	for in, want := range cases {
		if got := Redact(in); got != want {
			t.Fatalf("Redact(%q): expected %q, got %q", in, want, got)
		}
	}
}
