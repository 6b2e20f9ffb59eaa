package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slack-notipy/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notipy.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1})
	t.Cleanup(func() { Init(config.LogConfig{Level: "info"}) })

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %v, want debug", zerolog.GlobalLevel())
	}
	log.Info().Str("delivery_id", "abc").Msg("sent")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"delivery_id":"abc"`) {
		t.Fatalf("expected structured line in log file, got %q", raw)
	}
	if Writer() == os.Stderr {
		t.Fatal("expected Writer() to return the file sink")
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	Init(config.LogConfig{Level: "loud"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
	if Writer() != os.Stderr {
		t.Fatal("expected stderr sink without a log file")
	}
}
