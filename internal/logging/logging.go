package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"slack-notipy/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	sinkMu sync.RWMutex
	sink   io.Writer = os.Stderr
)

// Init installs the global zerolog logger. Logs go to stderr unless
// cfg.File is set; stdout stays free for command output.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stderr
	var fileErr error
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newCappedFile(path, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			out = w
		}
	}
	setWriter(out)

	var output io.Writer = out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable; using stderr")
	}
}

// Writer is the raw sink behind the global logger, for loggers that are not
// zerolog (the relay's slog request logger).
func Writer() io.Writer {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sink
}

func setWriter(w io.Writer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if prev, ok := sink.(*cappedFile); ok && sink != w {
		_ = prev.Close()
	}
	sink = w
}
