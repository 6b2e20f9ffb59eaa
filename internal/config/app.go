package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultEnvFile = ".env"
	defaultTimeout = 5 * time.Second
)

type AppConfig struct {
	Log    LogConfig
	Notify NotifyConfig
	Relay  RelayConfig
}

// LoadApp reads every config section from the process environment with the
// settings file at envFile layered on top. An empty envFile falls back to
// NOTIPY_ENV_FILE, then ".env". A missing file is ignored.
func LoadApp(envFile string) (AppConfig, error) {
	environ, err := Environ(envFile)
	if err != nil {
		return AppConfig{}, err
	}
	return ParseApp(environ)
}

// ParseApp reads every config section from an already merged environment.
func ParseApp(environ map[string]string) (AppConfig, error) {
	opts := env.Options{Environment: environ}

	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg.Log, opts); err != nil {
		return AppConfig{}, fmt.Errorf("parse log config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.Notify, opts); err != nil {
		return AppConfig{}, fmt.Errorf("parse notify config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.Relay, opts); err != nil {
		return AppConfig{}, fmt.Errorf("parse relay config: %w", err)
	}
	cfg.Notify.WebhookURL = strings.TrimSpace(cfg.Notify.WebhookURL)
	if cfg.Notify.Timeout <= 0 {
		cfg.Notify.Timeout = defaultTimeout
	}
	if cfg.Relay.MaxBodyBytes <= 0 {
		cfg.Relay.MaxBodyBytes = 64 << 10
	}
	return cfg, nil
}

// Environ returns the process environment with the settings file applied.
// Keys present in the file win over the process environment.
func Environ(envFile string) (map[string]string, error) {
	out := env.ToMap(os.Environ())
	path := strings.TrimSpace(envFile)
	if path == "" {
		path = strings.TrimSpace(out["NOTIPY_ENV_FILE"])
	}
	if path == "" {
		path = defaultEnvFile
	}
	fileVals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("read env file %q: %w", path, err)
	}
	for k, v := range fileVals {
		out[k] = v
	}
	return out, nil
}
