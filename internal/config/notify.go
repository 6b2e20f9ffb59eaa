package config

import "time"

// NotifyConfig holds what a notifier needs to reach the webhook.
// WebhookURL is validated by the notifier constructor, not here.
type NotifyConfig struct {
	WebhookURL  string        `env:"SLACK_WEBHOOK_URL"`
	Timeout     time.Duration `env:"NOTIPY_TIMEOUT" envDefault:"5s"`
	PaletteFile string        `env:"NOTIPY_PALETTE_FILE"`
}
