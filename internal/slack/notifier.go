package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slack-notipy/internal/config"

	"github.com/rs/zerolog/log"
)

// Notifier sends messages to one webhook. It holds no mutable state and is
// safe for concurrent use; concurrent sends are independent.
type Notifier struct {
	webhookURL string
	sender     *Sender
	palette    Palette
	origin     Origin
	now        func() time.Time
}

type Option func(*Notifier)

func WithPalette(p Palette) Option {
	return func(n *Notifier) {
		if len(p) > 0 {
			n.palette = p.clone()
		}
	}
}

// WithHTTPClient replaces the transport client; its Timeout is kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		if c != nil {
			n.sender = &Sender{inner: c}
		}
	}
}

func WithOrigin(o Origin) Option {
	return func(n *Notifier) {
		n.origin = o
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// New validates cfg and builds a Notifier. A missing or malformed webhook URL
// or an unreadable palette file is a ConfigError.
func New(cfg config.NotifyConfig, opts ...Option) (*Notifier, error) {
	endpoint, err := validateWebhookURL(cfg.WebhookURL)
	if err != nil {
		return nil, err
	}
	palette := DefaultPalette()
	if path := strings.TrimSpace(cfg.PaletteFile); path != "" {
		palette, err = LoadPalette(path)
		if err != nil {
			return nil, &ConfigError{Key: "NOTIPY_PALETTE_FILE", Err: err}
		}
	}
	n := &Notifier{
		webhookURL: endpoint,
		sender:     NewSender(cfg.Timeout),
		palette:    palette,
		origin:     DefaultOrigin(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func validateWebhookURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ConfigError{Key: "SLACK_WEBHOOK_URL", Err: ErrMissingWebhookURL}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ConfigError{Key: "SLACK_WEBHOOK_URL", Err: fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &ConfigError{Key: "SLACK_WEBHOOK_URL", Err: fmt.Errorf("%w: need an absolute http(s) url", ErrInvalidWebhookURL)}
	}
	return u.String(), nil
}

func (n *Notifier) Palette() Palette {
	return n.palette.clone()
}

func (n *Notifier) Origin() Origin {
	return n.origin
}

// Notify builds msg and posts it once. It returns the delivery id used in
// logs. A ConfigError means nothing was sent.
func (n *Notifier) Notify(ctx context.Context, msg Message) (string, error) {
	body, err := EncodePayload(msg, n.palette, n.origin, n.now())
	if err != nil {
		return "", err
	}
	return n.post(ctx, body, string(msg.Level))
}

// SendRaw posts v, already shaped for the webhook, without any defaults.
func (n *Notifier) SendRaw(ctx context.Context, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode raw payload: %w", err)
	}
	return n.post(ctx, body, "raw")
}

func (n *Notifier) post(ctx context.Context, body []byte, level string) (string, error) {
	id := newDeliveryID(time.Now())
	start := time.Now()
	if err := n.sender.PostJSON(ctx, n.webhookURL, body); err != nil {
		metricFailedTotal.Add(1)
		return id, err
	}
	metricSentTotal.Add(1)
	log.Debug().
		Str("delivery_id", id).
		Str("msg_level", level).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("notification sent")
	return id, nil
}
