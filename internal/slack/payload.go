package slack

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultSenderName = "notipy"
	priorityFieldName = "Priority"
)

// Payload is the incoming-webhook body: a sender name and one attachment.
type Payload struct {
	Username    string       `json:"username,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Fallback   string  `json:"fallback"`
	Color      string  `json:"color"`
	AuthorName string  `json:"author_name,omitempty"`
	Title      string  `json:"title"`
	Text       string  `json:"text"`
	Fields     []Field `json:"fields,omitempty"`
	Footer     string  `json:"footer"`
	TS         int64   `json:"ts"`
}

// Message is what callers fill in; everything except Text has a default.
// Fields accepts anything NormalizeFields does.
type Message struct {
	Text            string
	Level           Level
	Name            string
	Title           string
	Color           string
	Footer          string
	Fields          any
	IncludePriority bool
}

// Origin identifies the sending process in author and footer lines.
type Origin struct {
	Host string
	PID  int
}

func DefaultOrigin() Origin {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	return Origin{Host: host, PID: os.Getpid()}
}

func (o Origin) String() string {
	return fmt.Sprintf("%s (PID: %d)", o.Host, o.PID)
}

// BuildPayload resolves defaults for msg and assembles the webhook body.
func BuildPayload(msg Message, palette Palette, origin Origin, now time.Time) (Payload, error) {
	level := msg.Level
	if strings.TrimSpace(string(level)) == "" {
		level = LevelInfo
	}
	style, err := palette.Resolve(level, msg.Color)
	if err != nil {
		return Payload{}, err
	}
	title := msg.Title
	if strings.TrimSpace(title) == "" {
		title = style.Title
	}
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = defaultSenderName
	}
	footer := msg.Footer
	if strings.TrimSpace(footer) == "" {
		footer = fmt.Sprintf("%s on %s #%s", defaultSenderName, origin.Host, FooterHash(title, msg.Text, now, origin.PID))
	}
	fields := NormalizeFields(msg.Fields)
	if msg.IncludePriority && style.Priority != "" {
		fields = append(fields, Field{Title: priorityFieldName, Value: style.Priority, Short: true})
	}

	return Payload{
		Username: name,
		Attachments: []Attachment{{
			Fallback:   fmt.Sprintf("%s on %s: %s", title, origin.Host, msg.Text),
			Color:      style.Color,
			AuthorName: fmt.Sprintf("%s on %s", name, origin),
			Title:      title,
			Text:       msg.Text,
			Fields:     fields,
			Footer:     footer,
			TS:         now.Unix(),
		}},
	}, nil
}

// EncodePayload is BuildPayload followed by JSON encoding.
func EncodePayload(msg Message, palette Palette, origin Origin, now time.Time) ([]byte, error) {
	p, err := BuildPayload(msg, palette, origin, now)
	if err != nil {
		return nil, err
	}
	return json.Marshal(p)
}
