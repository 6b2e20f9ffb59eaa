package slack

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"slack-notipy/internal/config"
)

var testOrigin = Origin{Host: "build-01", PID: 4242}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// webhook records every JSON body posted to it and answers with status.
type webhook struct {
	mu     sync.Mutex
	status int
	bodies []Payload
	raw    [][]byte
	ctypes []string
	srv    *httptest.Server
}

func newWebhook(t *testing.T, status int) *webhook {
	t.Helper()
	h := &webhook{status: status}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var p Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Errorf("decode body: %v", err)
		}
		h.mu.Lock()
		h.bodies = append(h.bodies, p)
		h.raw = append(h.raw, raw)
		h.ctypes = append(h.ctypes, r.Header.Get("Content-Type"))
		status := h.status
		h.mu.Unlock()
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte("invalid_payload"))
		}
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *webhook) URL() string {
	return h.srv.URL + "/services/T000/B000/XXXX"
}

func (h *webhook) payloads() []Payload {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Payload, len(h.bodies))
	copy(out, h.bodies)
	return out
}

func (h *webhook) single(t *testing.T) Attachment {
	t.Helper()
	got := h.payloads()
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 payload, got %d", len(got))
	}
	if len(got[0].Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(got[0].Attachments))
	}
	return got[0].Attachments[0]
}

func (h *webhook) rawBodies() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.raw))
	for _, b := range h.raw {
		out = append(out, string(b))
	}
	return out
}

func (h *webhook) contentTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ctypes...)
}

func newTestNotifier(t *testing.T, url string, opts ...Option) *Notifier {
	t.Helper()
	n, err := New(config.NotifyConfig{WebhookURL: url, Timeout: time.Second}, append([]Option{WithOrigin(testOrigin)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return n
}

func fieldValue(fields []Field, title string) (string, bool) {
	for _, f := range fields {
		if f.Title == title {
			return f.Value, true
		}
	}
	return "", false
}
