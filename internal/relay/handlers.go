package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"slack-notipy/internal/slack"

	"github.com/rs/zerolog/log"
)

type notifyRequest struct {
	Text            string        `json:"text"`
	Level           string        `json:"level"`
	Name            string        `json:"name"`
	Title           string        `json:"title"`
	Color           string        `json:"color"`
	Footer          string        `json:"footer"`
	Fields          []slack.Field `json:"fields"`
	IncludePriority bool          `json:"include_priority"`
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func notifyHandler(n Notifier, maxBody int64) http.HandlerFunc {
	if maxBody <= 0 {
		maxBody = 64 << 10
	}
	return func(w http.ResponseWriter, r *http.Request) {
		metricRequestsTotal.Add(1)
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		var req notifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metricRejectedTotal.Add(1)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeHTTPError(w, http.StatusRequestEntityTooLarge, "body_too_large")
				return
			}
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			metricRejectedTotal.Add(1)
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}

		id, err := n.Notify(r.Context(), slack.Message{
			Text:            req.Text,
			Level:           slack.ParseLevel(req.Level),
			Name:            req.Name,
			Title:           req.Title,
			Color:           req.Color,
			Footer:          req.Footer,
			Fields:          req.Fields,
			IncludePriority: req.IncludePriority,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]string{"id": id})
		case errors.Is(err, slack.ErrUnknownLevel):
			metricRejectedTotal.Add(1)
			writeHTTPError(w, http.StatusBadRequest, "unknown_level")
		case errors.Is(err, slack.ErrConfig):
			metricRejectedTotal.Add(1)
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
		default:
			metricUpstreamError.Add(1)
			log.Error().Err(err).Str("delivery_id", id).Msg("relay delivery failed")
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery_failed", "id": id})
		}
	}
}
