package relay

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"time"

	"slack-notipy/internal/config"
	"slack-notipy/internal/slack"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Notifier is the part of *slack.Notifier the relay needs.
type Notifier interface {
	Notify(ctx context.Context, msg slack.Message) (string, error)
}

func NewRouter(n Notifier, cfg config.RelayConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogMiddleware())

	r.Get("/healthz", healthHandler())
	r.Post("/notify", notifyHandler(n, cfg.MaxBodyBytes))
	r.Method(http.MethodGet, "/debug/vars", expvar.Handler())
	return r
}

// Serve runs the relay until ctx is done, then drains in-flight requests.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("relay listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("relay stopped")
	return nil
}
