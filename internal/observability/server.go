package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reddit-sentiment-lab/internal/logger"
)

// NewMux returns the health and metrics routes.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", Handler())
	return mux
}

// Serve exposes NewMux on addr until ctx is done. An empty addr disables it.
func Serve(ctx context.Context, addr string, log *logger.Logger) {
	if addr == "" {
		return
	}
	log = logger.OrDefault(log)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Infow("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("metrics server failed", "error", err)
		}
	}()
}
