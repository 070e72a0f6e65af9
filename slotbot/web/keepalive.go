package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// KeepAlive is the liveness endpoint hosting platforms ping to keep the
// process alive. It serves nothing but a 200.
type KeepAlive struct {
	server *http.Server
}

func NewKeepAlive(addr string) *KeepAlive {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("alive"))
	})

	return &KeepAlive{
		server: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (k *KeepAlive) Start() error {
	slog.Info("Keep-alive endpoint listening",
		slog.String("type", "sys"),
		slog.String("addr", k.server.Addr))
	if err := k.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (k *KeepAlive) Shutdown(ctx context.Context) error {
	return k.server.Shutdown(ctx)
}
