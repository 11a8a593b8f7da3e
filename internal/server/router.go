package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/metrics"
	"github.com/sevigo/snippet-engine/internal/server/handler"
)

// NewRouter creates the HTTP router with middleware, health, metrics and the
// snippet API. m may be nil, in which case /metrics is not served.
func NewRouter(p handler.Pipeline, m *metrics.Metrics, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(correlation(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	snippets := handler.NewSnippetHandler(p, log)
	r.Route("/snippet", func(r chi.Router) {
		r.Post("/parse", snippets.Parse)
		r.Post("/interpret", snippets.Interpret)
		r.Post("/lint", snippets.Lint)
		r.Post("/format", snippets.Format)
	})

	return r
}

// correlation tags each request with a correlation id, taken from the
// X-Correlation-ID header when present and from the request id otherwise.
func correlation(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := r.Header.Get("X-Correlation-ID")
			if id == "" {
				id = middleware.GetReqID(ctx)
			}
			ctx = logger.ContextWithCorrelationID(ctx, id)
			ctx = logger.NewContext(ctx, base.With(logger.CorrelationKey, id))
			w.Header().Set("X-Correlation-ID", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
