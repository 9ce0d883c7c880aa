// Package server exposes token rotation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lwch/logging"
	"golang.org/x/time/rate"

	"github.com/born-ml/tokcipher/internal/cipher"
)

// maxBodyBytes caps transform request bodies.
const maxBodyBytes = 1 << 20

// Transformer runs transforms and reports readiness. *engine.Engine implements it.
type Transformer interface {
	Transform(text, seed string, mode cipher.Mode) (cipher.Result, error)
	Check(ctx context.Context) error
	VocabSize() int
	TokenizerName() string
}

// Server routes HTTP requests to a Transformer.
type Server struct {
	engine  Transformer
	seeds   *cipher.SeedSource
	limiter *ipRateLimiter
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client to limit requests per second with the
// given burst. A zero limit disables rate limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *Server) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newIPRateLimiter(rate.Limit(limit), burst, 15*time.Minute)
	}
}

// WithSeedSource sets where default seeds come from.
func WithSeedSource(src *cipher.SeedSource) Option {
	return func(s *Server) {
		s.seeds = src
	}
}

// New creates a server for t.
func New(t Transformer, opts ...Option) *Server {
	s := &Server{
		engine: t,
		seeds:  cipher.NewSeedSource(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/v1/transform", rateLimitMiddleware(s.limiter, http.HandlerFunc(s.handleTransform))).Methods(http.MethodPost)
	r.HandleFunc("/v1/seed", s.handleSeed).Methods(http.MethodGet)
	r.HandleFunc("/v1/info", s.handleInfo).Methods(http.MethodGet)

	r.HandleFunc("/healthz", LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", ReadinessHandler(map[string]Checker{
		"tokenizer": s.engine.Check,
	})).Methods(http.MethodGet)

	return r
}

// Handler returns the root handler with request IDs and request logging.
func (s *Server) Handler() http.Handler {
	return withRequestID(withRequestLogging(s.router))
}

// ListenAndServe serves h on addr until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logging.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
