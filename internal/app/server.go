// Package app wires the HTTP server lifecycle: the middleware chain in front of
// the gin engine, listening, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/user-directory-service/internal/config"
)

const rateWindow = time.Minute

// Middleware returns the chain applied outside the router, outermost first.
func Middleware(cfg *config.Config, logger zerolog.Logger) []func(http.Handler) http.Handler {
	prod := cfg.App.IsProduction()
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           prod,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !prod,
	})

	middlewares := []func(http.Handler) http.Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					logger.Warn().Err(err).Str("path", r.URL.Path).Msg("secure headers blocked request")
					return
				}
				next.ServeHTTP(w, r)
			})
		},
	}
	if cfg.HTTP.RateLimit > 0 {
		middlewares = append(middlewares, httprate.Limit(cfg.HTTP.RateLimit, rateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				logger.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("rate limit exceeded")
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many requests"}`))
			}),
		))
	}
	return middlewares
}

// Chain wraps h so that middlewares[0] runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Server owns the http.Server and its shutdown budget.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	log             zerolog.Logger
}

// NewServer builds a server for cfg with the middleware chain in front of handler.
func NewServer(cfg *config.Config, handler http.Handler, logger zerolog.Logger) *Server {
	l := logger.With().Str("module", "app").Logger()
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.App.Port)),
			Handler:           Chain(handler, Middleware(cfg, l)...),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
		},
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
		log:             l,
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains in-flight
// requests within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
