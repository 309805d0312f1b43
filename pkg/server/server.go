// Package server exposes qrx over HTTP. Every request gets a fresh session
// built from the loaded configuration, so handlers share no mutable state.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/logging"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 8 << 20

const shutdownGrace = 5 * time.Second

// Server is the qrx HTTP API
type Server struct {
	cfg    *config.Config
	enc    encoder.Encoder
	router *mux.Router
	logger zerolog.Logger
}

// New builds the API on cfg. A nil enc selects the default encoder.
func New(cfg *config.Config, enc encoder.Encoder) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:    cfg,
		enc:    enc,
		router: mux.NewRouter(),
		logger: logging.GetLogger("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.requestID)
	r.HandleFunc("/health", s.handle(s.health)).Methods(http.MethodGet)
	r.HandleFunc("/formats", s.handle(s.listFormats)).Methods(http.MethodGet)
	r.HandleFunc("/formats/{id}", s.handle(s.getFormat)).Methods(http.MethodGet)
	r.HandleFunc("/validate", s.handle(s.validate)).Methods(http.MethodPost)
	r.HandleFunc("/render", s.handle(s.render)).Methods(http.MethodPost)
	r.HandleFunc("/batch", s.handle(s.batch)).Methods(http.MethodPost)
	r.HandleFunc("/export", s.handle(s.export)).Methods(http.MethodPost)
	r.NotFoundHandler = s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return notFound(r.URL.Path)
	})
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.cfg.Serve.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       s.cfg.Serve.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Serve.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info().Msg("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) session() (*app.Session, error) {
	return app.New(s.cfg, s.enc)
}

type ctxKey struct{}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carrying ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
