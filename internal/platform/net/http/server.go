package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/logger"
)

// grace bounds connection draining once the run context is cancelled
var grace = 10 * time.Second

// Server owns the root chi mux and the listener for gridwatch-api
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer reads API_PORT, API_READ_HEADER_TIMEOUT and API_IDLE_TIMEOUT from cfg
func NewServer(cfg config.Conf) *Server {
	mux := chi.NewRouter()
	return &Server{
		mux: mux,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: cfg.MayDuration("API_READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       cfg.MayDuration("API_IDLE_TIMEOUT", 60*time.Second),
		},
	}
}

// Router is the mount surface over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler returns the root handler, handy for httptest
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until the listener fails or ctx is cancelled, then drains for up to grace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.srv.Addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("http draining")
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	<-errc
	return nil
}
