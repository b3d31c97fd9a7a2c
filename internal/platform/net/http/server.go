package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"stashbox/internal/platform/config"
	"stashbox/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server serves a chi mux on API_PORT
type Server struct {
	mux *chi.Mux
	srv *http.Server
}

// NewServer reads API_PORT from cfg, default ":4000"
func NewServer(cfg config.Conf) *Server {
	m := chi.NewRouter()
	return &Server{
		mux: m,
		srv: &http.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the mux as a Router
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens on Addr and serves until Shutdown
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until Shutdown; a clean shutdown returns nil
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }
	logger.Named("http").Info().Str("addr", ln.Addr().String()).Msg("http listening")
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
