package web

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/actionsum/niribar/internal/bridge"
	"github.com/actionsum/niribar/internal/config"
)

type Server struct {
	config  *config.Config
	handler *Handler
	server  *http.Server
}

// NewServer creates the HTTP API server. A customPort above zero overrides the configured port.
func NewServer(cfg *config.Config, snapshot *bridge.Snapshot, repo Store, customPort int) *Server {
	handler := NewHandler(cfg, snapshot, repo)
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	port := cfg.Web.Port
	if customPort > 0 {
		port = customPort
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Web.Host, fmt.Sprint(port)),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
	}
}

// Start blocks until the server is shut down. It returns nil after Shutdown.
func (s *Server) Start() error {
	log.Printf("Starting web server on http://%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
