package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/zeusync/hoverrun/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Spectators are read-only; any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server exposes session snapshots to websocket spectators.
type Server struct {
	config Config
	hub    *Hub
	http   *http.Server
	addr   atomic.Value // net.Addr

	running atomic.Bool
	closed  atomic.Bool
	logger  log.Log
}

func NewServer(config Config, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("component", "spectator"))
	s := &Server{
		config: config,
		hub:    NewHub(config.ClientBuffer, config.WriteTimeout, logger),
		logger: logger,
	}
	s.http = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: config.WriteTimeout}
	return s
}

// Handler routes the websocket endpoint and a health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) Hub() *Hub { return s.hub }

// Broadcast queues v for every connected spectator.
func (s *Server) Broadcast(v any) error {
	return s.hub.Broadcast(v)
}

// Addr is the bound listen address once Start succeeded.
func (s *Server) Addr() net.Addr {
	a, _ := s.addr.Load().(net.Addr)
	return a
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Listen)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to create listener", log.Err(err))
		return err
	}
	s.addr.Store(ln.Addr())
	s.logger.Info("Spectator server listening", log.String("addr", ln.Addr().String()), log.String("path", s.config.Path))

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Spectator server stopped", log.Err(err))
		}
	}()
	return nil
}

// Stop disconnects spectators and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return ErrServerNotRunning
	}
	if !s.closed.CompareAndSwap(false, true) {
		return ErrServerClosed
	}
	s.hub.CloseAll()
	err := s.http.Shutdown(ctx)
	s.running.Store(false)
	s.logger.Info("Spectator server stopped")
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrade failed", log.Err(err))
		return
	}
	s.hub.Attach(conn)
}
