package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local diagnostics endpoint
	},
}

// Server serves /metrics from a Prometheus gatherer and /ws from a Hub
type Server struct {
	hub        *Hub
	logger     types.Logger
	mux        *http.ServeMux
	httpServer *http.Server
}

// New creates a server. gatherer may be nil to omit /metrics.
func New(addr string, hub *Hub, gatherer prometheus.Gatherer, logger types.Logger) *Server {
	if logger == nil {
		logger = types.NewNoOpLogger()
	}

	s := &Server{
		hub:    hub,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.mux,
		ReadTimeout: 15 * time.Second,
	}

	s.mux.HandleFunc("/ws", s.handleWebSocket)
	if gatherer != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured address and serves in the background. It
// returns the bound address, which differs from the configured one for ":0".
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", types.NewSchedulerError("listen", types.KindResource, err).
			WithContext("addr", s.httpServer.Addr)
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", types.F("error", err))
		}
	}()

	addr := ln.Addr().String()
	s.logger.Info("http server listening",
		types.F("metrics", "http://"+addr+"/metrics"), types.F("events", "ws://"+addr+"/ws"))
	return addr, nil
}

// Shutdown disconnects websocket clients and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", types.F("error", err))
		return
	}

	c, ok := s.hub.register(conn)
	if !ok {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "run finished")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}
	s.logger.Debug("websocket client connected", types.F("remote", r.RemoteAddr))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.hub.writeLoop(c)
	}()

	// clients only listen; reading detects disconnects and handles control frames
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", types.F("error", err))
			}
			break
		}
	}

	s.hub.unregister(c)
	<-done
	conn.Close()
	s.logger.Debug("websocket client disconnected", types.F("remote", r.RemoteAddr))
}
