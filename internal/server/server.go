package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/robotgroup/duinobot/internal/logging"
	"github.com/robotgroup/duinobot/internal/state"
)

// SnapshotSource yields the current fleet view. Satisfied by
// *state.Registry.
type SnapshotSource interface {
	Snapshot() []state.RobotSnapshot
}

// Config holds the server configuration
type Config struct {
	Host string
	Port int

	// PushInterval paces snapshot frames on websocket streams; 0 selects
	// the default.
	PushInterval time.Duration

	LogLevel string
}

const defaultPushInterval = 250 * time.Millisecond

// Server streams the robot fleet state to dashboards: a JSON snapshot
// endpoint for one-shot reads and a websocket endpoint for live streams.
type Server struct {
	config *Config
	source SnapshotSource
	httpd  *http.Server
}

// New creates a new Server instance reading from the given source.
func New(config *Config, source SnapshotSource) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("snapshot source must not be nil")
	}
	if config.PushInterval <= 0 {
		config.PushInterval = defaultPushInterval
	}

	s := &Server{
		config: config,
		source: source,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/robots", s.handleRobots)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpd = &http.Server{
		Addr:         net.JoinHostPort(config.Host, fmt.Sprintf("%d", config.Port)),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket streams hold the connection open
	}

	return s, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	logging.Info("Starting telemetry server",
		zap.String("addr", s.httpd.Addr),
		zap.Duration("push_interval", s.config.PushInterval),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	select {
	case sig := <-sigChan:
		logging.Info("Received shutdown signal", zap.String("signal", sig.String()))
		return s.Shutdown()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// Shutdown stops the server, allowing in-flight requests a grace period.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpd.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logging.Info("Server stopped")
	return nil
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpd.Handler
}

// handleRobots serves a one-shot JSON snapshot of every robot heard from.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := s.source.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		logging.Error("Failed to encode snapshot",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
}
