// Package gateway is the costwise HTTP + WebSocket server. It exposes the
// analysis pipeline as a REST API, streams pipeline progress over WebSocket,
// and serves the built web UI when configured.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/costwise/costwise/internal/agent"
	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/store"
	"github.com/costwise/costwise/internal/version"
)

// analysisTimeout bounds a single pipeline run triggered over HTTP.
const analysisTimeout = 2 * time.Minute

// Server is the costwise gateway server.
type Server struct {
	cfg     config.Config
	auth    ResolvedAuth
	log     *logging.Logger
	crew    *agent.Crew
	tools   agent.Toolsets
	history store.AnalysisStore
	metrics *Metrics
	version string

	// Live-mode flags reported by /api/providers/info.
	awsLive bool
	gcpLive bool

	startedAt   time.Time
	httpServer  *http.Server
	upgrader    websocket.Upgrader
	authLimiter *authRateLimiter
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithProviderStatus records whether the pricing clients run against live
// provider APIs.
func WithProviderStatus(aws *pricing.AWSClient, gcp *pricing.GCPClient) ServerOption {
	return func(s *Server) {
		if aws != nil {
			s.awsLive = aws.Live()
		}
		if gcp != nil {
			s.gcpLive = gcp.Live()
		}
	}
}

// WithLiveFlags sets the live-mode flags directly.
func WithLiveFlags(awsLive, gcpLive bool) ServerOption {
	return func(s *Server) {
		s.awsLive = awsLive
		s.gcpLive = gcpLive
	}
}

// New creates a gateway server over a connected crew and history store.
// The toolsets are used to build per-stream crews with step callbacks.
func New(cfg config.Config, tools agent.Toolsets, history store.AnalysisStore, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:         cfg,
		auth:        ResolveAuth(cfg.Server.Auth),
		log:         log.Sub("gateway"),
		crew:        agent.NewCrew(tools, log),
		tools:       tools,
		history:     history,
		metrics:     NewMetrics(),
		version:     version.Version,
		startedAt:   time.Now(),
		authLimiter: newAuthRateLimiter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.Server.CORSOrigins),
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin
// headers. If no origins are configured, only same-origin (no Origin header)
// or non-browser clients are allowed.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Same-origin or non-browser clients
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan", "auto":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	handler := withMiddleware(s.Router(), s.log, s.metrics, s.cfg.Server.CORSOrigins)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // analysis runs synchronously inside the request
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	// Enable TLS if configured
	if s.cfg.Server.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.Server.TLS.CertPath, s.cfg.Server.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		ln = tls.NewListener(ln, tlsCfg)
		s.log.Info().Msg("TLS enabled")
	} else if s.cfg.Server.Bind != "loopback" {
		s.log.Warn().Msg("TLS is not enabled, credentials will be transmitted in cleartext")
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Bool("auth", s.auth.Enabled()).
		Bool("awsLive", s.awsLive).
		Bool("gcpLive", s.gcpLive).
		Msg("gateway server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
