package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/server/endpoint"
	"github.com/kbukum/ntfywatch/server/middleware"
)

// shutdownTimeout bounds graceful shutdown when the caller's context has no
// earlier deadline.
const shutdownTimeout = 5 * time.Second

// Server is the control API host: a Gin engine behind a ServeMux, served
// over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	h2s        *http2.Server
	config     Config
	log        *logger.Logger

	// baseCtx parents every request context. Stop cancels it so open event
	// streams end before Shutdown waits on them.
	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu      sync.Mutex
	addr    string
	running bool
}

// New creates a Server. No middleware is applied yet; call ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		engine:     engine,
		mux:        mux,
		h2s:        h2s,
		config:     cfg,
		log:        log.WithComponent("server"),
		baseCtx:    baseCtx,
		cancelBase: cancel,
		addr:       cfg.Address(),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      h2c.NewHandler(mux, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	return s
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the full handler chain, as served on the listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ApplyMiddleware wraps the mux with recovery, request IDs, CORS, the body
// size limit and request logging.
func (s *Server) ApplyMiddleware() {
	chain := middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(s.config.CORS),
		middleware.BodySizeLimit(middleware.ParseSize(s.config.MaxBodySize, middleware.DefaultMaxBodySize)),
		middleware.RequestLogger(s.log),
	)
	s.httpServer.Handler = h2c.NewHandler(chain(s.mux), s.h2s)
}

// RegisterDefaultEndpoints registers /health and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
}

// ApplyDefaults applies the middleware stack and registers default endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(serviceName, checker)
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.running = true
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop cancels in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	s.cancelBase()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Running reports whether Start succeeded and Stop has not been called.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
