// Package server exposes the panel over HTTP: the rendered document, control
// submission, tree-wide refresh and expansion, the log tail, and a websocket
// stream of host events and log entries.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/goliatone/go-framepanel/pkg/logging"
	"github.com/goliatone/go-framepanel/pkg/panel"
	"github.com/goliatone/go-framepanel/pkg/render"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches the server logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTail exposes a log tail through /api/log and the websocket stream.
func WithTail(tail *logging.Tail) Option {
	return func(s *Server) { s.tail = tail }
}

// WithTheme forwards theme configuration to the renderer.
func WithTheme(options render.Options) Option {
	return func(s *Server) {
		s.renderOpts.Theme = options.Theme
		s.renderOpts.AssetURLPrefix = options.AssetURLPrefix
	}
}

// Server serves one panel for one host.
type Server struct {
	cfg        Config
	host       frame.Host
	controller *panel.Controller
	renderer   render.Renderer
	log        *logging.Logger
	tail       *logging.Tail
	renderOpts render.Options

	engine *gin.Engine
}

// New wires routes for the supplied controller and renderer.
func New(cfg Config, host frame.Host, controller *panel.Controller, renderer render.Renderer, options ...Option) (*Server, error) {
	if host == nil {
		return nil, fmt.Errorf("server: host is required")
	}
	if controller == nil {
		return nil, fmt.Errorf("server: controller is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("server: renderer is required")
	}

	s := &Server{
		cfg:        cfg,
		host:       host,
		controller: controller,
		renderer:   renderer,
		log:        logging.NewNop(),
		renderOpts: render.Options{
			Title:       cfg.Title,
			CollapseAll: cfg.CollapseAll,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/", s.handleIndex)
	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	{
		api.GET("/controls", s.handleListControls)
		api.POST("/controls/:id", s.handleSubmit)
		api.POST("/refresh", s.handleRefresh)
		api.POST("/expanded", s.handleExpanded)
		api.GET("/log", s.handleLog)
	}

	engine.GET("/ws", s.handleWebsocket)

	s.engine = engine
	return s, nil
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains with a bounded shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
