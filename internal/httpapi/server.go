// Package httpapi exposes the component registry, payload validation and the
// state store over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-formschema/components/timezones"
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/docs"
	"github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/state"
)

// Components is the registry surface the server reads from.
// *registry.Registry and *registry.Holder satisfy it.
type Components interface {
	Types() []string
	Resolve(typeKey string) (*component.Component, error)
}

// Option customises a Server.
type Option func(*Server)

// WithBasePath mounts the API under base. The default is "/api/v1"; an empty
// base mounts it at the root.
func WithBasePath(base string) Option {
	return func(s *Server) {
		if trimmed := strings.Trim(base, "/"); trimmed != "" {
			s.basePath = "/" + trimmed
		} else {
			s.basePath = ""
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics replaces the metrics collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithStates enables the state routes.
func WithStates(service *state.Service) Option {
	return func(s *Server) {
		s.states = service
	}
}

// WithDocs enables the markdown docs route.
func WithDocs(renderer *docs.Renderer) Option {
	return func(s *Server) {
		s.docs = renderer
	}
}

// WithInfo sets the title and version of the served OpenAPI document.
func WithInfo(info openapi.Info) Option {
	return func(s *Server) {
		s.info = info
	}
}

// WithTimezones mounts the timezone options endpoint backed by catalog. A nil
// catalog uses the embedded zone list.
func WithTimezones(catalog *timezones.Catalog, options ...timezones.HandlerOption) Option {
	return func(s *Server) {
		s.timezones = timezones.Handler(catalog, options...)
	}
}

// Server routes API requests to the registry and state service.
type Server struct {
	components Components
	basePath   string
	logger     *slog.Logger
	metrics    *Metrics
	states     *state.Service
	docs       *docs.Renderer
	info       openapi.Info
	timezones  http.Handler
	engine     *gin.Engine
}

// New builds the router. gin's mode is left to the caller.
func New(components Components, options ...Option) (*Server, error) {
	if components == nil {
		return nil, errors.New("httpapi: components are required")
	}
	s := &Server{
		components: components,
		basePath:   "/api/v1",
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.info.BasePath = s.basePath
	s.engine = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Metrics returns the collectors fed by the server.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(recovery(s.logger), requestLogger(s.logger, s.metrics))

	router.GET("/healthz", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := router.Group(s.basePath)
	{
		api.GET("/openapi.json", s.openAPI)

		componentsAPI := api.Group("/components")
		{
			componentsAPI.GET("", s.listComponents)
			componentsAPI.GET("/:type", s.getComponent)
			componentsAPI.GET("/:type/example", s.getExample)
			componentsAPI.POST("/:type/validate", s.validate)
			if s.docs != nil {
				componentsAPI.GET("/:type/docs", s.getDocs)
			}
			if s.states != nil {
				componentsAPI.GET("/:type/states", s.listStates)
			}
		}

		if s.states != nil {
			statesAPI := api.Group("/states")
			{
				statesAPI.POST("", s.createState)
				statesAPI.PUT("/:id", s.putState)
				statesAPI.GET("/:id", s.getState)
				statesAPI.DELETE("/:id", s.deleteState)
			}
		}

		if s.timezones != nil {
			api.GET(timezones.DefaultRoutePath, gin.WrapH(s.timezones))
			api.HEAD(timezones.DefaultRoutePath, gin.WrapH(s.timezones))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		failure(c, http.StatusNotFound, "not found")
	})
	return router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", addr), slog.String("base", s.basePath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
