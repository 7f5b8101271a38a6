package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"
	"github.com/bluesky-social/mindmap/mindmap/api"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	svc           *mindmap.Service
	echo          *echo.Echo
	httpd         *http.Server
	metricsServer *http.Server
	logger        *slog.Logger
	cfg           Config
}

type Config struct {
	Logger        *slog.Logger
	Bind          string
	MetricsListen string

	// where echo request metrics are registered; defaults to the global
	// prometheus registry
	Registerer prometheus.Registerer
}

func NewServer(svc *mindmap.Service, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	srv := &Server{
		svc:    svc,
		logger: logger,
		cfg:    config,
	}
	srv.echo = srv.router()

	// httpd
	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}
	return srv
}

func (srv *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(slogecho.New(srv.logger))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "mindmapd",
		Registerer: srv.cfg.Registerer,
	}))
	e.Use(otelecho.Middleware("mindmapd"))
	e.Use(middleware.BodyLimit("4M"))
	e.HTTPErrorHandler = srv.errorHandler
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000, // 365 days
	}))

	e.GET("/", srv.HandleHome)
	e.GET("/_health", srv.HandleHealthCheck)

	e.POST("/maps", srv.HandleCreateMap)
	e.GET("/maps/:id", srv.HandleGetMap)
	e.POST("/maps/:id/leafs", srv.HandleAddLeaf)
	e.GET("/maps/:mapId/leafs/:leafId", srv.HandleReadLeaf)
	e.GET("/prettyPrint/:mapId", srv.HandlePrettyPrint)
	return e
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

// Run serves the API and metrics listeners until ctx is cancelled or either
// listener fails, then shuts both down.
func (srv *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.logger.Info("starting server", "bind", srv.httpd.Addr)
		if err := srv.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server shutting down unexpectedly: %w", err)
		}
		return nil
	})
	if srv.cfg.MetricsListen != "" {
		srv.metricsServer = newMetricsServer(srv.cfg.MetricsListen)
		g.Go(func() error {
			srv.logger.Info("metrics server listening", "addr", srv.metricsServer.Addr)
			if err := srv.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start metrics endpoint: %w", err)
			}
			return nil
		})
	} else {
		srv.logger.Info("metrics server disabled")
	}
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown()
	})

	err := g.Wait()
	srv.logger.Info("graceful shutdown complete")
	return err
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errs := errgroup.Group{}
	errs.Go(func() error {
		srv.httpd.SetKeepAlivesEnabled(false)
		if err := srv.httpd.Shutdown(ctx); err != nil {
			srv.logger.Error("error shutting down API server", "err", err)
			return err
		}
		return nil
	})
	errs.Go(func() error {
		if srv.metricsServer != nil {
			if err := srv.metricsServer.Shutdown(ctx); err != nil {
				srv.logger.Error("error shutting down metrics server", "err", err)
				return err
			}
		}
		return nil
	})
	return errs.Wait()
}

// errorHandler writes the JSON error body. The logging and metrics
// middlewares hand the same error back through c.Error before echo does, so
// only the first call for a response does anything.
func (srv *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errStr := api.ErrorInternalServer
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		switch code {
		case http.StatusBadRequest:
			errStr = api.ErrorBadRequest
		case http.StatusNotFound:
			errStr = "NotFound"
		case http.StatusMethodNotAllowed:
			errStr = "MethodNotAllowed"
		case http.StatusRequestEntityTooLarge:
			errStr = "PayloadTooLarge"
		}
	}

	if code >= 500 {
		srv.logger.Warn("mindmapd-http-internal-error", "path", c.Path(), "err", err)
	}

	if err := c.JSON(code, api.GenericError{Error: errStr, Message: msg}); err != nil {
		srv.logger.Error("failed to write error response", "err", err)
	}
}
