// Package httpapi exposes the auth service over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/runauth/internal/logging"
	"github.com/dmitrijs2005/runauth/internal/server/config"
	"github.com/dmitrijs2005/runauth/internal/server/metrics"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/dmitrijs2005/runauth/internal/server/services"
	"github.com/dmitrijs2005/runauth/internal/server/tracing"
	"github.com/gin-gonic/gin"
)

const ServiceName = "runauth"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

type AuthService interface {
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Register(ctx context.Context, userName, password string) (*models.User, error)
	WhoAmI(ctx context.Context, userName string) (*models.Profile, error)
	Authenticate(token string) (string, error)
}

// Pinger reports whether the store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	auth            AuthService
	store           Pinger
	logger          logging.Logger
	router          *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, auth AuthService, store Pinger) *Server {
	s := &Server{
		address:         cfg.EndpointAddrHTTP,
		shutdownTimeout: cfg.ShutdownTimeout,
		auth:            auth,
		store:           store,
		logger:          l.With("module", "http_server"),
	}
	s.router = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	registry := metrics.NewRegistry()

	r := gin.New()
	r.Use(requestID())
	r.Use(requestLogger(s.logger))
	r.Use(recovery(s.logger))
	r.Use(tracing.Middleware(ServiceName))

	r.GET("/healthz", s.liveness)
	r.GET("/readyz", s.readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	r.POST("/login", s.login)
	r.POST("/refresh", s.refresh)
	r.POST("/register", s.register)
	r.GET("/me", s.bearerAuth(), s.me)

	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
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

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
