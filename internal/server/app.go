// Package server wires the configuration, store, auth service and HTTP API
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/runauth/internal/logging"
	"github.com/dmitrijs2005/runauth/internal/server/config"
	"github.com/dmitrijs2005/runauth/internal/server/httpapi"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/runauth/internal/server/services"
	"github.com/dmitrijs2005/runauth/internal/server/tracing"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(logOut, c.LogLevel, httpapi.ServiceName, c.Environment)

	rm, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	as, err := services.NewAuthService(rm, c, logger)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	return &App{config: c, logger: logger, repomanager: rm, authService: as}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(ctx, cancelFunc)

	shutdownTracer, err := tracing.InitTracer(ctx, httpapi.ServiceName, app.config.Environment)
	if err != nil {
		app.logger.Warn(ctx, "tracer init failed", "error", err)
	} else {
		defer func() {
			_ = shutdownTracer(context.WithoutCancel(ctx))
		}()
	}

	if app.config.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := httpapi.NewServer(app.config, app.logger, app.authService, app.repomanager)
	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", runErr)
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.repomanager.Close(closeCtx); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
