package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/runauth/internal/client/client"
	"github.com/dmitrijs2005/runauth/internal/client/config"
	"github.com/dmitrijs2005/runauth/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) *App {
	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "runauth CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: server not reachable: %s\n", describe(err))
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

func (a *App) getStatus() string {
	if name := a.authService.UserName(); name != "" {
		return fmt.Sprintf("(%s)", name)
	}
	return ""
}
