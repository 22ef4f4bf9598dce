// Package services contains application services for the runauth client.
// This file defines the authentication session: register, login, refresh,
// the current-user lookup and logout.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/runauth/internal/client/client"
	"github.com/dmitrijs2005/runauth/internal/client/models"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and keep the token pair in memory.
//   - Me: fetch the current user; on a 401 the access token is refreshed once
//     and the call retried.
//   - Refresh: exchange the refresh token for a new access token.
//   - Logout: forget the session locally.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) (*models.Account, error)
	Login(ctx context.Context, username string, password []byte) error
	Me(ctx context.Context) (*models.Profile, error)
	Refresh(ctx context.Context) error
	Ping(ctx context.Context) error
	Logout()
	IsLoggedIn() bool
	UserName() string
}

type authService struct {
	client client.Client

	mu           sync.Mutex
	userName     string
	accessToken  string
	refreshToken string
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) (*models.Account, error) {
	return a.client.Register(ctx, username, string(password))
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	tokens, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = username
	a.accessToken = tokens.AccessToken
	a.refreshToken = tokens.RefreshToken
	return nil
}

func (a *authService) Me(ctx context.Context) (*models.Profile, error) {
	access, _ := a.tokens()
	if access == "" {
		return nil, ErrNotLoggedIn
	}

	p, err := a.client.Me(ctx, access)
	if !errors.Is(err, client.ErrUnauthorized) {
		return p, err
	}

	if err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	access, _ = a.tokens()
	return a.client.Me(ctx, access)
}

// Refresh replaces the access token. A rejected refresh token ends the
// session, since only a new login can produce a valid one.
func (a *authService) Refresh(ctx context.Context) error {
	_, refresh := a.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}

	tokens, err := a.client.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.Logout()
		}
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		a.refreshToken = tokens.RefreshToken
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName, a.accessToken, a.refreshToken = "", "", ""
}

func (a *authService) IsLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken != ""
}

func (a *authService) UserName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

func (a *authService) tokens() (access, refresh string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken, a.refreshToken
}
