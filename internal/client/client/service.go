package client

import (
	"context"

	"github.com/dmitrijs2005/runauth/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error)
	Me(ctx context.Context, accessToken string) (*models.Profile, error)
	Ping(ctx context.Context) error
}
