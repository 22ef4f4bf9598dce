// Package users stores user accounts. Every backend reports a missing user
// as common.ErrorNotFound and a taken username as common.ErrorAlreadyExists.
package users

import (
	"context"

	"github.com/dmitrijs2005/runauth/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in the store-assigned ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// SetRefreshToken overwrites the stored refresh token.
	SetRefreshToken(ctx context.Context, userID, token string) error
	// SwapRefreshToken replaces current with next only if current is still
	// the stored value, and reports common.ErrorNotFound otherwise.
	SwapRefreshToken(ctx context.Context, userID, current, next string) error
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}
