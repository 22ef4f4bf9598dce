// Package statistics stores the per-user activity aggregates. The auth
// service creates exactly one record per user, at registration.
package statistics

import (
	"context"

	"github.com/dmitrijs2005/runauth/internal/server/models"
)

type Repository interface {
	// Create inserts s. A second record for the same user is rejected
	// with common.ErrorAlreadyExists.
	Create(ctx context.Context, s *models.Statistics) (*models.Statistics, error)
	GetByUserID(ctx context.Context, userID string) (*models.Statistics, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	// Count returns the number of records across all users.
	Count(ctx context.Context) (int64, error)
}
