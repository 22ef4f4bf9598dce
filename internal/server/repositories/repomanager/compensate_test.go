package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/statistics"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainRepos struct {
	users      users.Repository
	statistics statistics.Repository
}

func (r plainRepos) Users() users.Repository           { return r.users }
func (r plainRepos) Statistics() statistics.Repository { return r.statistics }

type failingStatistics struct {
	statistics.Repository
}

func (failingStatistics) Create(ctx context.Context, s *models.Statistics) (*models.Statistics, error) {
	return nil, common.ErrorUnavailable
}

func TestWithCompensation_DeletesCreatedUsers(t *testing.T) {
	ctx := context.Background()
	u := users.NewMemoryRepository()
	repos := plainRepos{users: u, statistics: failingStatistics{statistics.NewMemoryRepository()}}

	err := withCompensation(ctx, repos, func(ctx context.Context, r Repositories) error {
		return register(ctx, r, "alice")
	})
	require.ErrorIs(t, err, common.ErrorUnavailable)

	_, err = u.GetUserByLogin(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound, "orphaned user must be removed")
}

func TestWithCompensation_KeepsExistingUsers(t *testing.T) {
	ctx := context.Background()
	u := users.NewMemoryRepository()
	_, err := u.Create(ctx, &models.User{UserName: "old", PasswordHash: "h", CreatedAt: time.Now()})
	require.NoError(t, err)
	repos := plainRepos{users: u, statistics: statistics.NewMemoryRepository()}

	boom := errors.New("boom")
	err = withCompensation(ctx, repos, func(ctx context.Context, r Repositories) error {
		if err := register(ctx, r, "new"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := u.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = u.GetUserByLogin(ctx, "old")
	assert.NoError(t, err)
}

func TestWithCompensation_Success(t *testing.T) {
	ctx := context.Background()
	u := users.NewMemoryRepository()
	repos := plainRepos{users: u, statistics: statistics.NewMemoryRepository()}

	require.NoError(t, withCompensation(ctx, repos, func(ctx context.Context, r Repositories) error {
		return register(ctx, r, "alice")
	}))
	_, err := u.GetUserByLogin(ctx, "alice")
	assert.NoError(t, err)
}

type undeletableUsers struct {
	users.Repository
}

func (undeletableUsers) Delete(ctx context.Context, userID string) error {
	return common.ErrorUnavailable
}

func TestWithCompensation_ReportsFailedUndo(t *testing.T) {
	ctx := context.Background()
	u := users.NewMemoryRepository()
	boom := errors.New("boom")
	repos := plainRepos{users: undeletableUsers{u}, statistics: statistics.NewMemoryRepository()}

	err := withCompensation(ctx, repos, func(ctx context.Context, r Repositories) error {
		if err := register(ctx, r, "alice"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, common.ErrorUnavailable)
	assert.Contains(t, err.Error(), "undo create of user")
}
