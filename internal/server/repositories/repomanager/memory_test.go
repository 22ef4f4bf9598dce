package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(ctx context.Context, repos Repositories, name string) error {
	u, err := repos.Users().Create(ctx, &models.User{UserName: name, PasswordHash: "h", CreatedAt: time.Now()})
	if err != nil {
		return err
	}
	_, err = repos.Statistics().Create(ctx, models.NewStatistics(u.ID, time.Now()))
	return err
}

func TestMemoryManager_WithTx(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	require.NoError(t, m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		return register(ctx, repos, "alice")
	}))

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		if err := register(ctx, repos, "bob"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := m.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "bob must be rolled back")

	u, err := m.Users().GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	c, err := m.Statistics().CountByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c)
}

func TestMemoryManager_WithTxPanic(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	assert.Panics(t, func() {
		_ = m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
			_ = register(ctx, repos, "alice")
			panic("boom")
		})
	})

	n, err := m.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryManager_WriteDuringFailedTxSurvives(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		return register(ctx, repos, "alice")
	}))
	alice, err := m.Users().GetUserByLogin(ctx, "alice")
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
			close(started)
			<-release
			_ = register(ctx, repos, "bob")
			return errors.New("boom")
		})
	}()
	<-started

	setDone := make(chan error, 1)
	go func() {
		setDone <- m.Users().SetRefreshToken(ctx, alice.ID, "rt-1")
	}()

	close(release)
	require.Error(t, <-txDone)
	require.NoError(t, <-setDone)

	got, err := m.Users().GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "rt-1", got.RefreshToken, "login written next to a failed tx must not be rolled back")

	_, err = m.Users().GetUserByLogin(ctx, "bob")
	assert.Error(t, err)
}

func TestMemoryManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	assert.NoError(t, m.RunMigrations(ctx))
	assert.NoError(t, m.Ping(ctx))
	assert.NoError(t, m.Close(ctx))
}
