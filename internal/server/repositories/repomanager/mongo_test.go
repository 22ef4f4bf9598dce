package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoManager(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("repositories", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, "runauth", false)
		assert.NotNil(mt, m.Users())
		assert.NotNil(mt, m.Statistics())
	})

	mt.Run("run migrations creates indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		m := NewMongoRepositoryManager(mt.Client, "runauth", false)

		require.NoError(mt, m.RunMigrations(ctx))
	})

	mt.Run("run migrations fails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad index"}))
		m := NewMongoRepositoryManager(mt.Client, "runauth", false)

		require.Error(mt, m.RunMigrations(ctx))
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		m := NewMongoRepositoryManager(mt.Client, "runauth", false)

		require.NoError(mt, m.Ping(ctx))
	})

	mt.Run("with tx compensates without transactions", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		m := NewMongoRepositoryManager(mt.Client, "runauth", false)

		boom := errors.New("boom")
		err := m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
			if _, err := repos.Users().Create(ctx, &models.User{UserName: "alice", PasswordHash: "h"}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(mt, err, boom)

		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev)
		assert.Equal(mt, "insert", ev.CommandName)
		ev = mt.GetStartedEvent()
		require.NotNil(mt, ev)
		assert.Equal(mt, "delete", ev.CommandName)
	})
}
