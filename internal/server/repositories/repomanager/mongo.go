package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/runauth/internal/server/repositories/statistics"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager vends repositories over one Mongo database.
//
// With transactions enabled WithTx runs inside a multi-document transaction,
// which needs a replica set. Otherwise users created by a failed unit of
// work are deleted again.
type MongoRepositoryManager struct {
	client       *mongo.Client
	users        *users.MongoRepository
	statistics   *statistics.MongoRepository
	transactions bool
}

func ConnectMongo(ctx context.Context, dsn, database string, transactions bool) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return NewMongoRepositoryManager(client, database, transactions), nil
}

func NewMongoRepositoryManager(client *mongo.Client, database string, transactions bool) *MongoRepositoryManager {
	db := client.Database(database)
	return &MongoRepositoryManager{
		client:       client,
		users:        users.NewMongoRepository(db),
		statistics:   statistics.NewMongoRepository(db),
		transactions: transactions,
	}
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.users }

func (m *MongoRepositoryManager) Statistics() statistics.Repository { return m.statistics }

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	if !m.transactions {
		return withCompensation(ctx, m, fn)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, m)
	})
	return err
}

// RunMigrations creates the unique indexes the service relies on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.statistics.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
