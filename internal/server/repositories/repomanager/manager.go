// Package repomanager vends the users and statistics repositories for the
// configured store and runs units of work that must succeed or fail together.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/runauth/internal/logging"
	"github.com/dmitrijs2005/runauth/internal/server/config"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/statistics"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/users"
)

type Repositories interface {
	Users() users.Repository
	Statistics() statistics.Repository
}

type RepositoryManager interface {
	Repositories

	// WithTx runs fn against repositories bound to one unit of work. When
	// fn returns an error nothing it wrote remains visible.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// RunMigrations brings the store schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New picks the backend from the DSN scheme.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	scheme, _, ok := strings.Cut(cfg.DatabaseDSN, "://")
	if !ok {
		return nil, fmt.Errorf("database dsn has no scheme")
	}

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		logger.Info(ctx, "using mongodb store", "database", cfg.DatabaseName, "transactions", cfg.MongoTransactions)
		return ConnectMongo(ctx, cfg.DatabaseDSN, cfg.DatabaseName, cfg.MongoTransactions)
	case "postgres", "postgresql":
		logger.Info(ctx, "using postgres store")
		return OpenPostgres(cfg.DatabaseDSN)
	case "memory":
		logger.Warn(ctx, "using in-memory store, data is lost on exit")
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database dsn scheme %q", scheme)
	}
}
