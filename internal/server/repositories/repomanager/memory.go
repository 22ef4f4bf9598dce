package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/statistics"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory.
//
// WithTx calls are serialized and a failed one restores the state taken
// when it began. Writes through Users and Statistics wait for a running
// WithTx, so a restore never drops them.
type MemoryRepositoryManager struct {
	txMu       sync.Mutex
	users      *users.MemoryRepository
	statistics *statistics.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:      users.NewMemoryRepository(),
		statistics: statistics.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return &serializedUsers{Repository: m.users, mu: &m.txMu}
}

func (m *MemoryRepositoryManager) Statistics() statistics.Repository {
	return &serializedStatistics{Repository: m.statistics, mu: &m.txMu}
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	restoreUsers := m.users.Snapshot()
	restoreStatistics := m.statistics.Snapshot()

	defer func() {
		if p := recover(); p != nil {
			restoreUsers()
			restoreStatistics()
			panic(p)
		}
		if err != nil {
			restoreUsers()
			restoreStatistics()
		}
	}()

	return fn(ctx, memoryTx{m})
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(ctx context.Context) error { return nil }

// memoryTx hands the raw repositories to a WithTx callback, which already
// holds txMu.
type memoryTx struct {
	m *MemoryRepositoryManager
}

func (t memoryTx) Users() users.Repository { return t.m.users }

func (t memoryTx) Statistics() statistics.Repository { return t.m.statistics }

type serializedUsers struct {
	users.Repository
	mu *sync.Mutex
}

func (s *serializedUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Repository.Create(ctx, user)
}

func (s *serializedUsers) SetRefreshToken(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Repository.SetRefreshToken(ctx, userID, token)
}

func (s *serializedUsers) SwapRefreshToken(ctx context.Context, userID, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Repository.SwapRefreshToken(ctx, userID, current, next)
}

func (s *serializedUsers) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Repository.Delete(ctx, userID)
}

type serializedStatistics struct {
	statistics.Repository
	mu *sync.Mutex
}

func (s *serializedStatistics) Create(ctx context.Context, st *models.Statistics) (*models.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Repository.Create(ctx, st)
}
