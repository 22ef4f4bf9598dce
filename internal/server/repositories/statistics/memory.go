package statistics

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	byUserID map[string]models.Statistics
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUserID: make(map[string]models.Statistics)}
}

func (r *MemoryRepository) Create(ctx context.Context, s *models.Statistics) (*models.Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserID[s.UserID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	s.ID = uuid.NewString()
	r.byUserID[s.UserID] = clone(*s)
	return s, nil
}

func (r *MemoryRepository) GetByUserID(ctx context.Context, userID string) (*models.Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUserID[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := clone(s)
	return &c, nil
}

func (r *MemoryRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byUserID[userID]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byUserID)), nil
}

// Snapshot copies the current contents and returns a function that puts
// them back.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	saved := maps.Clone(r.byUserID)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.byUserID = saved
		r.mu.Unlock()
	}
}

func clone(s models.Statistics) models.Statistics {
	s.Weekly = slices.Clone(s.Weekly)
	s.Monthly = slices.Clone(s.Monthly)
	s.Yearly = slices.Clone(s.Yearly)
	return s
}
