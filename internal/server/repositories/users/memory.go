package users

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is used by tests and
// by the memory:// DSN for local runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]models.User
	byName map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]models.User),
		byName: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	r.byID[user.ID] = *user
	r.byName[user.UserName] = user.ID

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	r.byID[userID] = u
	return nil
}

func (r *MemoryRepository) SwapRefreshToken(ctx context.Context, userID, current, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || u.RefreshToken != current {
		return common.ErrorNotFound
	}
	u.RefreshToken = next
	r.byID[userID] = u
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, userID)
	delete(r.byName, u.UserName)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// Snapshot copies the current contents and returns a function that puts
// them back.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	byID := maps.Clone(r.byID)
	byName := maps.Clone(r.byName)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.byID, r.byName = byID, byName
		r.mu.Unlock()
	}
}
