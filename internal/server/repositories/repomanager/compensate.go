package repomanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/statistics"
	"github.com/dmitrijs2005/runauth/internal/server/repositories/users"
)

// withCompensation runs fn for stores without transactions. Users created
// through the repositories handed to fn are deleted when fn fails, so a
// failed registration leaves no user without statistics. A failed delete
// is joined to fn's error so the caller logs the orphaned user.
func withCompensation(ctx context.Context, repos Repositories, fn func(ctx context.Context, repos Repositories) error) error {
	tracked := &trackingUsers{Repository: repos.Users()}

	err := fn(ctx, compensatingRepos{users: tracked, statistics: repos.Statistics()})
	if err != nil {
		if undoErr := tracked.undo(context.WithoutCancel(ctx)); undoErr != nil {
			return errors.Join(err, undoErr)
		}
	}
	return err
}

type compensatingRepos struct {
	users      users.Repository
	statistics statistics.Repository
}

func (r compensatingRepos) Users() users.Repository           { return r.users }
func (r compensatingRepos) Statistics() statistics.Repository { return r.statistics }

type trackingUsers struct {
	users.Repository

	mu      sync.Mutex
	created []string
}

func (t *trackingUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u, err := t.Repository.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.created = append(t.created, u.ID)
	t.mu.Unlock()
	return u, nil
}

func (t *trackingUsers) undo(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for i := len(t.created) - 1; i >= 0; i-- {
		if err := t.Repository.Delete(ctx, t.created[i]); err != nil {
			errs = append(errs, fmt.Errorf("undo create of user %s: %w", t.created[i], err))
		}
	}
	t.created = nil
	return errors.Join(errs...)
}
