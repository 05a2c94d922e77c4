package memory

import (
	"context"
	"sync"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

type AccountRepository struct {
	mu         sync.RWMutex
	byUsername map[string]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byUsername: make(map[string]domain.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[account.Username]; exists {
		return nil, domain.ErrAccountExists
	}
	r.byUsername[account.Username] = *account
	clone := *account
	return &clone, nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}
