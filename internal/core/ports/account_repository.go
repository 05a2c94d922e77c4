package ports

import (
	"context"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// AccountRepository persists operator credentials.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
}
