package ports

import (
	"context"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// RegisterInput carries a new operator account.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
}
