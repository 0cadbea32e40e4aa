package ports

import (
	"context"

	"github.com/biyeshadi/matrimony-system/internal/core/domain"
)

// AuthService implements registration and login. Registration also seeds the
// new account with its free starter membership.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
