package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

// UserRepository defines the persistence contract for account records.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
