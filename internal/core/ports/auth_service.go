package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account with the given role. Conflicts are
	// reported per field (ErrUsernameTaken / ErrEmailTaken).
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	// Login authenticates by username and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// AdminLogin is Login restricted to admin accounts.
	AdminLogin(ctx context.Context, username, password string) (string, *domain.User, error)
	// SessionLogin authenticates by email for the stateful session path.
	// It performs no side effects; the caller binds the session afterwards.
	SessionLogin(ctx context.Context, email, password string) (*domain.User, error)
}
