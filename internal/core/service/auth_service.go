package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
	"github.com/bookhaven/bookstore-api/internal/core/token"
)

// AuthService implements registration and the three login flows (token,
// admin cookie-token, session).
type AuthService struct {
	users    ports.UserRepository
	issuer   *token.Issuer
	throttle ports.LoginThrottle // optional
}

func NewAuthService(users ports.UserRepository, issuer *token.Issuer, throttle ports.LoginThrottle) *AuthService {
	return &AuthService{users: users, issuer: issuer, throttle: throttle}
}

// Register creates an account after checking username and email uniqueness.
// Conflicts are reported per field here; login responses stay generic.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	if username == "" || email == "" || password == "" || !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.users.Create(ctx, user)
}

// Login authenticates by username and issues a bearer token. Unknown user
// and wrong password both come back as ErrInvalidCredentials so the response
// never reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	tkn, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}

// AdminLogin is Login restricted to admin accounts. A valid password on a
// non-admin account still reads as invalid credentials.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if user.Role != domain.RoleAdmin {
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return tkn, user, nil
}

// SessionLogin authenticates by email for the session path. The throttle
// budget is shared with the username paths: failures on either count against
// the same account, and a locked account is locked everywhere. No session
// state is touched here: the handler binds the session only after this
// returns, which keeps an aborted request from leaving an orphaned session
// behind.
func (s *AuthService) SessionLogin(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if s.throttle != nil {
		if err := s.throttle.Allow(ctx, user.Username); err != nil {
			return nil, err
		}
	}
	if err := s.verifyPassword(ctx, user, password); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, user.Username)
	}
	return user, nil
}

// EnsureDefaultAdmin creates a bootstrap admin account when no admin exists
// yet. Safe to call on every startup.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	existing, err := s.users.FindByRole(ctx, domain.RoleAdmin)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.Register(ctx, username, email, password, domain.RoleAdmin)
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if s.throttle != nil {
		if err := s.throttle.Allow(ctx, username); err != nil {
			return nil, err
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.verifyPassword(ctx, user, password); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, username)
	}
	return user, nil
}

func (s *AuthService) verifyPassword(ctx context.Context, user *domain.User, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if s.throttle != nil {
			_ = s.throttle.RecordFailure(ctx, user.Username)
		}
		return domain.ErrInvalidCredentials
	}
	return nil
}
