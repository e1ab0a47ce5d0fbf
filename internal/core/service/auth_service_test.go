package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/token"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by username
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id_" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRole(_ context.Context, role string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Role == role {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	issuer, err := token.NewIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return NewAuthService(repo, issuer, nil), repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "Abc12345!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Abc12345!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "", "a@x.com", "pass", domain.RoleUser); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "b@x.com", "pass", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "b@x.com", "Abc12345!", domain.RoleUser); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice2", "a@x.com", "Abc12345!", domain.RoleUser); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tkn, user, err := svc.Login(context.Background(), "alice", "Abc12345!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tkn == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	issuer, _ := token.NewIssuer("secret", time.Hour)
	claims, err := issuer.Verify(tkn)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Username != "alice" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

// Unknown account and wrong password must be indistinguishable.
func TestAuthService_Login_GenericFailure(t *testing.T) {
	svc, _ := newTestService(t)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	_, _, errWrongPass := svc.Login(context.Background(), "alice", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errNoUser)
	}
}

func TestAuthService_AdminLogin_RejectsUserRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	if _, _, err := svc.AdminLogin(context.Background(), "alice", "Abc12345!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for non-admin, got %v", err)
	}
}

func TestAuthService_AdminLogin_Success(t *testing.T) {
	svc, _ := newTestService(t)

	_, _ = svc.Register(context.Background(), "root", "root@x.com", "Admin@123", domain.RoleAdmin)

	tkn, user, err := svc.AdminLogin(context.Background(), "root", "Admin@123")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if tkn == "" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result: token=%q user=%+v", tkn, user)
	}
}

func TestAuthService_SessionLogin(t *testing.T) {
	svc, _ := newTestService(t)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	user, err := svc.SessionLogin(context.Background(), "a@x.com", "Abc12345!")
	if err != nil {
		t.Fatalf("session login failed: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.SessionLogin(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SessionLogin(context.Background(), "ghost@x.com", "Abc12345!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

type stubThrottle struct {
	failures map[string]int
	max      int
}

func (s *stubThrottle) Allow(_ context.Context, username string) error {
	if s.failures[username] >= s.max {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (s *stubThrottle) RecordFailure(_ context.Context, username string) error {
	s.failures[username]++
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, username string) error {
	delete(s.failures, username)
	return nil
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	issuer, _ := token.NewIssuer("secret", time.Hour)
	throttle := &stubThrottle{failures: make(map[string]int), max: 2}
	svc := NewAuthService(repo, issuer, throttle)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Budget spent: even the right password is refused now.
	if _, _, err := svc.Login(context.Background(), "alice", "Abc12345!"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

// The throttle covers both credential paths: failed email logins spend the
// same budget, and a spent budget locks the session path too, not just the
// token path.
func TestAuthService_SessionLogin_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	issuer, _ := token.NewIssuer("secret", time.Hour)
	throttle := &stubThrottle{failures: make(map[string]int), max: 2}
	svc := NewAuthService(repo, issuer, throttle)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	for i := 0; i < 2; i++ {
		if _, err := svc.SessionLogin(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if throttle.failures["alice"] != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", throttle.failures["alice"])
	}

	// The right password no longer gets through on either path.
	if _, err := svc.SessionLogin(context.Background(), "a@x.com", "Abc12345!"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("session path: expected ErrTooManyAttempts, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "Abc12345!"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("token path: expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_SessionLogin_ResetsThrottleOnSuccess(t *testing.T) {
	repo := newStubUserRepo()
	issuer, _ := token.NewIssuer("secret", time.Hour)
	throttle := &stubThrottle{failures: make(map[string]int), max: 3}
	svc := NewAuthService(repo, issuer, throttle)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	_, _ = svc.SessionLogin(context.Background(), "a@x.com", "wrong")
	if _, err := svc.SessionLogin(context.Background(), "a@x.com", "Abc12345!"); err != nil {
		t.Fatalf("session login failed: %v", err)
	}
	if throttle.failures["alice"] != 0 {
		t.Fatalf("expected failure count reset, got %d", throttle.failures["alice"])
	}
}

func TestAuthService_Login_ResetsThrottleOnSuccess(t *testing.T) {
	repo := newStubUserRepo()
	issuer, _ := token.NewIssuer("secret", time.Hour)
	throttle := &stubThrottle{failures: make(map[string]int), max: 3}
	svc := NewAuthService(repo, issuer, throttle)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "Abc12345!", domain.RoleUser)

	_, _, _ = svc.Login(context.Background(), "alice", "wrong")
	if _, _, err := svc.Login(context.Background(), "alice", "Abc12345!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.failures["alice"] != 0 {
		t.Fatalf("expected failure count reset, got %d", throttle.failures["alice"])
	}
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	svc, repo := newTestService(t)

	admin, err := svc.EnsureDefaultAdmin(context.Background(), "admin", "admin@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", admin.Role)
	}

	// Second call is a no-op returning the existing account.
	again, err := svc.EnsureDefaultAdmin(context.Background(), "other", "other@example.com", "Other@123")
	if err != nil {
		t.Fatalf("second EnsureDefaultAdmin: %v", err)
	}
	if again.Username != "admin" {
		t.Fatalf("expected existing admin, got %+v", again)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single account, got %d", len(repo.users))
	}
}
