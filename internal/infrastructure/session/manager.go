// Package session provides the server-side session store backing the
// stateful login path, built on scs with a Redis-backed store.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

// Session data keys.
const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyEmail    = "email"
	keyRole     = "role"
)

const DefaultLifetime = 24 * time.Hour

// Config controls session lifetime and cookie policy.
type Config struct {
	// Lifetime is the absolute session expiry. Defaults to DefaultLifetime.
	Lifetime time.Duration
	// CookieName names the session cookie. Defaults to "sessionId".
	CookieName string
	// Secure marks the cookie Secure; enable outside development.
	Secure bool
}

// Manager wraps scs.SessionManager with the application's identity
// binding/lookup methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager builds a session manager persisting sessions in Redis.
func NewManager(client *redis.Client, cfg Config) *Manager {
	sm := scs.New()
	sm.Store = goredisstore.New(client)
	return configure(sm, cfg)
}

// NewMemoryManager builds a manager on scs's default in-memory store.
// Tests only.
func NewMemoryManager(cfg Config) *Manager {
	return configure(scs.New(), cfg)
}

func configure(sm *scs.SessionManager, cfg Config) *Manager {
	sm.Lifetime = cfg.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = DefaultLifetime
	}

	sm.Cookie.Name = cfg.CookieName
	if sm.Cookie.Name == "" {
		sm.Cookie.Name = "sessionId"
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.Secure
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}
}

// Middleware loads and commits session state around each request. Must wrap
// every route that reads or writes sessions.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return echo.WrapMiddleware(m.LoadAndSave)
}

// Bind stores the authenticated user's identity in the session. The session
// id is regenerated first so a pre-login id can never be replayed into an
// authenticated session (fixation defence); the old id is invalidated only
// once the new session is committed.
func (m *Manager) Bind(ctx context.Context, user *domain.User) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, keyUserID, user.ID)
	m.Put(ctx, keyUsername, user.Username)
	m.Put(ctx, keyEmail, user.Email)
	m.Put(ctx, keyRole, user.Role)
	return nil
}

// Destroy invalidates the current session. Destroying an absent session is a
// no-op, which makes logout idempotent.
func (m *Manager) Destroy(ctx context.Context) error {
	return m.SessionManager.Destroy(ctx)
}

// Principal returns the identity stored in the request's session, if any.
func (m *Manager) Principal(ctx context.Context) (domain.Principal, bool) {
	id := m.GetString(ctx, keyUserID)
	if id == "" {
		return domain.Principal{}, false
	}
	return domain.Principal{
		ID:       id,
		Username: m.GetString(ctx, keyUsername),
		Email:    m.GetString(ctx, keyEmail),
		Role:     m.GetString(ctx, keyRole),
	}, true
}
