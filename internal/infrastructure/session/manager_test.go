package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "user_1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
}

// newSessionApp wires a minimal echo app around a memory-backed manager so
// session state flows through LoadAndSave the way it does in production.
func newSessionApp(t *testing.T) (*echo.Echo, *Manager) {
	t.Helper()
	m := NewMemoryManager(Config{})

	e := echo.New()
	e.Use(m.Middleware())

	e.POST("/login", func(c echo.Context) error {
		if err := m.Bind(c.Request().Context(), testUser()); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/me", func(c echo.Context) error {
		principal, ok := m.Principal(c.Request().Context())
		if !ok {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, principal)
	})
	e.POST("/logout", func(c echo.Context) error {
		if err := m.Destroy(c.Request().Context()); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	// Touches the session without authenticating, like a visitor browsing
	// before login.
	e.GET("/browse", func(c echo.Context) error {
		m.Put(c.Request().Context(), "seen", true)
		return c.NoContent(http.StatusOK)
	})

	return e, m
}

func do(e *echo.Echo, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}

func TestManager_BindAndPrincipal(t *testing.T) {
	e, _ := newSessionApp(t)

	login := do(e, http.MethodPost, "/login", nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", login.Code)
	}
	cookie := sessionCookie(t, login, "sessionId")
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	me := do(e, http.MethodGet, "/me", []*http.Cookie{cookie})
	if me.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", me.Code)
	}
	body := me.Body.String()
	for _, want := range []string{"user_1", "alice", "a@x.com", domain.RoleUser} {
		if !strings.Contains(body, want) {
			t.Fatalf("principal missing %q: %s", want, body)
		}
	}
}

func TestManager_NoSessionNoPrincipal(t *testing.T) {
	e, _ := newSessionApp(t)

	me := do(e, http.MethodGet, "/me", nil)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", me.Code)
	}
}

// A session id handed out before login must not survive authentication.
func TestManager_LoginRotatesSessionID(t *testing.T) {
	e, _ := newSessionApp(t)

	browse := do(e, http.MethodGet, "/browse", nil)
	preLogin := sessionCookie(t, browse, "sessionId")

	login := do(e, http.MethodPost, "/login", []*http.Cookie{preLogin})
	postLogin := sessionCookie(t, login, "sessionId")

	if preLogin.Value == postLogin.Value {
		t.Fatalf("session id must change at login")
	}

	// The pre-login id no longer resolves to an identity.
	me := do(e, http.MethodGet, "/me", []*http.Cookie{preLogin})
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("stale session id: expected 401, got %d", me.Code)
	}
}

func TestManager_DestroyIsIdempotent(t *testing.T) {
	e, _ := newSessionApp(t)

	login := do(e, http.MethodPost, "/login", nil)
	cookie := sessionCookie(t, login, "sessionId")

	first := do(e, http.MethodPost, "/logout", []*http.Cookie{cookie})
	if first.Code != http.StatusOK {
		t.Fatalf("first logout: expected 200, got %d", first.Code)
	}

	// After destroy the identity is gone.
	me := do(e, http.MethodGet, "/me", []*http.Cookie{cookie})
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", me.Code)
	}

	// A second logout with the dead cookie still succeeds.
	second := do(e, http.MethodPost, "/logout", []*http.Cookie{cookie})
	if second.Code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", second.Code)
	}

	// So does one with no cookie at all.
	bare := do(e, http.MethodPost, "/logout", nil)
	if bare.Code != http.StatusOK {
		t.Fatalf("bare logout: expected 200, got %d", bare.Code)
	}
}

func TestManager_CookieDefaults(t *testing.T) {
	m := NewMemoryManager(Config{})
	if m.Lifetime != DefaultLifetime {
		t.Fatalf("expected default lifetime, got %v", m.Lifetime)
	}
	if m.Cookie.Name != "sessionId" || !m.Cookie.HttpOnly || m.Cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected cookie policy: %+v", m.Cookie)
	}

	custom := NewMemoryManager(Config{CookieName: "sid", Secure: true})
	if custom.Cookie.Name != "sid" || !custom.Cookie.Secure {
		t.Fatalf("unexpected custom cookie policy: %+v", custom.Cookie)
	}
}
