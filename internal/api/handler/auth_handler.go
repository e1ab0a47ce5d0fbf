package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/bookstore-api/internal/api/metrics"
	mw "github.com/bookhaven/bookstore-api/internal/api/middleware"
	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionManager
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionManager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, domain.RoleUser, "User registered successfully")
}

func (h *AuthHandler) register(c echo.Context, role, message string) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, err := h.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken):
			// Conflict messages name the offending field on purpose; the
			// anti-enumeration stance applies to login only.
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "all fields are required"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to register"})
	}

	metrics.RegistrationsTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusCreated, map[string]string{"message": message})
}

// Login authenticates by username and returns a bearer token.
//
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.loginFailure(c, "token", err)
	}

	metrics.LoginsTotal.WithLabelValues("token", "success").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Authentication successful",
		"token":   token,
		"user":    userPayload{Username: user.Username, Role: user.Role},
	})
}

// SessionLogin authenticates by email and binds a server-side session.
//
// @Summary      Login with email and password (session)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sessionLoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/session/login [post]
func (h *AuthHandler) SessionLogin(c echo.Context) error {
	var req sessionLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.auth.SessionLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.loginFailure(c, "session", err)
	}

	// Session state is touched only after every credential check passed, so
	// an aborted login leaves nothing behind.
	if err := h.sessions.Bind(c.Request().Context(), user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session regeneration failed"})
	}

	metrics.LoginsTotal.WithLabelValues("session", "success").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    map[string]string{"email": user.Email},
	})
}

// Logout destroys the session and clears the token cookie. Idempotent:
// logging out twice is not an error.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	clearTokenCookie(c)

	if err := h.sessions.Destroy(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// VerifyAdmin reports whether the authenticated identity holds the admin
// role. Authentication itself is enforced by the middleware.
//
// @Summary      Verify admin role
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]bool
// @Router       /api/auth/verify-admin [get]
func (h *AuthHandler) VerifyAdmin(c echo.Context) error {
	principal, ok := mw.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if principal.Role != domain.RoleAdmin {
		return c.JSON(http.StatusForbidden, map[string]bool{"is_admin": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_admin": true})
}

// Me returns the identity bound to the current session.
//
// @Summary      Current session identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := mw.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]string{
			"id":       principal.ID,
			"username": principal.Username,
			"email":    principal.Email,
			"role":     principal.Role,
		},
	})
}

// loginFailure renders the one generic response every failed login gets,
// whatever actually went wrong, except for throttling which is its own
// outcome.
func (h *AuthHandler) loginFailure(c echo.Context, method string, err error) error {
	metrics.LoginsTotal.WithLabelValues(method, "failure").Inc()
	if errors.Is(err, domain.ErrTooManyAttempts) {
		metrics.LoginLockoutsTotal.Inc()
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many attempts, try again later"})
	}
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}

func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     mw.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
