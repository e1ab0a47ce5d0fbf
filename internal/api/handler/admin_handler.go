package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/bookstore-api/internal/api/metrics"
	mw "github.com/bookhaven/bookstore-api/internal/api/middleware"
	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

// AdminHandler serves the admin route family: registration with a forced
// admin role and the cookie-token login variant.
type AdminHandler struct {
	auth          *AuthHandler
	service       ports.AuthService
	tokenTTL      time.Duration
	secureCookies bool
}

func NewAdminHandler(auth *AuthHandler, service ports.AuthService, tokenTTL time.Duration, secureCookies bool) *AdminHandler {
	return &AdminHandler{auth: auth, service: service, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

// Register creates an admin account. The role is forced server-side; the
// request body cannot choose it.
//
// @Summary      Register a new admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/register [post]
func (h *AdminHandler) Register(c echo.Context) error {
	return h.auth.register(c, domain.RoleAdmin, "Admin registered successfully")
}

// Login authenticates an admin and sets the token in an http-only,
// same-site-strict cookie instead of the response body.
//
// @Summary      Admin login (cookie token)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.service.AdminLogin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.auth.loginFailure(c, "admin_cookie", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     mw.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	metrics.LoginsTotal.WithLabelValues("admin_cookie", "success").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Authentication successful",
		"user":    userPayload{Username: user.Username, Role: user.Role},
	})
}
