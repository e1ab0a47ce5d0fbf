package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookhaven/bookstore-api/internal/api/handler"
	"github.com/bookhaven/bookstore-api/internal/api/middleware"
	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
	"github.com/bookhaven/bookstore-api/internal/core/service"
	"github.com/bookhaven/bookstore-api/internal/core/token"
	mongodb "github.com/bookhaven/bookstore-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhaven/bookstore-api/internal/infrastructure/db/redis"
	"github.com/bookhaven/bookstore-api/internal/infrastructure/session"
)

// Deps carries the external collaborators the router wires together.
type Deps struct {
	Mongo         *mongo.Database
	Redis         *redis.Client
	Issuer        *token.Issuer
	Sessions      *session.Manager
	Throttle      ports.LoginThrottle
	SecureCookies bool
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bookstore"))
	// Session state loads/commits around every request so both the session
	// login and the idempotent logout can touch it.
	e.Use(d.Sessions.Middleware())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(d.Mongo)
	orderRepo := mongodb.NewOrderRepository(d.Mongo)
	bookRepo := mongodb.NewBookRepository(d.Mongo)

	throttle := d.Throttle
	if throttle == nil {
		throttle = redisdb.NewLoginThrottle(d.Redis, 0, 0)
	}

	authService := service.NewAuthService(userRepo, d.Issuer, throttle)
	orderService := service.NewOrderService(orderRepo, userRepo)
	bookService := service.NewBookService(bookRepo)

	authHandler := handler.NewAuthHandler(authService, d.Sessions)
	adminHandler := handler.NewAdminHandler(authHandler, authService, d.Issuer.TTL(), d.SecureCookies)
	orderHandler := handler.NewOrderHandler(orderService)
	bookHandler := handler.NewBookHandler(bookService)

	// Token and session proofs are never combined: each route family picks
	// exactly one.
	tokenAuth := middleware.Authenticate(middleware.TokenProof{Verifier: d.Issuer})
	sessionAuth := middleware.Authenticate(middleware.SessionProof{Sessions: d.Sessions})

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/session/login", authHandler.SessionLogin)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify-admin", authHandler.VerifyAdmin, tokenAuth)
	auth.GET("/me", authHandler.Me, sessionAuth)

	// --- Admin routes ---
	admin := e.Group("/api/admin")
	admin.POST("/register", adminHandler.Register)
	admin.POST("/login", adminHandler.Login)
	admin.GET("/orders", orderHandler.ListAll,
		tokenAuth, middleware.RequirePermission(domain.PermManageOrders))
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus,
		tokenAuth, middleware.RequirePermission(domain.PermManageOrders))

	// --- Order routes ---
	orders := e.Group("/api/orders", tokenAuth)
	orders.POST("", orderHandler.Place, middleware.RequirePermission(domain.PermPlaceOrder))
	orders.GET("/email/:email", orderHandler.ListByEmail, middleware.RequirePermission(domain.PermViewOwnOrders))

	// --- Book routes ---
	books := e.Group("/api/books")
	books.GET("", bookHandler.List)
	books.GET("/:id", bookHandler.Get)
	books.POST("", bookHandler.Create, tokenAuth, middleware.RequirePermission(domain.PermManageBooks))
	books.PUT("/:id", bookHandler.Update, tokenAuth, middleware.RequirePermission(domain.PermManageBooks))
	books.DELETE("/:id", bookHandler.Delete, tokenAuth, middleware.RequirePermission(domain.PermManageBooks))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
