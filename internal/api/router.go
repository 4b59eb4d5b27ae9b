package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/pyxolotl/marketplace-api/docs"
	"github.com/pyxolotl/marketplace-api/internal/api/handler"
	"github.com/pyxolotl/marketplace-api/internal/api/middleware"
	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// Deps carries everything the router needs; wiring happens in main.
type Deps struct {
	Auth     ports.AuthService
	Games    ports.GameService
	Commerce ports.CommerceService
	Reviews  ports.ReviewService
	Admin    ports.AdminService

	JWTSecret string
	Log       zerolog.Logger

	// Health probes, already bound to their backing clients.
	Liveness  echo.HandlerFunc
	Readiness echo.HandlerFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	gameHandler := handler.NewGameHandler(deps.Games)
	commerceHandler := handler.NewCommerceHandler(deps.Commerce)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	authMW := middleware.Auth(deps.JWTSecret)
	buyerMW := middleware.RBAC(domain.RoleBuyer, domain.RoleDeveloper, domain.RoleAdmin)
	developerMW := middleware.RBAC(domain.RoleDeveloper, domain.RoleAdmin)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	// Credential endpoints are throttled per IP; everything else is not.
	auth := api.Group("/auth")
	limited := api.Group("/auth", middleware.RateLimit(rate.Limit(5), 10))
	limited.POST("/registro", authHandler.Register)
	limited.POST("/login", authHandler.Login)
	limited.POST("/recuperar-password", authHandler.RequestPasswordReset)
	limited.POST("/resetear-password/:token", authHandler.ResetPassword)
	auth.GET("/verificar/:token", authHandler.VerifyEmail)
	auth.GET("/perfil", authHandler.Profile, authMW)
	auth.POST("/cambiar-password", authHandler.ChangePassword, authMW)

	// --- Catalog (public) ---
	games := api.Group("/juegos")
	games.GET("/catalogo", gameHandler.Catalog)

	// Specific routes before the :id wildcard.
	games.GET("/mis-juegos", gameHandler.Mine, authMW, developerMW)
	games.GET("/pendientes", gameHandler.Pending, authMW, adminMW)
	games.POST("", gameHandler.Submit, authMW, developerMW)
	games.GET("/:id", gameHandler.Get, optionalAuth(deps.JWTSecret))
	games.POST("/:id/revision", gameHandler.Review, authMW, adminMW)
	games.POST("/:id/gratis", commerceHandler.ClaimFree, authMW, buyerMW)
	games.GET("/:id/resenas", reviewHandler.ListForGame)
	games.POST("/:id/resenas", reviewHandler.Post, authMW, buyerMW)

	api.DELETE("/resenas/:id", reviewHandler.Delete, authMW, buyerMW)

	// --- Commerce ---
	compras := api.Group("/compras", authMW, buyerMW)
	compras.POST("/procesar", commerceHandler.Checkout)
	compras.GET("/historial", commerceHandler.History)

	biblioteca := api.Group("/biblioteca", authMW, buyerMW)
	biblioteca.GET("", commerceHandler.Library)
	biblioteca.POST("/descargar/:id", commerceHandler.Download)

	// --- Admin console ---
	admin := api.Group("/admin", authMW, adminMW)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/usuarios", adminHandler.ListUsers)
	admin.GET("/juegos", adminHandler.ListGames)
	admin.DELETE("/usuarios/no-verificados", adminHandler.PurgeUnverified)
	admin.DELETE("/usuarios/:id", adminHandler.DeleteUser)
	admin.DELETE("/usuarios/:id/juegos", adminHandler.DeleteUserGames)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	if deps.Liveness != nil {
		e.GET("/health", deps.Liveness)
	}
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness)
	}

	return e
}

// optionalAuth decodes claims when a bearer token is present but lets
// anonymous requests through. Listing visibility rules run in the service.
func optionalAuth(jwtSecret string) echo.MiddlewareFunc {
	authMW := middleware.Auth(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := authMW(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}
