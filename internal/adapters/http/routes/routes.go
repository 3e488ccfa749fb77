package routes

import (
	"ruralbuild/internal/adapters/http/handlers"
	"ruralbuild/internal/adapters/http/middleware"
	"ruralbuild/internal/adapters/persistence/repositories"
	"ruralbuild/internal/config"
	"ruralbuild/internal/core/services"
	"ruralbuild/internal/pkg/rbac"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)

	// Authorizer composes the permission matrix and region resolver
	// into route middleware
	authz := middleware.NewAuthorizer(authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)

	// Public endpoints
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth endpoints
	auth := api.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authz.Protect(), authHandler.Me)
	auth.Post("/reset-password", authz.RequireAny(rbac.PermUserManage), authHandler.ResetPassword)

	// User management endpoints
	users := api.Group("/users")
	users.Get("/", authz.RequireInRegion(regionQuery, rbac.PermUserView, rbac.PermUserManage), userHandler.List)
	users.Get("/:id", authz.RequireAny(rbac.PermUserView, rbac.PermUserManage), userHandler.Get)
	users.Post("/", authz.RequireAll(rbac.PermUserManage), userHandler.Create)
	users.Put("/:id", authz.RequireAll(rbac.PermUserManage), userHandler.Update)
	users.Delete("/:id", authz.RequireAll(rbac.PermUserManage), userHandler.Delete)
}

// regionQuery extracts the target region code from the query string
func regionQuery(c *fiber.Ctx) string {
	return c.Query("region")
}
