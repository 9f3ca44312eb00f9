package routes

import (
	"aeroclean/internal/adapters/http/handlers"
	"aeroclean/internal/adapters/http/middleware"
	"aeroclean/internal/adapters/persistence/repositories"
	"aeroclean/internal/config"
	"aeroclean/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and registers all routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	checklistRepo := repositories.NewChecklistItemRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	locationService := services.NewLocationService(locationRepo, checklistRepo)
	submissionService := services.NewSubmissionService(submissionRepo, locationRepo, checklistRepo, cfg.Upload.Dir)
	dashboardService := services.NewDashboardService(submissionRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	locationHandler := handlers.NewLocationHandler(locationService, dashboardService)
	checklistHandler := handlers.NewChecklistHandler(locationService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, dashboardService)

	// Swagger docs
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded photos
	app.Static("/media", cfg.Upload.Dir)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Check)

	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.AdminOnly()

	// Auth. Login and refresh are public with a stricter rate limit.
	authGroup := api.Group("/auth")
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)
	authGroup.Post("/register", auth, admin, authHandler.Register)
	authGroup.Post("/logout", auth, authHandler.Logout)
	authGroup.Post("/logout-all", auth, authHandler.LogoutAll)
	authGroup.Get("/me", auth, userHandler.Me)
	authGroup.Patch("/me", auth, userHandler.UpdateMe)

	// Users (admin)
	users := authGroup.Group("/users", auth, admin)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	cleanings := api.Group("/cleanings", auth)

	// Locations
	locations := cleanings.Group("/locations")
	locations.Get("/", locationHandler.List)
	locations.Post("/", admin, locationHandler.Create)
	locations.Get("/:id", locationHandler.Get)
	locations.Put("/:id", admin, locationHandler.Update)
	locations.Patch("/:id", admin, locationHandler.Update)
	locations.Delete("/:id", admin, locationHandler.Delete)
	locations.Get("/:id/stats", locationHandler.Stats)

	// Checklist items
	checklist := cleanings.Group("/checklist-items")
	checklist.Get("/", checklistHandler.List)
	checklist.Post("/", admin, checklistHandler.Create)
	checklist.Get("/:id", checklistHandler.Get)
	checklist.Put("/:id", admin, checklistHandler.Update)
	checklist.Patch("/:id", admin, checklistHandler.Update)
	checklist.Delete("/:id", admin, checklistHandler.Delete)

	// Submissions. Static segments before :id so today/stats resolve first.
	submissions := cleanings.Group("/submissions")
	submissions.Get("/today", submissionHandler.Today)
	submissions.Get("/stats", submissionHandler.Stats)
	submissions.Get("/", submissionHandler.List)
	submissions.Post("/", submissionHandler.Create)
	submissions.Get("/:id", submissionHandler.Get)
	submissions.Put("/:id", submissionHandler.Update)
	submissions.Patch("/:id", submissionHandler.Update)
	submissions.Delete("/:id", submissionHandler.Delete)
}
