package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"aeroclean/internal/adapters/http/middleware"
	"aeroclean/internal/adapters/http/routes"
	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
	"aeroclean/internal/config"
	"aeroclean/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "aeroclean/docs" // Swagger docs
)

// @title AeroClean API
// @version 1.0
// @description Airport cleaning inspection API: locations, checklists, submissions and dashboards.

// @contact.name API Support
// @contact.email support@zvartnots.am

// @host cleaning.zvartnots.am
// @BasePath /api
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the initial admin account and demo location
	if err := config.SeedInitialData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed initial data: %v", err)
	}

	// Start cron jobs (token purge, daily summary)
	cronService := services.NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewSubmissionRepository(db),
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AeroClean API v1.0",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxPhotoSize) * 4,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
