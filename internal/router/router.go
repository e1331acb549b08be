package router

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/anonto42/nano-midea/mailer/internal/handlers"
	"github.com/anonto42/nano-midea/mailer/internal/models"
	"github.com/anonto42/nano-midea/mailer/internal/repositories"
	"github.com/anonto42/nano-midea/mailer/internal/services"
	"github.com/anonto42/nano-midea/mailer/pkg/config"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, mongoDB *mongo.Database, cfg *config.Config, logger *slog.Logger) error {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	threadRepo := repositories.NewMongoThreadRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	runRepo := repositories.NewNopRunRepository()
	if db.Postgres != nil {
		if err := db.Postgres.AutoMigrate(&models.FinderRun{}); err != nil {
			return fmt.Errorf("auto migrate finder runs: %w", err)
		}
		log.Println("PostgreSQL auto-migrations completed for the run ledger.")
		runRepo = repositories.NewPostgresRunRepository(db.Postgres)
	}

	runLock := repositories.NewNopRunLock()
	if db.Redis != nil {
		runLock = repositories.NewRedisRunLock(db.Redis)
		log.Println("Redis run lock enabled.")
	}

	// --- Initialize Services ---
	unreadFinder := services.NewUnreadMessageFinder(threadRepo, messageRepo, runRepo, cfg.Lookback(), logger)
	notificationFinder := services.NewNotificationFinder(notificationRepo, runRepo, runLock, cfg.Lookback(), cfg.RunLockTTL, logger)

	api := e.Group("/api/v1")

	// Message routes
	handlers.NewMessageHandler(unreadFinder).RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Notification routes
	handlers.NewNotificationHandler(notificationFinder).RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Run ledger routes
	handlers.NewRunHandler(runRepo).RegisterRunRoutes(api)
	log.Println("Run routes configured.")

	log.Println("All routes configured.")
	return nil
}
