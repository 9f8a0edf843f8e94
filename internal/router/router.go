package router

import (
	"log"
	"log/slog"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/anonto42/nano-posts/backend/internal/handlers"
	"github.com/anonto42/nano-posts/backend/internal/middleware"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/anonto42/nano-posts/backend/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies carries everything SetupRoutes wires into handlers.
// Notifications, Firebase and EmailHunterAPIKey are optional.
type Dependencies struct {
	DB                *gorm.DB
	ReactionCache     cache.ReactionCache
	Notifications     repositories.NotificationRepository
	Firebase          services.IDTokenVerifier
	JWTSecret         string
	AccessTokenTTL    time.Duration
	EmailHunterAPIKey string
	Logger            *slog.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notificationRepo := deps.Notifications
	if notificationRepo == nil {
		notificationRepo = repositories.NopNotificationRepository{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	postRepo := repositories.NewPostgresPostRepository(deps.DB)
	reactionRepo := repositories.NewPostgresReactionRepository(deps.DB)

	// --- Initialize Services ---
	var verifier *services.EmailVerifier
	if deps.EmailHunterAPIKey != "" {
		verifier = services.NewEmailVerifier(deps.EmailHunterAPIKey, userRepo, logger)
	}
	authService := services.NewAuthService(userRepo, deps.JWTSecret, deps.AccessTokenTTL, verifier, deps.Firebase, logger)
	postService := services.NewPostService(postRepo, reactionRepo, deps.ReactionCache)
	reactionService := services.NewReactionService(postRepo, reactionRepo, deps.ReactionCache, notificationRepo, logger)

	root := e.Group("")
	requireUser := []echo.MiddlewareFunc{
		middleware.JWTAuthMiddleware(authService),
		middleware.RequireActiveUser(),
	}

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterAuthRoutes(root)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(root, requireUser...)
	log.Println("User routes configured.")

	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(root, requireUser...)
	log.Println("Post routes configured.")

	reactionHandler := handlers.NewReactionHandler(reactionService)
	reactionHandler.RegisterReactionRoutes(root, requireUser...)
	log.Println("Reaction routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(root, requireUser...)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
