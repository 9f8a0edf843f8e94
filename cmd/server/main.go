package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/anonto42/nano-posts/backend/internal/router"
	"github.com/anonto42/nano-posts/backend/internal/services"
	"github.com/anonto42/nano-posts/backend/pkg/config"
	"github.com/anonto42/nano-posts/backend/pkg/firebase"
	"github.com/anonto42/nano-posts/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	reactionCache, err := config.InitCache(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize reaction cache: %v", err)
	}
	defer reactionCache.Close()

	var notifications repositories.NotificationRepository = repositories.NopNotificationRepository{}
	if db.Mongo != nil {
		notifications = repositories.NewMongoNotificationRepository(db.Mongo.Database(cfg.MongoDatabase))
	}

	// Firebase login is optional
	ctx := context.Background()
	var firebaseAuth services.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrNoCredentials):
		log.Println("Firebase credentials not configured, Firebase login disabled.")
	case err != nil:
		log.Fatalf("Failed to initialize Firebase: %v", err)
	default:
		firebaseAuth = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg, logger)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		DB:                db.Postgres,
		ReactionCache:     reactionCache.Reactions,
		Notifications:     notifications,
		Firebase:          firebaseAuth,
		JWTSecret:         cfg.JWTSecret,
		AccessTokenTTL:    cfg.AccessTokenTTL,
		EmailHunterAPIKey: cfg.EmailHunterAPIKey,
		Logger:            logger,
	})

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	log.Println("Server stopped.")
}
