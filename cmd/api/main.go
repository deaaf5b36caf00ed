package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealmuse/backend/config"
	"github.com/mealmuse/backend/internal/api"
	"github.com/mealmuse/backend/internal/database"
	"github.com/mealmuse/backend/internal/router"
	"github.com/mealmuse/backend/internal/server"
	"github.com/mealmuse/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Media storage is optional: without AWS credentials the upload route
	// reports storage as not configured.
	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Printf("Media storage disabled: %v", err)
		s3Config = nil
	}

	llmService, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation service: %v", err)
	}
	imageService := service.NewImageService(cfg, s3Config)
	authService := service.NewAuthService(db, cfg)
	sessionStore := service.NewRedisSessionStore(redisClient)
	recipeService := service.NewRecipeService(db)
	aiRecipeService := service.NewAIRecipeService(db)

	authHandler := api.NewAuthHandler(authService, sessionStore)
	recipeHandler := api.NewRecipeHandler(recipeService, imageService, sessionStore)
	aiHandler := api.NewAIHandler(llmService, imageService, aiRecipeService, authService, sessionStore)

	engine := router.SetupRouter(authHandler, recipeHandler, aiHandler)
	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}
	log.Println("Server stopped")
}
