package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/validately/startup-validator-backend/internal/db"
	"github.com/validately/startup-validator-backend/internal/handlers"
	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/middleware"
	"github.com/validately/startup-validator-backend/internal/observability"
	"github.com/validately/startup-validator-backend/internal/repos"
	"github.com/validately/startup-validator-backend/internal/server"
	"github.com/validately/startup-validator-backend/internal/services"
	"github.com/validately/startup-validator-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "startup-validator-backend",
		Environment: environment,
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	ideaRepo := repos.NewIdeaRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	evaluatorClient, err := services.NewEvaluatorClientFromEnv(log)
	if err != nil {
		log.Error("Could not init EvaluatorClient", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	ideaService := services.NewIdeaService(thePG, log, ideaRepo, evaluatorClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	ideaHandler := handlers.NewIdeaHandler(ideaService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:    "startup-validator-backend",
		AuthHandler:    authHandler,
		IdeaHandler:    ideaHandler,
		AuthMiddleware: authMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
