package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/validately/startup-validator-backend/internal/handlers"
	"github.com/validately/startup-validator-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AuthHandler    *handlers.AuthHandler
	IdeaHandler    *handlers.IdeaHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "startup-validator-backend"
	}
	router.Use(otelgin.Middleware(serviceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	// Ideas
	protected.POST("/ideas/validate/:userId", cfg.IdeaHandler.Validate)
	protected.GET("/ideas/:userId", cfg.IdeaHandler.ListByUser)
	// Analysis lookup by idea id. Lives outside /ideas because gin keeps one
	// routing tree per method and /ideas/analysis/:id would collide with
	// /ideas/:userId.
	protected.GET("/analysis/:id", cfg.IdeaHandler.GetAnalysis)

	return router
}
