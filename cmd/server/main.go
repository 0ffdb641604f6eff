package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/cache"
	"github.com/partywall/api/internal/config"
	"github.com/partywall/api/internal/database"
	"github.com/partywall/api/internal/handler"
	"github.com/partywall/api/internal/middleware"
	"github.com/partywall/api/internal/realtime"
	"github.com/partywall/api/internal/social"
	"github.com/partywall/api/internal/sweeper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		// Continue without Redis cache (fail-open)
		redisCache = nil
	}

	ctx := context.Background()

	// Change feed hub: handlers publish row changes, pages subscribe over
	// WebSocket.
	hub := realtime.NewHub()
	hub.OnClientCount(middleware.SetRealtimeClients)
	go hub.Run(ctx)

	// Background sweeper retires stale sessions
	sessionSweeper := sweeper.NewSessionSweeper(db, sweeper.Config{})
	go sessionSweeper.Start(ctx)

	googleConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, cfg.JWTSecret, googleConfig, cfg.FrontendURL)
	sessionHandler := handler.NewSessionHandler(db, redisCache)
	raceHandler := handler.NewRaceHandler(db, redisCache, hub)
	promptHandler := handler.NewPromptHandler(db, hub)
	wishHandler := handler.NewWishHandler(db, hub)
	memoryHandler := handler.NewMemoryHandler(db, hub)
	displayQuestionHandler := handler.NewDisplayQuestionHandler(db)
	exportHandler := handler.NewExportHandler(db)
	adminHandler := handler.NewAdminHandler(db)

	// Setup router
	r := gin.Default()

	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cfg.FrontendURL))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Change feed
	r.GET("/ws", realtime.ServeWS(hub))

	// OAuth
	r.GET("/auth/google", authHandler.GoogleAuth)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)
	r.POST("/auth/refresh", authHandler.RefreshToken)
	r.POST("/auth/logout", authHandler.Logout)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Me)

		// Social footer links
		api.GET("/social", func(c *gin.Context) {
			c.JSON(200, social.Links(cfg.SocialHandles))
		})

		// Categories & prompts (public, read-only)
		api.GET("/categories", promptHandler.ListCategories)
		api.GET("/categories/:id/questions", promptHandler.ListByCategory)

		// Name race (player/viewer)
		api.GET("/race/session", sessionHandler.Active)
		api.POST("/race/enter", raceHandler.Enter)
		api.POST("/race/finish", raceHandler.Finish)
		api.GET("/race/active-slot", raceHandler.ActiveSlot)

		// Walls (public submissions)
		api.POST("/wishes", wishHandler.Submit)
		api.POST("/memories", memoryHandler.Submit)
		api.GET("/memories", memoryHandler.List)
		api.POST("/display-questions", displayQuestionHandler.Submit)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AdminMiddleware(cfg.JWTSecret, cfg.AdminEmails))
	{
		admin.GET("/stats", adminHandler.GetStats)

		admin.POST("/sessions", sessionHandler.Create)
		admin.GET("/sessions", sessionHandler.List)
		admin.GET("/sessions/:id", sessionHandler.Get)
		admin.GET("/sessions/:id/results", raceHandler.Results)
		admin.POST("/create-name-race", raceHandler.CreateSlots)

		admin.POST("/questions", promptHandler.Add)
		admin.DELETE("/questions/:id", promptHandler.Delete)
		admin.POST("/questions/reorder", promptHandler.Reorder)

		admin.GET("/wishes", wishHandler.List)
		admin.DELETE("/wishes/:id", wishHandler.Delete)
		admin.DELETE("/memories/:id", memoryHandler.Delete)
		admin.GET("/display-questions", displayQuestionHandler.List)
		admin.DELETE("/display-questions/:id", displayQuestionHandler.Delete)

		admin.GET("/export/wishes", exportHandler.ExportWishes)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
