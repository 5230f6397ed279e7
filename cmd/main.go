package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bwibber-backend/internal/auth"
	"bwibber-backend/internal/config"
	"bwibber-backend/internal/database"
	"bwibber-backend/internal/handlers"
	"bwibber-backend/internal/jobs"
	"bwibber-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed reference data
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize services
	db := database.GetDB()
	tokenService := services.NewTokenService(db)
	authService := services.NewAuthService(db, cfg.App.InitialTokenGrant)
	botService := services.NewBotService(db, tokenService)
	adminService := services.NewAdminService(db)
	reportService := services.NewReportService(db, adminService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, adminService)
	tokenHandler := handlers.NewTokenHandler(db, tokenService)
	botHandler := handlers.NewBotHandler(botService, tokenService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(adminService, reportService)
	generateHandler := handlers.NewGenerateHandler()

	// Start autopost job
	autopostJob := jobs.NewAutopostJob(db, botService, cfg.App.AutopostInterval)
	go autopostJob.Start()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	// Add additional frontend URL from environment if provided
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-User-Id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", handlers.Health)

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.SignUp)
		authRoutes.POST("/signin", authHandler.SignIn)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Composer preview routes (header-identified, no JWT)
	router.POST("/api/bot/configure", generateHandler.ConfigureBot)
	router.POST("/api/generate", generateHandler.GeneratePreview)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		api.PUT("/user/profile", authHandler.UpdateProfile)

		// Token wallet endpoints
		tokens := api.Group("/tokens")
		{
			tokens.GET("/balance", tokenHandler.GetBalance)
			tokens.GET("/transactions", tokenHandler.GetTransactions)
			tokens.GET("/packages", tokenHandler.GetPackages)
			tokens.POST("/purchase", tokenHandler.PurchaseTokens)
			tokens.POST("/check", tokenHandler.CheckBalance)
		}

		// Bot endpoints
		bots := api.Group("/bots")
		{
			bots.POST("", botHandler.CreateBot)
			bots.GET("", botHandler.ListBots)
			bots.GET("/:id", botHandler.GetBot)
			bots.PATCH("/:id/status", botHandler.UpdateStatus)
			bots.POST("/:id/generate", botHandler.GeneratePost)
		}

		// Template endpoints
		api.GET("/templates", botHandler.ListTemplates)
		api.POST("/templates", botHandler.CreateTemplate)

		// Report endpoints
		api.POST("/reports", reportHandler.SubmitReport)
		api.GET("/reports/reasons", reportHandler.GetReportReasons)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(adminHandler.AdminMiddleware())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/logs", adminHandler.GetLogs)

		// Token economy management
		admin.GET("/token-costs", adminHandler.GetTokenCosts)
		admin.PUT("/token-costs", adminHandler.UpdateTokenCosts)

		// User management
		admin.GET("/users", adminHandler.GetUsers)
		admin.POST("/users/:id/promote", adminHandler.PromoteUser)

		// Moderation
		admin.GET("/reports", adminHandler.GetReports)
		admin.POST("/reports/:id/resolve", adminHandler.ResolveReport)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	autopostJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
