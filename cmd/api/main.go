package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/handlers"
	"github.com/xnftlabs/backend/internal/middleware"
	"github.com/xnftlabs/backend/internal/models"
	"github.com/xnftlabs/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	auditService := services.NewAuditService(db)
	tokenService := services.NewTokenService(db)
	metadataService := services.NewMetadataService(db)
	authService := services.NewAuthService(db, cfg)
	walletService := services.NewWalletService(db, redisClient, cfg, auditService)
	assetService := services.NewAssetService(db, cfg, tokenService, metadataService, auditService)
	curationService := services.NewCurationService(db, tokenService, auditService)
	installService := services.NewInstallService(db, cfg, auditService)
	accessService := services.NewAccessService(db, cfg, auditService)
	transferService := services.NewTransferService(db, tokenService, auditService)
	donationService := services.NewDonationService(db, metadataService, auditService)
	listingService := services.NewListingService(db, cfg, tokenService, auditService)
	qrService := services.NewQRService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatalf("Failed to init comment storage: %v", err)
	}
	if storageService == nil {
		log.Println("Comment storage not configured, review comments disabled")
	}
	reviewService := services.NewReviewService(db, cfg, tokenService, storageService, auditService)

	// Periodic cleanup of expired refresh tokens
	go func() {
		for {
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Refresh token cleanup error: %v", err)
			}
			time.Sleep(1 * time.Hour)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService, installService)
	assetHandler := handlers.NewAssetHandler(assetService, curationService, transferService, donationService, qrService)
	installHandler := handlers.NewInstallHandler(installService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	accessHandler := handlers.NewAccessHandler(accessService)
	listingHandler := handlers.NewListingHandler(listingService)
	stripeHandler := handlers.NewStripeHandler(walletService, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
		}

		// Public asset reads
		api.GET("/assets", assetHandler.List)
		api.GET("/assets/:id", assetHandler.Get)
		api.GET("/assets/:id/reviews", reviewHandler.List)
		api.GET("/assets/:id/qr.pdf", assetHandler.QRCode)

		// Ledger operations (authenticated)
		protected := api.Group("")
		protected.Use(middleware.Auth(authService))
		{
			// Wallet
			protected.GET("/wallet", walletHandler.GetWallet)
			protected.GET("/wallet/installs", walletHandler.GetInstalls)
			protected.POST("/wallet/fund", walletHandler.Fund)

			// Asset lifecycle
			protected.POST("/assets", assetHandler.Create)
			protected.POST("/assets/associated", assetHandler.CreateAssociated)
			protected.PUT("/assets/:id", assetHandler.Update)
			protected.DELETE("/assets/:id", assetHandler.Delete)
			protected.PUT("/assets/:id/suspended", assetHandler.SetSuspended)
			protected.PUT("/assets/:id/curator", assetHandler.SetCurator)
			protected.PUT("/assets/:id/curator/verified", assetHandler.SetCuratorVerification)
			protected.POST("/assets/:id/transfer", assetHandler.Transfer)
			protected.POST("/assets/:id/donate", assetHandler.Donate)

			// Installations
			protected.POST("/assets/:id/installs", installHandler.Create)
			protected.POST("/assets/:id/installs/permissioned", installHandler.CreatePermissioned)
			protected.DELETE("/installs/:id", installHandler.Delete)

			// Reviews
			protected.POST("/assets/:id/reviews", reviewHandler.Create)
			protected.DELETE("/reviews/:id", reviewHandler.Delete)

			// Access grants
			protected.POST("/assets/:id/access", accessHandler.Grant)
			protected.DELETE("/assets/:id/access", accessHandler.Revoke)

			// Listings
			protected.POST("/assets/:id/listings", listingHandler.Create)
			protected.DELETE("/assets/:id/listings", listingHandler.Delete)
		}

		// Payment webhooks
		api.POST("/stripe/webhook", stripeHandler.HandleWebhook)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
