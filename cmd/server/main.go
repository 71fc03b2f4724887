package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	declarationapp "github.com/customs/backend/internal/application/declaration"
	identityapp "github.com/customs/backend/internal/application/identity"
	locationapp "github.com/customs/backend/internal/application/location"
	refdataapp "github.com/customs/backend/internal/application/refdata"
	"github.com/customs/backend/internal/infrastructure/auth"
	"github.com/customs/backend/internal/infrastructure/config"
	"github.com/customs/backend/internal/infrastructure/logger"
	"github.com/customs/backend/internal/infrastructure/notification"
	"github.com/customs/backend/internal/infrastructure/persistence"
	"github.com/customs/backend/internal/interfaces/http/handler"
	"github.com/customs/backend/internal/interfaces/http/middleware"
	"github.com/customs/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Customs Declaration API
//	@version		1.0
//	@description	Customs declaration management backend

//	@contact.name	API Support
//	@contact.url	https://github.com/customs/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Customs Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis-backed token blacklist for logout and forced session invalidation
	blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := blacklist.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	declarationRepo := persistence.NewGormDeclarationRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	locationRepo := persistence.NewGormCommandLocationRepository(db.DB)
	tariffRepo := persistence.NewGormTariffRepository(db.DB)
	bankRepo := persistence.NewGormBankRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	mailer := notification.NewSMTPMailer(cfg.SMTP, cfg.App.BaseURL, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, mailer, log)
	userService := identityapp.NewUserService(userRepo, log)
	coordinator := declarationapp.NewAssessmentCoordinator(sequenceRepo, declarationRepo)
	declarationService := declarationapp.NewDeclarationService(declarationRepo, coordinator)
	locationService := locationapp.NewCommandLocationService(locationRepo, log)
	refDataService := refdataapp.NewReferenceDataService(tariffRepo, bankRepo, log)

	// Seed the first super administrator. Registration requires an
	// administrative actor, so without this a fresh deployment has no way
	// to create its first account.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 15*time.Second)
	err = identityapp.EnsureSuperAdmin(seedCtx, userRepo, identityapp.SuperAdminSeed{
		ServiceNumber: cfg.Bootstrap.SuperAdminServiceNumber,
		Name:          cfg.Bootstrap.SuperAdminName,
		Email:         cfg.Bootstrap.SuperAdminEmail,
		Password:      cfg.Bootstrap.SuperAdminPassword,
	}, log)
	cancelSeed()
	if err != nil {
		log.Fatal("Failed to seed super administrator", zap.Error(err))
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	declarationHandler := handler.NewDeclarationHandler(declarationService)
	locationHandler := handler.NewLocationHandler(locationService)
	refDataHandler := handler.NewRefDataHandler(refDataService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/verify-email",
			"/api/v1/auth/forgot-password",
			"/api/v1/auth/reset-password",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.GET("/verify-email", authHandler.VerifyEmail)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	authRoutes.POST("/register", middleware.RequireAdministrative(), authHandler.Register)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User administration routes
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireAdministrative())
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/:id/suspend", userHandler.Suspend)
	userRoutes.POST("/:id/reinstate", userHandler.Reinstate)

	// Declaration lifecycle routes
	// Role and visibility rules are enforced in the application service
	declarationRoutes := router.NewDomainGroup("declarations", "/declarations")
	declarationRoutes.POST("", declarationHandler.Create)
	declarationRoutes.GET("", declarationHandler.List)
	declarationRoutes.GET("/:id", declarationHandler.Get)
	declarationRoutes.PUT("/:id", declarationHandler.Update)
	declarationRoutes.POST("/:id/assess", declarationHandler.Assess)
	declarationRoutes.POST("/:id/cancel", declarationHandler.Cancel)

	// Command location routes
	locationRoutes := router.NewDomainGroup("locations", "/locations")
	locationRoutes.GET("", locationHandler.List)
	locationRoutes.GET("/:id", locationHandler.Get)
	locationRoutes.POST("", middleware.RequireAdministrative(), locationHandler.Create)
	locationRoutes.PUT("/:id", middleware.RequireAdministrative(), locationHandler.Update)
	locationRoutes.DELETE("/:id", middleware.RequireAdministrative(), locationHandler.Delete)

	// Tariff reference data routes
	tariffRoutes := router.NewDomainGroup("tariffs", "/tariffs")
	tariffRoutes.GET("", refDataHandler.SearchTariffs)
	tariffRoutes.GET("/count", refDataHandler.CountTariffs)
	tariffRoutes.POST("/validate", middleware.RequireAdministrative(), refDataHandler.ValidateTariffs)
	tariffRoutes.POST("/import", middleware.RequireAdministrative(), refDataHandler.ImportTariffs)

	// Bank reference data routes
	bankRoutes := router.NewDomainGroup("banks", "/banks")
	bankRoutes.GET("", refDataHandler.SearchBanks)
	bankRoutes.GET("/count", refDataHandler.CountBanks)
	bankRoutes.POST("/validate", middleware.RequireAdministrative(), refDataHandler.ValidateBanks)
	bankRoutes.POST("/import", middleware.RequireAdministrative(), refDataHandler.ImportBanks)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/sequence", middleware.RequireAdministrative(), declarationHandler.SequenceStatus)

	// Register all domain groups
	r.Register(authRoutes).
		Register(userRoutes).
		Register(declarationRoutes).
		Register(locationRoutes).
		Register(tariffRoutes).
		Register(bankRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
