package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rollcall-app/api/auth"
	"github.com/rollcall-app/api/config"
	"github.com/rollcall-app/api/controller"
	"github.com/rollcall-app/api/dao"
	"github.com/rollcall-app/api/db"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/middleware"
	"github.com/rollcall-app/api/retention"
	"github.com/rollcall-app/api/service"
	"github.com/rollcall-app/api/util"
)

func main() {
	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.InitLogger()
	defer logger.Sync()

	// Initialize Postgres
	gdb, err := db.InitPostgres(cfg.Postgres)
	if err != nil {
		logger.Fatal("Failed to initialize Postgres", zap.Error(err))
	}
	defer db.ClosePostgres(gdb)

	// Initialize Redis
	redisCache, err := db.InitRedis(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Initialize crypto components; both fail closed on missing secrets.
	otpEngine, err := auth.NewOtpEngine(cfg.Auth.OtpSecret, nil)
	if err != nil {
		logger.Fatal("Failed to initialize OTP engine", zap.Error(err))
	}
	tokenIssuer, err := auth.NewTokenIssuer(cfg.Auth, nil)
	if err != nil {
		logger.Fatal("Failed to initialize token issuer", zap.Error(err))
	}

	// Initialize utilities
	cacheService := util.NewCacheService(redisCache)
	notificationService := util.NewNotificationService()

	// Initialize DAOs
	userDAO := dao.NewUserDAO(gdb)
	courseDAO := dao.NewCourseDAO(gdb)
	attendanceDAO := dao.NewAttendanceDAO(gdb)
	refreshTokenDAO := dao.NewRefreshTokenDAO(gdb)
	retentionDAO := dao.NewRetentionDAO(gdb)

	// Initialize services
	accessService := service.NewAccessService(userDAO, courseDAO, attendanceDAO, cacheService)
	courseService := service.NewCourseService(courseDAO, cacheService)
	attendanceService := service.NewAttendanceService(attendanceDAO, cacheService)
	authService := service.NewAuthService(
		userDAO,
		refreshTokenDAO,
		otpEngine,
		tokenIssuer,
		notificationService,
		cfg.Auth.RefreshTokenTTL,
		nil,
	)
	// Start the retention sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := retention.NewSweeper(retentionDAO, cfg.Retention.Days, cfg.Retention.Interval, nil)
	sweeper.Start(ctx)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	courseController := controller.NewCourseController(courseService, accessService)
	attendanceController := controller.NewAttendanceController(attendanceService, accessService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimiter(redisCache, 100, time.Minute))

	// Register routes
	api := router.Group("/")
	authController.RegisterRoutes(api)

	protected := router.Group("/")
	protected.Use(middleware.Authenticate(tokenIssuer))
	courseController.RegisterRoutes(protected)
	attendanceController.RegisterRoutes(protected)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Stop the sweeper schedule before the server drains.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
