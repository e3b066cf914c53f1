package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alquilar.backend/internal/config"
	"alquilar.backend/internal/infrastructure/gateway"
	"alquilar.backend/internal/infrastructure/jobs"
	"alquilar.backend/internal/infrastructure/notification"
	"alquilar.backend/internal/infrastructure/repositories"
	"alquilar.backend/internal/infrastructure/stream"
	"alquilar.backend/internal/interfaces/http/handlers"
	"alquilar.backend/internal/interfaces/http/middleware"
	"alquilar.backend/internal/usecases"
	"alquilar.backend/pkg/jwt"
	"alquilar.backend/pkg/logger"
	"alquilar.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not reachable at startup", zap.Error(err))
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	carRepo := repositories.NewCarRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Outbound adapters
	cardGateway := gateway.NewClient(cfg.Gateway)
	mailer := notification.NewMailer(cfg.Notification)
	chatStream := stream.NewChatStream()

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	userUsecase := usecases.NewUserUsecase(userRepo)
	carUsecase := usecases.NewCarUsecase(carRepo)
	paymentUsecase := usecases.NewPaymentUsecase(userRepo, paymentRepo, uow, cardGateway)
	bookingUsecase := usecases.NewBookingUsecase(carRepo, bookingRepo, userRepo, uow, paymentUsecase, mailer)
	chatUsecase := usecases.NewChatUsecase(chatRepo, messageRepo, chatStream)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	userHandler := handlers.NewUserHandler(userUsecase)
	carHandler := handlers.NewCarHandler(carUsecase)
	bookingHandler := handlers.NewBookingHandler(bookingUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	chatHandler := handlers.NewChatHandler(chatUsecase, chatStream)
	adminHandler := handlers.NewAdminHandler(userUsecase, bookingUsecase, carUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycleJob := jobs.NewBookingLifecycleJob(bookingRepo, carRepo)
	go lifecycleJob.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		userHandler:    userHandler,
		carHandler:     carHandler,
		bookingHandler: bookingHandler,
		paymentHandler: paymentHandler,
		chatHandler:    chatHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		lifecycleJob.Stop()
		cancel()
	}()

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
