// @title Quiz Drill API
// @version 1.0
// @description Multiple-choice drill sessions over a question bank, with a journal of missed questions.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "quiz-drill/cmd/api/docs"
	"quiz-drill/internal/adapter"
	"quiz-drill/internal/bank"
	"quiz-drill/internal/cache"
	"quiz-drill/internal/config"
	"quiz-drill/internal/database"
	"quiz-drill/internal/domain"
	"quiz-drill/internal/handler"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/middleware"
	"quiz-drill/internal/repository"
	"quiz-drill/internal/service"
	"quiz-drill/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Question bank. A failed initial load is not fatal: the bank endpoints
	// report it and /api/bank/reload can recover once a source is reachable.
	provider := bank.NewProviderFromConfig(cfg.Bank)
	if b, err := provider.Bank(ctx); err != nil {
		appLogger.Error("Initial question bank load failed", zap.Error(err))
	} else {
		appLogger.Info("Question bank loaded",
			zap.String("source", b.Source),
			zap.Int("questions", b.Len()),
			zap.Int("rejected", len(b.Rejected)))
	}

	// Session store
	var sessionCache domain.Cache
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		sessionCache = adapter.NewRedisCacheAdapter(redisClient)
	default:
		memoryCache, err := adapter.NewMemoryCacheAdapter(cfg.Session.MemoryCapacity)
		if err != nil {
			appLogger.Fatal("Failed to create in-memory session cache", zap.Error(err))
		}
		appLogger.Info("Using in-memory session store", zap.Int("capacity", cfg.Session.MemoryCapacity))
		sessionCache = memoryCache
	}
	store := service.NewSessionStore(sessionCache, cfg.Session.TTL)

	// Mistake journal
	var results domain.ResultRepository
	if cfg.Database.Enabled() {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			appLogger.Fatal("Failed to open journal database", zap.Error(err))
		}
		defer db.Close()
		results = repository.NewSQLXResultRepository(db, repository.NewTransactionManagerAdapter(db))
	}
	journal := service.NewJournalService(results)

	// Initialize services
	quizService := service.NewQuizService(provider, store, journal, service.QuizServiceConfig{
		DefaultCount: cfg.Quiz.DefaultCount,
	})

	// Initialize handlers
	validator := validation.NewValidator()
	quizHandler := handler.NewQuizHandler(quizService, validator)
	journalHandler := handler.NewJournalHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, quizHandler, journalHandler, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}
