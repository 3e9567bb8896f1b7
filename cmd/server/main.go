package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/auth"
	"github.com/studysphere/study-service/internal/config"
	"github.com/studysphere/study-service/internal/events"
	"github.com/studysphere/study-service/internal/extract"
	"github.com/studysphere/study-service/internal/handlers"
	"github.com/studysphere/study-service/internal/llm"
	"github.com/studysphere/study-service/internal/repositories"
	"github.com/studysphere/study-service/internal/repositories/memory"
	"github.com/studysphere/study-service/internal/repositories/postgres"
	"github.com/studysphere/study-service/internal/repositories/redisstore"
	"github.com/studysphere/study-service/internal/services"
	"github.com/studysphere/study-service/internal/utils"
	"github.com/studysphere/study-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	var logger utils.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	ctx := context.Background()

	users, sessions, err := buildStores(cfg, logger)
	if err != nil {
		log.Fatal("Failed to initialize stores:", err)
	}

	generator, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to initialize language model client:", err)
	}
	defer generator.Close()

	publisher := buildPublisher(cfg, logger)
	defer publisher.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	extractor := extract.NewExtractor(extract.NewTesseractOCR(cfg.TesseractLang))
	validator := utils.NewValidator()

	authService := services.NewAuthService(users, tokens, publisher, logger)
	studyService := services.NewStudyService(generator, logger)
	quizService, err := services.NewQuizService(generator, sessions, publisher, logger, nil)
	if err != nil {
		log.Fatal("Failed to initialize quiz service:", err)
	}
	exportService := services.NewExportService()

	router := gin.New()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(
		authService,
		studyService,
		quizService,
		exportService,
		extractor,
		tokens,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	logger.Info("starting study service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// buildStores selects repository implementations from configuration: gorm
// over PostgreSQL and Redis when their URLs are set, process-resident maps
// otherwise. The in-memory stores do not survive a restart.
func buildStores(cfg *config.Config, logger utils.Logger) (repositories.UserRepository, repositories.SessionRepository, error) {
	var users repositories.UserRepository
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewUserRepository(db)
		if err := repo.Migrate(); err != nil {
			return nil, nil, err
		}
		users = repo
		logger.Info("using postgres user store")
	} else {
		users = memory.NewUserRepository()
		logger.Warn("using in-memory user store; users will not survive a restart")
	}

	var sessions repositories.SessionRepository
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		sessions = redisstore.NewSessionRepository(client)
		logger.Info("using redis session store")
	} else {
		sessions = memory.NewSessionRepository()
		logger.Warn("using in-memory session store; sessions will not survive a restart")
	}

	return users, sessions, nil
}

func buildPublisher(cfg *config.Config, logger utils.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("event publishing disabled; no kafka brokers configured")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(events.PublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.EventTopic,
		Logger:  utils.ToSlogLogger(logger),
	})
	if err != nil {
		logger.Warn("kafka publisher unavailable, events disabled", "error", err)
		return events.NoopPublisher{}
	}
	return publisher
}
