package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/domain/fiber/handler"
	"github.com/hiredeck/hiredeck/internal/middleware"
	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/repository"
	"github.com/hiredeck/hiredeck/internal/service"
	"github.com/hiredeck/hiredeck/internal/usecase"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	setupLogger(appConfig)

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: 20 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	submissionRepo := repository.NewSubmissionRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	storageConfig := config.LoadStorageConfig()
	storage, err := service.NewStorageService(storageConfig)
	if err != nil {
		log.Fatal("storage init failed: ", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Fatal("bucket init failed: ", err)
	}

	classifierConfig := config.LoadClassifierConfig()
	if !classifierConfig.Valid() {
		log.Fatalf("unknown CLASSIFIER_PROVIDER %q (want gemini or openrouter)", classifierConfig.Provider)
	}
	var classifier usecase.Classifier
	var embedder usecase.Embedder

	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		if classifierConfig.Provider == "gemini" {
			log.Fatal("gemini init failed: ", err)
		}
		slog.Warn("gemini unavailable, similarity matching disabled", "error", err)
		gemini = nil
	}
	if gemini != nil {
		embedder = gemini
	}

	switch classifierConfig.Provider {
	case "openrouter":
		classifier = service.NewOpenRouterService()
	case "gemini":
		classifier = gemini
	}

	mailbox := service.NewMailboxService(config.LoadMailboxConfig())
	parser := service.NewParserService()

	ingestConfig := config.LoadIngestConfig()
	screening := usecase.NewScreeningUsecase(classifier, templateRepo, submissionRepo, applicationRepo, jobRepo, ingestConfig.BatchConcurrency)
	promotion := usecase.NewPromotionUsecase(submissionRepo, userRepo)
	pipeline := usecase.NewPipelineUsecase(applicationRepo, userRepo)
	jobs := usecase.NewJobUsecase(jobRepo, templateRepo, embedder)
	ingestion := usecase.NewIngestionUsecase(
		mailbox, storage, parser,
		submissionRepo, jobRepo, tenantRepo,
		embedder, screening, promotion,
		ingestConfig,
	)

	authConfig := config.LoadAuthConfig()
	protected := middleware.Protected(authConfig.JWTSecret)
	trigger := middleware.TriggerAuth(authConfig.TriggerToken)

	handler.NewIngestHandler(ingestion).RegisterRoutes(app, trigger)
	handler.NewSubmissionHandler(submissionRepo).RegisterRoutes(app, protected)
	handler.NewApplicationHandler(pipeline, applicationRepo).RegisterRoutes(app, protected)
	handler.NewTemplateHandler(templateRepo).RegisterRoutes(app, protected)
	handler.NewJobHandler(jobs).RegisterRoutes(app, protected)
	handler.NewScreeningHandler(screening).RegisterRoutes(app, protected)

	slog.Info("server starting", "port", appConfig.Port, "env", appConfig.Env)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(appConfig *config.AppConfig) {
	level := slog.LevelInfo
	switch strings.ToLower(appConfig.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var h slog.Handler
	if appConfig.Env == "production" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(h))
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.ScreeningTemplate{},
		&model.Job{},
		&model.RawSubmission{},
		&model.Application{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
