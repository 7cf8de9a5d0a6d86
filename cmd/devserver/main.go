// Command devserver is a local reference backend for the study-buddy client. It serves
// the whole REST contract over SQLite.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"study-buddy/internal/adapter/generator"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/handler"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/repository"
	"study-buddy/internal/tutor"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const chunkCacheTTL = 30 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if cfg.DevServer.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			appLogger.Fatal("Failed to generate JWT secret", zap.Error(err))
		}
		cfg.DevServer.JWTSecret = hex.EncodeToString(secret)
		appLogger.Warn("devserver.jwt_secret is not set; tokens will not survive a restart")
	}

	db, err := database.NewSQLiteDB(cfg.DevServer.DBPath)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepository := repository.NewSQLXUserRepository(db)
	documentRepository := repository.NewSQLXDocumentRepository(db)
	chatRepository := repository.NewSQLXChatRepository(db)
	attemptRepository := repository.NewSQLXQuizAttemptRepository(db)
	flashcardRepository := repository.NewSQLXFlashcardRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	gen, err := generator.New(cfg.DevServer.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create study generator", zap.Error(err))
	}
	if cfg.DevServer.LLM.Server == "" {
		appLogger.Info("No LLM server configured, using the extractive generator")
	} else {
		appLogger.Info("Using Ollama generator",
			zap.String("server_url", cfg.DevServer.LLM.Server),
			zap.String("model", cfg.DevServer.LLM.Model))
	}

	authService, err := tutor.NewAuthService(userRepository, cfg.DevServer)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	chunks := tutor.NewChunkCache(chunkCacheTTL)
	documentService := tutor.NewDocumentService(documentRepository, chatRepository, chunks)
	studyService := tutor.NewStudyService(tutor.StudyDeps{
		Documents:  documentRepository,
		Chats:      chatRepository,
		Attempts:   attemptRepository,
		Flashcards: flashcardRepository,
		Tx:         txManager,
		Generator:  gen,
		Chunks:     chunks,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: cfg.DevServer.LLM.Timeout + 10*time.Second,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		MaxAge:       300,
	}))

	handler.SetupRoutes(app, handler.Services{
		Auth:      authService,
		Documents: documentService,
		Study:     studyService,
	})

	go func() {
		appLogger.Info("Starting devserver", zap.String("addr", cfg.DevServerAddr()), zap.String("db", cfg.DevServer.DBPath))
		if err := app.Listen(cfg.DevServerAddr()); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
