package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"study-buddy/cmd/seed/internal/seedmodels"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/repository"
	"study-buddy/internal/tutor"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/demo_users.json"

func main() {
	seedFile := flag.String("file", defaultSeedFile, "JSON file with the users and documents to seed")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.DevServer.JWTSecret == "" {
		// Seeding never hands out tokens, any secret will do.
		cfg.DevServer.JWTSecret = "seed"
	}

	db, err := database.NewSQLiteDB(cfg.DevServer.DBPath)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	byteValue, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	var seedUsers []seedmodels.SeedUser
	if err := json.Unmarshal(byteValue, &seedUsers); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	users := repository.NewSQLXUserRepository(db)
	auth, err := tutor.NewAuthService(users, cfg.DevServer)
	if err != nil {
		log.Fatal("Failed to create AuthService", zap.Error(err))
	}
	documents := tutor.NewDocumentService(
		repository.NewSQLXDocumentRepository(db),
		repository.NewSQLXChatRepository(db),
		tutor.NewChunkCache(0),
	)

	for _, su := range seedUsers {
		if err := seedUser(ctx, auth, users, documents, su); err != nil {
			log.Error("Error seeding user", zap.String("email", su.Email), zap.Error(err))
		}
	}
	log.Info("Seeding completed", zap.Int("users", len(seedUsers)))
}

// seedUser creates the account unless it exists and uploads every document the user
// does not have yet.
func seedUser(ctx context.Context, auth tutor.AuthService, users domain.UserRepository, documents tutor.DocumentService, su seedmodels.SeedUser) error {
	log := logger.Get()

	if _, err := auth.Register(ctx, su.Name, su.Email, su.Password); err != nil {
		if domain.CodeOf(err) != domain.CodeConflict {
			return fmt.Errorf("failed to register %s: %w", su.Email, err)
		}
		log.Info("User exists", zap.String("email", su.Email))
	}
	user, err := users.GetUserByEmail(ctx, su.Email)
	if err != nil || user == nil {
		return fmt.Errorf("failed to load user %s: %w", su.Email, err)
	}

	existing, err := documents.List(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, sd := range su.Documents {
		if lo.ContainsBy(existing, func(d domain.Document) bool { return d.Filename == sd.Filename }) {
			log.Info("Document exists", zap.String("filename", sd.Filename))
			continue
		}
		doc, err := documents.Upload(ctx, user.ID, sd.Filename, "text/plain", []byte(sd.Content))
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", sd.Filename, err)
		}
		log.Info("Created document", zap.Int64("id", doc.ID), zap.String("filename", doc.Filename))
	}
	return nil
}
