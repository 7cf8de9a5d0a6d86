package main

import (
	"flag"
	"log"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLiteDB(cfg.DevServer.DBPath)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *down > 0 {
		if err := database.RollbackMigrations(db.DB, *down); err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		l.Info("Rolled back migrations", zap.Int("steps", *down))
		return
	}

	if err := database.RunMigrations(db.DB); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
