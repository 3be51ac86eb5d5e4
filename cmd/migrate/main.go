package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"quiz-drill/internal/config"
	"quiz-drill/internal/database"
	"quiz-drill/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back every applied migration")
	status := flag.Bool("status", false, "print the applied migration version and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Database.Enabled() {
		log.Fatal("database.path is not set; the mistake journal is disabled")
	}

	db, err := database.NewSQLiteDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch {
	case *status:
		version, dirty, err := database.MigrationVersion(db)
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
	case *down:
		if err := database.RollbackMigrations(db); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
	default:
		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
}
