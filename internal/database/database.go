package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"go.uber.org/zap"

	"quiz-drill/internal/config"
	"quiz-drill/internal/logger"
)

const DriverName = "sqlite3"

// NewSQLiteDB opens the journal database and pings it. The parent directory
// is created when missing.
func NewSQLiteDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("database path is not configured")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", cfg.Path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	logger.Get().Info("Connected to journal database", zap.String("path", cfg.Path))
	return db, nil
}

// Open connects and brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := NewSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
