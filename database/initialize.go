package database

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeDatabase opens the shared connection pool and brings the schema
// up to date. The returned handle is injected into every store.
func InitializeDatabase(ctx context.Context, dsn string) *sqlx.DB {
	config := db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     dsn,
	}

	dbConn := db.GetDBConnection(config)

	if err := Migrate(ctx, dbConn); err != nil {
		logger.Error("Error while running migration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully", zap.String("dsn", dsn))
	return dbConn
}

// SQLiteDSN builds a DSN for a database file with the pragmas the stores
// rely on: writers wait on the lock, transactions take it up front.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate&_foreign_keys=on"
}
