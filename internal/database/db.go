// Package database opens the postgres connection pool and applies the schema.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/config"
)

//go:embed schema.sql
var schema string

// Open connects with the configured driver: "postgres" (lib/pq) or "pgx" (jackc/pgx stdlib).
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, xerrors.New(err)
	}

	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.New(err)
	}

	return db, nil
}

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return xerrors.New(err)
	}
	log.Info("Database schema is up to date")
	return nil
}
