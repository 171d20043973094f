package database

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/config"
)

func Connect() (*sqlx.DB, error) {
	return Open(config.DBDriver(), config.DBDSN())
}

// Open connects with an explicit driver ("pgx" or "sqlite3").
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// an in-memory database lives and dies with its connection
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates the sensor_data and accounts tables if they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// The timestamp default is never used by the ingestion paths, which
// always supply a value. It is kept so rows inserted by hand still get one.
var schemas = map[string][]string{
	"pgx": {
		`CREATE TABLE IF NOT EXISTS sensor_data (
			id           BIGSERIAL PRIMARY KEY,
			equipment_id VARCHAR(255) NOT NULL,
			timestamp    TIMESTAMPTZ NOT NULL DEFAULT now(),
			value        NUMERIC(10, 2) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sensor_data_timestamp_idx ON sensor_data (timestamp)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id            BIGSERIAL PRIMARY KEY,
			username      VARCHAR(150) NOT NULL UNIQUE,
			email         VARCHAR(254) NOT NULL DEFAULT '',
			password_hash VARCHAR(128) NOT NULL,
			is_staff      BOOLEAN NOT NULL DEFAULT FALSE,
			is_superuser  BOOLEAN NOT NULL DEFAULT FALSE,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			date_joined   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS sensor_data (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			equipment_id VARCHAR(255) NOT NULL,
			timestamp    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			value        NUMERIC(10, 2) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sensor_data_timestamp_idx ON sensor_data (timestamp)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      VARCHAR(150) NOT NULL UNIQUE,
			email         VARCHAR(254) NOT NULL DEFAULT '',
			password_hash VARCHAR(128) NOT NULL,
			is_staff      BOOLEAN NOT NULL DEFAULT FALSE,
			is_superuser  BOOLEAN NOT NULL DEFAULT FALSE,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			date_joined   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}
