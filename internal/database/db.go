package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	DistanceCache() DistanceCacheRepository
	Runs() RunRepository
}

// DB wraps the database connection and provides access to repositories
type DB struct {
	conn                    *sql.DB
	distanceCacheRepository DistanceCacheRepository
	runRepository           RunRepository
}

func (db *DB) DistanceCache() DistanceCacheRepository { return db.distanceCacheRepository }
func (db *DB) Runs() RunRepository                    { return db.runRepository }

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("[DB] SQLite store ready: path=%s", dbPath)

	return &DB{
		conn:                    conn,
		distanceCacheRepository: &distanceCacheRepository{db: conn},
		runRepository:           &runRepository{db: conn},
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
