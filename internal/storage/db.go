// Package storage persists conversion results to a local SQLite database
// so the most recent conversions can be replayed offline. The core engine
// is unaware of this cache; it only produces and consumes the same
// ConversionResult shape.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"hkb/internal/logging"
)

// DB represents a database connection with transaction helpers
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the SQLite database at <root>/.hkb/hkb.db,
// creating the schema when missing.
func Open(root string, logger *logging.Logger) (*DB, error) {
	hkbDir := filepath.Join(root, ".hkb")
	if err := os.MkdirAll(hkbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .hkb directory: %w", err)
	}

	dbPath := filepath.Join(hkbDir, "hkb.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000", // Wait up to 5 seconds on lock
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// initializeSchema creates the tables when they do not exist yet.
func (db *DB) initializeSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id              TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	strictness      TEXT NOT NULL,
	madhab          TEXT NOT NULL,
	original_text   TEXT NOT NULL,
	converted_text  TEXT NOT NULL,
	result_json     TEXT NOT NULL,
	score           INTEGER NOT NULL,
	confidence_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);
`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// WithTx executes a function within a transaction
// If the function returns an error, the transaction is rolled back
// Otherwise, the transaction is committed
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", logging.Fields{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
