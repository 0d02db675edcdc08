// Package store persists the bar log, the scan universe, and pick history in
// a single SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database. The orchestrator and pick selector are the
// only writers; dashboard-style readers see committed state only.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reporting reads don't block cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			UNIQUE(symbol, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_symbol ON bars(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS universe (
			symbol   TEXT NOT NULL,
			exchange TEXT NOT NULL,
			UNIQUE(symbol, exchange)
		)`,

		`CREATE TABLE IF NOT EXISTS history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			picked_at    INTEGER NOT NULL,
			entry_price  REAL,
			dropped_at   INTEGER,
			exit_price   REAL,
			target_price REAL,
			target_hit   TEXT,
			pct_change   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol ON history(symbol)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	log.Println("[INFO] closing store")
	return s.db.Close()
}
