// Package history persists committed allocation records and their audit
// blocks in SQLite, so one-shot CLI invocations rehydrate the in-memory
// state and the chain verifies across process restarts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/ledger"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

// Store is a durable, append-only mirror of the state store. It implements
// store.Sink.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "aquaguard", "history.db")
	}
	return filepath.Join(home, ".aquaguard", "history.db")
}

// Open opens (or creates) the history database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("history: pragma: %w", err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        REAL    NOT NULL,
	region    INTEGER NOT NULL,
	cycle     INTEGER NOT NULL,
	sector    TEXT    NOT NULL,
	allocated REAL    NOT NULL,
	requested REAL    NOT NULL,
	decision  TEXT    NOT NULL,
	reason    TEXT    NOT NULL,
	UNIQUE(region, cycle, sector)
);
CREATE TABLE IF NOT EXISTS blocks (
	idx           INTEGER PRIMARY KEY,
	ts            REAL NOT NULL,
	data          TEXT NOT NULL,
	previous_hash TEXT NOT NULL,
	hash          TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Append stores a record and its audit block in one transaction.
func (s *Store) Append(rec model.AllocationRecord, blk ledger.Block) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO records (ts, region, cycle, sector, allocated, requested, decision, reason) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Region, rec.Cycle, string(rec.Sector), rec.Allocated, rec.Requested, string(rec.Decision), rec.Reason,
	); err != nil {
		return fmt.Errorf("history: insert record: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO blocks (idx, ts, data, previous_hash, hash) VALUES (?, ?, ?, ?, ?)`,
		blk.Index, blk.Timestamp, blk.Data, blk.PreviousHash, blk.Hash,
	); err != nil {
		return fmt.Errorf("history: insert block: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// Records returns all persisted records in commit order.
func (s *Store) Records() ([]model.AllocationRecord, error) {
	rows, err := s.db.Query(
		`SELECT ts, region, cycle, sector, allocated, requested, decision, reason FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("history: query records: %w", err)
	}
	defer rows.Close()

	var out []model.AllocationRecord
	for rows.Next() {
		var rec model.AllocationRecord
		var sector, decision string
		if err := rows.Scan(&rec.Timestamp, &rec.Region, &rec.Cycle, &sector, &rec.Allocated, &rec.Requested, &decision, &rec.Reason); err != nil {
			return nil, fmt.Errorf("history: scan record: %w", err)
		}
		rec.Sector = model.Sector(sector)
		rec.Decision = model.Decision(decision)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Blocks returns all persisted audit blocks in chain order.
func (s *Store) Blocks() ([]ledger.Block, error) {
	rows, err := s.db.Query(
		`SELECT idx, ts, data, previous_hash, hash FROM blocks ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("history: query blocks: %w", err)
	}
	defer rows.Close()

	var out []ledger.Block
	for rows.Next() {
		var b ledger.Block
		if err := rows.Scan(&b.Index, &b.Timestamp, &b.Data, &b.PreviousHash, &b.Hash); err != nil {
			return nil, fmt.Errorf("history: scan block: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Clear removes all persisted records and blocks. Only the explicit reset
// path calls this.
func (s *Store) Clear() error {
	for _, stmt := range []string{`DELETE FROM records`, `DELETE FROM blocks`} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("history: clear: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
