// Package store provides durable storage for save-game records.
//
// The persisted medium is treated as an opaque key-value store by the rest
// of the core: records are written under a name-qualified key and read
// back wholesale. SQLite backs it with WAL mode for concurrent read
// access.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no save record exists under a key.
var ErrNotFound = errors.New("save not found")

// SaveRow is one persisted save record. Payload is the serialized
// snapshot; the meta columns are denormalized for listing without parsing
// the payload.
type SaveRow struct {
	Key       string
	Name      string
	Version   string
	Payload   string
	Digest    string
	CreatedMS int64

	Turn    int
	Year    int
	Quarter int
	Month   int
	Day     int
}

// Store provides durable storage for save-game records.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key returns the name-qualified storage key for a save name.
// Names are NFC-normalized so lookups are stable regardless of how the
// caller's input was composed.
func Key(name string) string {
	return "save:" + norm.NFC.String(name)
}

// WriteSave upserts a save record under its name-qualified key.
func (s *Store) WriteSave(ctx context.Context, row SaveRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves
		(key, name, version, payload, digest, created_ms, turn, year, quarter, month, day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			payload = excluded.payload,
			digest = excluded.digest,
			created_ms = excluded.created_ms,
			turn = excluded.turn,
			year = excluded.year,
			quarter = excluded.quarter,
			month = excluded.month,
			day = excluded.day
	`,
		row.Key, row.Name, row.Version, row.Payload, row.Digest, row.CreatedMS,
		row.Turn, row.Year, row.Quarter, row.Month, row.Day,
	)
	if err != nil {
		return fmt.Errorf("write save %q: %w", row.Name, err)
	}
	return nil
}

// ReadSave returns the record stored under a name-qualified key.
// Returns ErrNotFound when no record exists.
func (s *Store) ReadSave(ctx context.Context, key string) (SaveRow, error) {
	var row SaveRow
	err := s.db.QueryRowContext(ctx, `
		SELECT key, name, version, payload, digest, created_ms, turn, year, quarter, month, day
		FROM saves
		WHERE key = ?
	`, key).Scan(
		&row.Key, &row.Name, &row.Version, &row.Payload, &row.Digest, &row.CreatedMS,
		&row.Turn, &row.Year, &row.Quarter, &row.Month, &row.Day,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveRow{}, ErrNotFound
	}
	if err != nil {
		return SaveRow{}, fmt.Errorf("read save %q: %w", key, err)
	}
	return row, nil
}

// ListSaves returns all save records, newest first, without payloads.
// Ordering ties break on key for deterministic listings.
func (s *Store) ListSaves(ctx context.Context) ([]SaveRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, name, version, digest, created_ms, turn, year, quarter, month, day
		FROM saves
		ORDER BY created_ms DESC, key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		var row SaveRow
		if err := rows.Scan(
			&row.Key, &row.Name, &row.Version, &row.Digest, &row.CreatedMS,
			&row.Turn, &row.Year, &row.Quarter, &row.Month, &row.Day,
		); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return out, nil
}

// DeleteSave removes the record under a name-qualified key.
// Deleting a missing key is a no-op.
func (s *Store) DeleteSave(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete save %q: %w", key, err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
