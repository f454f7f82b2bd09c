package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a single-file local BlobStore backed by modernc.org/sqlite.
// It is the client-local persistence medium: one file per client, shared by
// every view the client mounts. Change notification covers views within the
// owning process; cross-process sharing uses RedisStore instead.
type SQLiteStore struct {
	db  *sql.DB
	hub *notifyHub
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	version    INTEGER NOT NULL,
	updated_at TEXT NOT NULL
)`

// OpenSQLiteStore opens (creating if needed) the blob database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A blob write is a single short transaction; one connection avoids
	// SQLITE_BUSY between view handles.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, hub: newNotifyHub()}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the blob and version; a missing key yields (nil, 0, nil).
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, int64, error) {
	var data []byte
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT data, version FROM blobs WHERE key = ?`, key).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load blob: %w", err)
	}
	return data, version, nil
}

// Save overwrites the blob iff its version still equals expected.
func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte, expected int64, origin string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM blobs WHERE key = ?`, key).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if current != expected {
		return 0, ErrConflict
	}

	next, err := s.upsert(ctx, tx, key, data, current)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	s.hub.notify(key, origin)
	return next, nil
}

// ForceSave overwrites the blob unconditionally.
func (s *SQLiteStore) ForceSave(ctx context.Context, key string, data []byte, origin string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM blobs WHERE key = ?`, key).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read version: %w", err)
	}

	next, err := s.upsert(ctx, tx, key, data, current)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	s.hub.notify(key, origin)
	return next, nil
}

// Subscribe registers fn for writes to key made by other origins.
func (s *SQLiteStore) Subscribe(key, origin string, fn func()) (func(), error) {
	return s.hub.subscribe(key, origin, fn), nil
}

func (s *SQLiteStore) upsert(ctx context.Context, tx *sql.Tx, key string, data []byte, current int64) (int64, error) {
	next := current + 1
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO blobs (key, data, version, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, version = excluded.version, updated_at = excluded.updated_at`,
		key, data, next, now)
	if err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}
	return next, nil
}
