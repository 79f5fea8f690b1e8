// Package db persists analysis snapshots through sqlx. Both PostgreSQL and
// the embedded SQLite driver are supported; the schema keeps the snapshot
// body as one JSON document so the two dialects stay identical.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"shotlens/domain/core"
	"shotlens/ports"
)

// Config selects the snapshot database.
type Config struct {
	Driver string `koanf:"driver"` // "postgres" or "sqlite"
	DSN    string `koanf:"dsn"`
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_snapshots (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	mode       TEXT NOT NULL,
	body       TEXT NOT NULL
)`

// SnapshotStore is the sqlx-backed ports.SnapshotStore.
type SnapshotStore struct {
	db *sqlx.DB
}

// OpenSnapshotStore connects and ensures the schema exists.
func OpenSnapshotStore(ctx context.Context, cfg Config) (*SnapshotStore, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot store (%s): %w", cfg.Driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	log.Printf("[SnapshotStore] connected driver=%s", cfg.Driver)
	return &SnapshotStore{db: db}, nil
}

type snapshotRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Mode      string    `db:"mode"`
	Body      []byte    `db:"body"`
}

// Save inserts one snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap *ports.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
	}
	query := s.db.Rebind(`
		INSERT INTO analysis_snapshots (id, created_at, mode, body)
		VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, snap.ID, snap.CreatedAt, snap.Mode, body); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Latest returns the most recent snapshot, or ErrSnapshotEmpty when none
// have been saved.
func (s *SnapshotStore) Latest(ctx context.Context) (*ports.Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, created_at, mode, body
		FROM analysis_snapshots
		ORDER BY created_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSnapshotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}

	var snap ports.Snapshot
	if err := json.Unmarshal(row.Body, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", row.ID, err)
	}
	return &snap, nil
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
