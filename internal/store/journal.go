package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/footle/internal/game"
)

// Journal keeps the latest snapshot of every session in SQLite so a session
// can be resumed after the in-memory store loses it.
type Journal struct{ db *sql.DB }

// NewJournal wraps an open, migrated database.
func NewJournal(db *sql.DB) *Journal { return &Journal{db: db} }

// Record upserts snap. It satisfies game.Journal.
func (j *Journal) Record(ctx context.Context, snap game.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = j.db.ExecContext(ctx, `
        INSERT INTO sessions (id, owner, status, snapshot, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status=excluded.status,
            snapshot=excluded.snapshot,
            updated_at=excluded.updated_at`,
		snap.ID, snap.Owner, string(snap.Status), string(b), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Load returns the last recorded snapshot for id, or ErrNotFound.
func (j *Journal) Load(ctx context.Context, id string) (game.Snapshot, error) {
	var raw string
	err := j.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

var _ game.Journal = (*Journal)(nil)
