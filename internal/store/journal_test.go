package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/footle/assets"
	"github.com/robalobadob/footle/internal/game"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "footle.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openDB(t)
	if err := Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("recorded %d migrations", n)
	}

	bad := fstest.MapFS{"999_bad.sql": {Data: []byte("CREATE TABLE nope (")}}
	if err := Migrate(db, bad); err == nil {
		t.Fatal("expected error for broken migration")
	}
}

func TestMigrateRollsBackFailedFile(t *testing.T) {
	db := openDB(t)
	bad := fstest.MapFS{
		"100_half.sql":        {Data: []byte("CREATE TABLE half (x INTEGER); CREATE TABLE broken (")},
		"nested/200_skip.sql": {Data: []byte("CREATE TABLE nested (x INTEGER);")},
	}
	if err := Migrate(db, bad); err == nil {
		t.Fatal("expected error")
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name IN ('half','nested')`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("%d tables left behind", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='100_half.sql'`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("failed file recorded: n=%d err=%v", n, err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(openDB(t))

	if _, err := j.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}

	s := newSession(t, game.Options{Owner: "p1", Journal: j})
	if err := j.Record(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	// Each accepted guess checkpoints through the journal.
	if _, err := s.SubmitGuess(ctx, "Alan Smith"); err != nil {
		t.Fatal(err)
	}

	snap, err := j.Load(ctx, s.ID())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Owner != "p1" || snap.Attempts != 1 || len(snap.History) != 1 || snap.Target != "Alan Shearer" {
		t.Fatalf("snapshot %+v", snap)
	}

	r, err := game.Restore(testRoster(t), snap, game.Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if r.Attempts() != 1 || r.ID() != s.ID() {
		t.Fatalf("restored attempts=%d id=%s", r.Attempts(), r.ID())
	}

	if err := s.GiveUp(ctx); err != nil {
		t.Fatal(err)
	}
	snap, _ = j.Load(ctx, s.ID())
	if snap.Status != game.StatusGaveUp {
		t.Fatalf("status %s", snap.Status)
	}
}
