// internal/stats/store.go
//
// SQLite-backed player statistics and daily challenge results.
// Tables (see assets/sql):
//   - player_stats:  running totals + unlocked achievements per player.
//   - daily_results: one row per player per date (UNIQUE(player_id, date)).

package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Store reads and writes stats rows.
type Store struct{ db *sql.DB }

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns a player's record; unknown players get a zero record.
func (s *Store) Get(ctx context.Context, playerID string) (Record, error) {
	return getRecord(ctx, s.db, playerID)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRecord(ctx context.Context, q queryer, playerID string) (Record, error) {
	var r Record
	var ach string
	err := q.QueryRowContext(ctx,
		`SELECT total_games, wins, current_streak, max_streak, achievements
		 FROM player_stats WHERE player_id=?`, playerID,
	).Scan(&r.TotalGames, &r.Wins, &r.CurrentStreak, &r.MaxStreak, &ach)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{Achievements: []string{}}, nil
	}
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(ach), &r.Achievements); err != nil {
		return Record{}, fmt.Errorf("decode achievements: %w", err)
	}
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
	return r, nil
}

// RecordGame applies g to the player's totals inside a transaction and
// returns the updated record plus newly unlocked achievement ids.
func (s *Store) RecordGame(ctx context.Context, playerID string, g Game) (Record, []string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	r, err := getRecord(ctx, tx, playerID)
	if err != nil {
		return Record{}, nil, err
	}
	fresh := r.Apply(g)
	ach, err := json.Marshal(r.Achievements)
	if err != nil {
		return Record{}, nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO player_stats (player_id, total_games, wins, current_streak, max_streak, achievements, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            total_games=excluded.total_games,
            wins=excluded.wins,
            current_streak=excluded.current_streak,
            max_streak=excluded.max_streak,
            achievements=excluded.achievements,
            updated_at=excluded.updated_at`,
		playerID, r.TotalGames, r.Wins, r.CurrentStreak, r.MaxStreak, string(ach),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return Record{}, nil, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, nil, err
	}
	return r, fresh, nil
}

// Reset deletes a player's totals. Daily results are kept for the leaderboard.
func (s *Store) Reset(ctx context.Context, playerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM player_stats WHERE player_id=?`, playerID)
	return err
}

/* ----------------------- Daily Challenge helpers ------------------------ */

// DailyResult is one player's finished daily game.
type DailyResult struct {
	PlayerID    string `json:"playerId"`
	Date        string `json:"date"`
	TargetIndex int    `json:"targetIndex"`
	Attempts    int    `json:"attempts"`
	Hints       int    `json:"hints"`
	Won         bool   `json:"won"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// AlreadyPlayed reports whether the player has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r DailyResult) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results
            (player_id, date, target_index, attempts, hints, won, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.Date, r.TargetIndex, r.Attempts, r.Hints, r.Won, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	Hints     int    `json:"hints"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns winners for date ordered by attempts, then time.
// A non-positive limit means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, attempts, hints, elapsed_ms
        FROM daily_results
        WHERE date=? AND won=1
        ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.Hints, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
