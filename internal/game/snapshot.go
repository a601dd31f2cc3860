package game

import (
	"fmt"
	"time"

	"github.com/robalobadob/footle/internal/roster"
	"github.com/robalobadob/footle/internal/target"
)

// Snapshot is the serialisable state of a session. It includes the target,
// so callers must not expose it to players before the session is terminal.
type Snapshot struct {
	ID          string      `json:"id"`
	Owner       string      `json:"owner,omitempty"`
	Mode        target.Mode `json:"mode"`
	Date        string      `json:"date,omitempty"`
	Ranked      bool        `json:"ranked,omitempty"`
	Target      string      `json:"target"`
	TargetIndex int         `json:"targetIndex"`
	Status      Status      `json:"status"`
	Attempts    int         `json:"attempts"`
	Hints       int         `json:"hints"`
	MaxAttempts int         `json:"maxAttempts"`
	History     []Entry     `json:"history"`
	Bounds      Bounds      `json:"bounds"`
	TimeLimitMs int64       `json:"timeLimitMs,omitempty"`
	RemainingMs int64       `json:"remainingMs,omitempty"`
	StartedAt   time.Time   `json:"startedAt"`
	FinishedAt  time.Time   `json:"finishedAt,omitempty"`
}

// Won reports whether the snapshot is a win.
func (s Snapshot) Won() bool { return s.Status == StatusWon }

// Elapsed is the time from start to finish (or zero while in progress).
func (s Snapshot) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.id,
		Owner:       s.owner,
		Mode:        s.mode,
		Date:        s.date,
		Ranked:      s.ranked,
		Target:      s.target.Name,
		TargetIndex: s.target.Ordinal,
		Status:      s.status,
		Attempts:    s.attempts,
		Hints:       s.hints,
		MaxAttempts: s.maxAttempts,
		History:     append([]Entry(nil), s.history...),
		Bounds:      s.bounds.clone(),
		TimeLimitMs: s.timeLimit.Milliseconds(),
		RemainingMs: s.remainingLocked().Milliseconds(),
		StartedAt:   s.startedAt,
		FinishedAt:  s.finishedAt,
	}
}

// Restore rebuilds a session from a snapshot. Guess outcomes and bounds are
// recomputed against r, so a snapshot survives tolerance changes. A timed
// session still in progress resumes its countdown from the saved remainder.
func Restore(r *roster.Roster, snap Snapshot, opts Options) (*Session, error) {
	tgt, ok := r.Lookup(snap.Target)
	if !ok {
		return nil, fmt.Errorf("restore %s: target %q: %w", snap.ID, snap.Target, ErrUnknownPlayer)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = snap.MaxAttempts
	}
	if opts.Owner == "" {
		opts.Owner = snap.Owner
	}
	if opts.Date == "" {
		opts.Date = snap.Date
	}
	opts.Ranked = opts.Ranked || snap.Ranked
	opts.TimeLimit = time.Duration(snap.TimeLimitMs) * time.Millisecond

	s := newSession(r, tgt, snap.Mode, opts)
	s.id = snap.ID
	s.status = snap.Status
	s.attempts = snap.Attempts
	s.hints = snap.Hints
	s.startedAt = snap.StartedAt
	s.finishedAt = snap.FinishedAt
	s.bounds = NewBounds(s.table, r, tgt)

	for _, e := range snap.History {
		switch {
		case e.Hint != nil:
			h := *e.Hint
			s.history = append(s.history, Entry{Kind: EntryHint, Hint: &h})
			s.bounds.applyHint(h)
		case e.Outcome != nil:
			p, ok := r.Lookup(e.Outcome.Name)
			if !ok {
				return nil, fmt.Errorf("restore %s: guess %q: %w", snap.ID, e.Outcome.Name, ErrUnknownPlayer)
			}
			o := s.table.Compare(p, tgt)
			s.history = append(s.history, Entry{Kind: EntryGuess, Outcome: &o})
			s.bounds.observe(s.table, o)
		}
	}

	if s.status == StatusInProgress && s.timeLimit > 0 {
		left := time.Duration(snap.RemainingMs) * time.Millisecond
		if left <= 0 {
			s.finishLocked(StatusLostTimeout)
		} else {
			s.clock = newCountdown(left, s.tick)
			s.clock.start(s.expireFromClock)
		}
	}
	return s, nil
}
