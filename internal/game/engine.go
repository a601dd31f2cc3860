// internal/game/engine.go
//
// Core game engine for a single guessing session.
// Responsibilities:
//   - Create sessions around a chosen mystery player (New / Start).
//   - Validate and apply guesses against the lookup roster.
//   - Issue hints, which share the attempt budget with guesses.
//   - Track state transitions: in_progress → won/lost/timeout/gave_up.
//   - Run the optional countdown and stop it on every terminal transition.
//   - Checkpoint snapshots to a Journal after each mutation (best effort).
//
// Notes:
//   - Terminal sessions reject guesses and hints with ErrGameOver and are
//     left untouched.
//   - Rejected guesses (empty or unknown name) do not consume an attempt.
//   - Methods are safe for concurrent use; the countdown goroutine is the
//     only other writer.
package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/internal/roster"
	"github.com/robalobadob/footle/internal/target"
)

// MaxAttempts is the default attempt budget shared by guesses and hints.
const MaxAttempts = 8

var (
	ErrEmptyGuess    = errors.New("empty guess")
	ErrUnknownPlayer = errors.New("player not found")
	ErrGameOver      = errors.New("game finished")
	ErrNoTarget      = errors.New("no mystery player")
)

// ValidationError reports a rejected guess. The attempt is not consumed.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Input
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Journal persists session snapshots. Failures are logged and ignored.
type Journal interface {
	Record(ctx context.Context, snap Snapshot) error
}

// Options configures a session. Zero values select the defaults.
type Options struct {
	Table       Table
	MaxAttempts int
	TimeLimit   time.Duration // > 0 enables timed mode
	Tick        time.Duration // countdown resolution; DefaultTick when zero
	Rand        *rand.Rand
	Journal     Journal
	OnFinish    func(Snapshot) // called once after a terminal transition
	Owner       string         // anonymous player id
	Date        string         // daily date key
	Ranked      bool           // counts as the official daily result
	Now         func() time.Time
}

// Session holds the state of one play-through.
type Session struct {
	mu sync.Mutex

	id     string
	owner  string
	mode   target.Mode
	date   string
	ranked bool

	roster *roster.Roster
	target *roster.Player
	table  Table

	history     []Entry
	attempts    int
	hints       int
	maxAttempts int
	status      Status
	bounds      Bounds

	rng       *rand.Rand
	journal   Journal
	onFinish  func(Snapshot)
	timeLimit time.Duration
	tick      time.Duration
	clock     *countdown
	now       func() time.Time

	startedAt  time.Time
	finishedAt time.Time
}

// New constructs an in-progress session for target.
func New(r *roster.Roster, tgt *roster.Player, mode target.Mode, opts Options) (*Session, error) {
	if tgt == nil {
		return nil, ErrNoTarget
	}
	s := newSession(r, tgt, mode, opts)
	s.id = uuid.NewString()
	s.startedAt = s.now()
	s.bounds = NewBounds(s.table, r, tgt)
	if s.timeLimit > 0 {
		s.clock = newCountdown(s.timeLimit, s.tick)
		s.clock.start(s.expireFromClock)
	}
	return s, nil
}

// Start selects a mystery player with sel and creates a session for it.
func Start(sel *target.Selector, req target.Request, opts Options) (*Session, target.Pick, error) {
	pick := sel.Pick(req)
	if pick.Date != "" && opts.Date == "" {
		opts.Date = pick.Date
	}
	s, err := New(sel.Roster(), pick.Player, pick.Mode, opts)
	return s, pick, err
}

func newSession(r *roster.Roster, tgt *roster.Player, mode target.Mode, opts Options) *Session {
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = MaxAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		owner:       opts.Owner,
		mode:        mode,
		date:        opts.Date,
		ranked:      opts.Ranked,
		roster:      r,
		target:      tgt,
		table:       opts.Table,
		maxAttempts: opts.MaxAttempts,
		status:      StatusInProgress,
		rng:         opts.Rand,
		journal:     opts.Journal,
		onFinish:    opts.OnFinish,
		timeLimit:   opts.TimeLimit,
		tick:        opts.Tick,
		now:         opts.Now,
	}
}

// SubmitGuess validates raw against the lookup roster, scores it and advances
// the session.
//
// Errors:
//   - ErrGameOver: the session is terminal; nothing changes.
//   - *ValidationError wrapping ErrEmptyGuess or ErrUnknownPlayer; the
//     attempt is not consumed.
func (s *Session) SubmitGuess(ctx context.Context, raw string) (Outcome, error) {
	raw = strings.TrimSpace(raw)

	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return Outcome{}, ErrGameOver
	}
	if raw == "" {
		s.mu.Unlock()
		return Outcome{}, &ValidationError{Err: ErrEmptyGuess}
	}
	p, ok := s.roster.Lookup(raw)
	if !ok {
		s.mu.Unlock()
		return Outcome{}, &ValidationError{Input: raw, Err: ErrUnknownPlayer}
	}

	o := s.table.Compare(p, s.target)
	s.history = append(s.history, Entry{Kind: EntryGuess, Outcome: &o})
	s.bounds.observe(s.table, o)
	s.attempts++

	switch {
	case o.Correct():
		s.finishLocked(StatusWon)
	case s.attempts >= s.maxAttempts:
		s.finishLocked(StatusLostExhausted)
	}
	snap, done := s.snapshotLocked(), s.status.Terminal()
	s.mu.Unlock()

	s.checkpoint(ctx, snap, done)
	return o, nil
}

// RequestHint reveals one unresolved attribute and consumes an attempt.
// It returns ErrNoHints, without consuming anything, when nothing is left.
func (s *Session) RequestHint(ctx context.Context) (Hint, error) {
	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return Hint{}, ErrGameOver
	}
	h, err := NextHint(s.table, s.target, s.history, s.bounds, s.rng)
	if err != nil {
		s.mu.Unlock()
		return Hint{}, err
	}
	s.history = append(s.history, Entry{Kind: EntryHint, Hint: &h})
	s.attempts++
	s.hints++
	if s.attempts >= s.maxAttempts {
		s.finishLocked(StatusLostExhausted)
	}
	snap, done := s.snapshotLocked(), s.status.Terminal()
	s.mu.Unlock()

	s.checkpoint(ctx, snap, done)
	return h, nil
}

// GiveUp abandons the session.
func (s *Session) GiveUp(ctx context.Context) error {
	s.mu.Lock()
	if s.status.Terminal() {
		s.mu.Unlock()
		return ErrGameOver
	}
	s.finishLocked(StatusGaveUp)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.checkpoint(ctx, snap, true)
	return nil
}

// Expire ends a timed session as lost on time. It reports whether the
// session changed; untimed and terminal sessions are left alone.
func (s *Session) Expire(ctx context.Context) bool {
	s.mu.Lock()
	if s.status.Terminal() || s.timeLimit <= 0 {
		s.mu.Unlock()
		return false
	}
	s.finishLocked(StatusLostTimeout)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.checkpoint(ctx, snap, true)
	return true
}

func (s *Session) expireFromClock() {
	if s.Expire(context.Background()) {
		log.Debug().Str("gameId", s.id).Msg("session timed out")
	}
}

// finishLocked moves to a terminal status and stops the countdown.
func (s *Session) finishLocked(st Status) {
	s.status = st
	s.finishedAt = s.now()
	if s.clock != nil {
		s.clock.Stop()
	}
}

func (s *Session) checkpoint(ctx context.Context, snap Snapshot, finished bool) {
	if s.journal != nil {
		if err := s.journal.Record(ctx, snap); err != nil {
			log.Warn().Err(err).Str("gameId", snap.ID).Msg("journal session")
		}
	}
	if finished && s.onFinish != nil {
		s.onFinish(snap)
	}
}

// Close stops the countdown without changing state. Use when discarding a
// session that is still in progress.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock != nil {
		s.clock.Stop()
	}
}

// ---- accessors ----

func (s *Session) ID() string             { return s.id }
func (s *Session) Owner() string          { return s.owner }
func (s *Session) Mode() target.Mode      { return s.mode }
func (s *Session) Date() string           { return s.date }
func (s *Session) Target() *roster.Player { return s.target }
func (s *Session) Table() Table           { return s.table }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Attempts returns the number of accepted guesses plus hints.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// MaxAttempts returns the attempt budget.
func (s *Session) MaxAttempts() int { return s.maxAttempts }

// History returns a copy of the history.
func (s *Session) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.history...)
}

// Bounds returns a copy of the bounds tracker.
func (s *Session) Bounds() Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds.clone()
}

// Timed reports whether the session runs against a countdown.
func (s *Session) Timed() bool { return s.timeLimit > 0 }

// Remaining returns the countdown's time left; zero for untimed sessions.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *Session) remainingLocked() time.Duration {
	if s.clock == nil {
		return 0
	}
	return s.clock.Remaining()
}
