// internal/target/select.go
//
// Mystery player selection.
// Responsibilities:
//   - Daily: deterministic pick from the playable pool for a calendar date.
//   - Random: uniform pick from the playable pool, optionally one club's
//     share of it, avoiding the previous target when there is any alternative.
//   - ByIndex / ByName: custom challenges addressed against the lookup pool.
//   - Pick: resolves a Request, falling back to Daily for any custom request
//     that cannot be satisfied.

package target

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/robalobadob/footle/internal/roster"
)

// ErrNotFound is returned when a custom index or name matches no player.
var ErrNotFound = errors.New("target: player not found")

// maxRandomDraws bounds the retry loop in Random before it falls back to a scan.
const maxRandomDraws = 16

// Mode is how the mystery player was chosen.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeRandom Mode = "random"
	ModeCustom Mode = "custom"
)

// ParseMode maps an API string to a Mode; unknown values mean daily.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeRandom, ModeCustom:
		return Mode(s)
	}
	return ModeDaily
}

// Request describes what the caller asked for.
type Request struct {
	Mode      Mode
	Index     *int           // custom: roster ordinal
	Name      string         // custom: player name
	Challenge string         // custom: signed challenge code
	Previous  *roster.Player // random: last target to avoid repeating
	Team      string         // random: limit the draw to one club
}

// Pick is the resolved selection.
type Pick struct {
	Player   *roster.Player
	Mode     Mode   // the mode actually used (daily after a fallback)
	Date     string // date key for daily picks
	FellBack bool   // a custom target or random club could not be honoured
}

// Selector chooses mystery players from a roster.
type Selector struct {
	roster     *roster.Roster
	salt       string
	challenges *Challenges
	now        func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option customises a Selector.
type Option func(*Selector)

// WithSalt keys the daily seed.
func WithSalt(salt string) Option { return func(s *Selector) { s.salt = salt } }

// WithRand sets the random source used by Random.
func WithRand(r *rand.Rand) Option { return func(s *Selector) { s.rng = r } }

// WithClock overrides time.Now for Daily picks.
func WithClock(now func() time.Time) Option { return func(s *Selector) { s.now = now } }

// WithChallenges enables signed challenge codes in Pick.
func WithChallenges(c *Challenges) Option { return func(s *Selector) { s.challenges = c } }

// NewSelector returns a selector over r.
func NewSelector(r *roster.Roster, opts ...Option) *Selector {
	s := &Selector{
		roster: r,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Roster returns the roster the selector draws from.
func (s *Selector) Roster() *roster.Roster { return s.roster }

// Today returns the current date key.
func (s *Selector) Today() string { return DateKey(s.now()) }

// Daily returns the mystery player for date. The playable pool is used;
// if it is empty the lookup pool is used instead.
func (s *Selector) Daily(date time.Time) *roster.Player {
	pool := s.pool()
	if len(pool) == 0 {
		return nil
	}
	return pool[Index(date, s.salt, len(pool))]
}

// Random draws a player, avoiding exclude when another candidate exists.
func (s *Selector) Random(exclude *roster.Player) *roster.Player {
	return s.draw(s.pool(), exclude)
}

// RandomFromTeam draws from the club's playable players. A club with no
// playable players falls back to the whole pool; fellBack reports that.
func (s *Selector) RandomFromTeam(team string, exclude *roster.Player) (p *roster.Player, fellBack bool) {
	if club := roster.OnTeam(s.pool(), team); len(club) > 0 {
		return s.draw(club, exclude), false
	}
	return s.Random(exclude), true
}

func (s *Selector) draw(pool []*roster.Player, exclude *roster.Player) *roster.Player {
	switch len(pool) {
	case 0:
		return nil
	case 1:
		return pool[0]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < maxRandomDraws; i++ {
		p := pool[s.rng.Intn(len(pool))]
		if exclude == nil || p.Key() != exclude.Key() {
			return p
		}
	}
	start := s.rng.Intn(len(pool))
	for i := range pool {
		p := pool[(start+i)%len(pool)]
		if p.Key() != exclude.Key() {
			return p
		}
	}
	return pool[start]
}

// ByIndex returns the player at roster ordinal i.
func (s *Selector) ByIndex(i int) (*roster.Player, error) {
	p, ok := s.roster.At(i)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// ByName returns the player whose name matches, ignoring case.
func (s *Selector) ByName(name string) (*roster.Player, error) {
	p, ok := s.roster.Lookup(name)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Pick resolves req. It never fails on a bad custom request; it falls back to
// the daily player instead. The returned Player is nil only for an empty roster.
func (s *Selector) Pick(req Request) Pick {
	switch req.Mode {
	case ModeRandom:
		if req.Team != "" {
			p, fellBack := s.RandomFromTeam(req.Team, req.Previous)
			return Pick{Player: p, Mode: ModeRandom, FellBack: fellBack}
		}
		return Pick{Player: s.Random(req.Previous), Mode: ModeRandom}
	case ModeCustom:
		if p, err := s.custom(req); err == nil {
			return Pick{Player: p, Mode: ModeCustom}
		}
		d := s.daily()
		d.FellBack = true
		return d
	}
	return s.daily()
}

func (s *Selector) daily() Pick {
	now := s.now()
	return Pick{Player: s.Daily(now), Mode: ModeDaily, Date: DateKey(now)}
}

func (s *Selector) custom(req Request) (*roster.Player, error) {
	switch {
	case req.Challenge != "":
		if s.challenges == nil {
			return nil, ErrNotFound
		}
		i, err := s.challenges.Resolve(req.Challenge)
		if err != nil {
			return nil, err
		}
		return s.ByIndex(i)
	case req.Index != nil:
		return s.ByIndex(*req.Index)
	case req.Name != "":
		return s.ByName(req.Name)
	}
	return nil, ErrNotFound
}

func (s *Selector) pool() []*roster.Player {
	if pool := s.roster.Playable(); len(pool) > 0 {
		return pool
	}
	return s.roster.All()
}
