// internal/roster/roster.go
//
// Roster holds the loaded players in two pools:
//   - lookup pool: every player; used to validate guesses and to address
//     custom challenges by name or ordinal.
//   - playable pool: players that pass the configured Filter; only these may
//     be chosen as the mystery player.
//
// A player filtered out of the playable pool can still be guessed.
// Rosters are immutable; WithFilter returns a new value sharing the lookup pool.

package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmpty         = errors.New("roster: no players")
	ErrDuplicateName = errors.New("roster: duplicate player name")
)

// Filter restricts which players are eligible as mystery players.
type Filter struct {
	MinMinutes int        // 0 disables the check
	Positions  []Position // empty allows every position
}

// Allows reports whether p passes the filter.
// A player with unknown minutes fails any positive MinMinutes threshold.
func (f Filter) Allows(p *Player) bool {
	if f.MinMinutes > 0 {
		m, ok := p.Stat(StatMinutes)
		if !ok || m < f.MinMinutes {
			return false
		}
	}
	if len(f.Positions) == 0 {
		return true
	}
	for _, pos := range f.Positions {
		if p.Position == pos {
			return true
		}
	}
	return false
}

// Roster is an ordered, immutable set of players.
type Roster struct {
	all      []*Player
	byName   map[string]*Player
	playable []*Player
	filter   Filter
}

// New builds a roster. Ordinals are reassigned to match slice order.
func New(players []*Player) (*Roster, error) {
	if len(players) == 0 {
		return nil, ErrEmpty
	}
	r := &Roster{
		all:    make([]*Player, len(players)),
		byName: make(map[string]*Player, len(players)),
	}
	for i, p := range players {
		k := p.Key()
		if _, dup := r.byName[k]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		p.Ordinal = i
		r.all[i] = p
		r.byName[k] = p
	}
	r.playable = r.all
	return r, nil
}

// WithFilter returns a roster whose playable pool is restricted by f.
func (r *Roster) WithFilter(f Filter) *Roster {
	out := &Roster{all: r.all, byName: r.byName, filter: f}
	for _, p := range r.all {
		if f.Allows(p) {
			out.playable = append(out.playable, p)
		}
	}
	return out
}

// All returns the lookup pool in roster order.
func (r *Roster) All() []*Player { return r.all }

// Playable returns the pool eligible for target selection.
func (r *Roster) Playable() []*Player { return r.playable }

// Filter returns the filter used to build the playable pool.
func (r *Roster) Filter() Filter { return r.filter }

// Len is the size of the lookup pool.
func (r *Roster) Len() int { return len(r.all) }

// Lookup finds a player by name, ignoring case and extra whitespace.
func (r *Roster) Lookup(name string) (*Player, bool) {
	p, ok := r.byName[NormalizeName(name)]
	return p, ok
}

// At returns the player with the given ordinal.
func (r *Roster) At(i int) (*Player, bool) {
	if i < 0 || i >= len(r.all) {
		return nil, false
	}
	return r.all[i], true
}

// Range returns the smallest and largest known value of s across the lookup
// pool. ok is false when no player has s.
func (r *Roster) Range(s Stat) (lo, hi int, ok bool) {
	for _, p := range r.all {
		v, known := p.Stat(s)
		if !known {
			continue
		}
		if !ok || v < lo {
			lo = v
		}
		if !ok || v > hi {
			hi = v
		}
		ok = true
	}
	return lo, hi, ok
}

// Search returns up to limit players whose name contains q (case-insensitive).
func (r *Roster) Search(q string, limit int) []*Player {
	q = NormalizeName(q)
	if q == "" || limit <= 0 {
		return nil
	}
	var out []*Player
	for _, p := range r.all {
		if strings.Contains(p.Key(), q) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Team is a club and how many roster players belong to it.
type Team struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// Teams lists the clubs in the lookup pool, sorted by name.
func (r *Roster) Teams() []Team {
	counts := make(map[string]int)
	for _, p := range r.all {
		counts[p.Team]++
	}
	out := make([]Team, 0, len(counts))
	for name, n := range counts {
		out = append(out, Team{Name: name, Players: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// OnTeam returns the players of pool whose club matches team, ignoring case.
func OnTeam(pool []*Player, team string) []*Player {
	team = NormalizeName(team)
	var out []*Player
	for _, p := range pool {
		if NormalizeName(p.Team) == team {
			out = append(out, p)
		}
	}
	return out
}
