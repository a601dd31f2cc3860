// internal/roster/player.go
//
// Player record and attribute keys.
// Defines:
//   - Position: the fixed enumeration of playing positions.
//   - Stat: keys for the numeric attributes a player may carry.
//   - Player: one immutable roster entry.
//
// Numeric stats are optional. A missing key means "unknown" and must never be
// replaced by a made-up value.

package roster

import "strings"

// Position is a player's playing position.
type Position string

const (
	PositionGKP Position = "GKP"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// Positions lists every valid position in display order.
var Positions = []Position{PositionGKP, PositionDEF, PositionMID, PositionFWD}

// ParsePosition accepts the short codes (GKP, DEF, MID, FWD) in any case.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range Positions {
		if p == v {
			return p, true
		}
	}
	return "", false
}

// Stat names a numeric attribute.
type Stat string

const (
	StatAge     Stat = "age"     // years
	StatMinutes Stat = "minutes" // minutes played this season
	StatGoals   Stat = "goals"
	StatAssists Stat = "assists"
	StatTenure  Stat = "tenure" // days at current club
)

// Player is a single candidate. Treat it as read-only once loaded.
type Player struct {
	Name     string       `json:"name"`
	Team     string       `json:"team"`
	Position Position     `json:"position"`
	Stats    map[Stat]int `json:"stats"`
	Code     string       `json:"code,omitempty"` // opaque image key
	Ordinal  int          `json:"ordinal"`        // index in the full roster
}

// Stat returns the value of s and whether it is known.
func (p *Player) Stat(s Stat) (int, bool) {
	if p == nil || p.Stats == nil {
		return 0, false
	}
	v, ok := p.Stats[s]
	return v, ok
}

// Key is the lookup key for the player's name.
func (p *Player) Key() string { return NormalizeName(p.Name) }

// NormalizeName lowercases s and collapses internal whitespace.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
