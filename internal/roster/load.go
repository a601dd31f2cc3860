// internal/roster/load.go
//
// Loads the player list for the game engine.
//
// Responsibilities:
//   - Decode a JSON array of player records into Players.
//   - Derive age (years) from birth_date and tenure (days at club) from
//     joined_at, relative to an as-of date.
//   - Drop incomplete records (no name, no team, unknown position) and
//     duplicate names, logging each one.
//
// Sources (Load):
//   1. If path is set, read that file.
//   2. Otherwise fall back to the embedded default roster in assets.
//
// Record format:
//   {"name":"Alan Shearer","team":"Newcastle","position":"FWD",
//    "birth_date":"1970-08-13","joined_at":"1996-07-30",
//    "minutes":3000,"goals":25,"assists":5,"code":"2481"}
//
// "age" and "tenure" may be given directly instead of the dates. Any numeric
// field left out stays unknown.

package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/footle/assets"
)

const dateLayout = "2006-01-02"

// record is the on-disk shape of one player.
type record struct {
	Name      string `json:"name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	BirthDate string `json:"birth_date"`
	JoinedAt  string `json:"joined_at"`
	Age       *int   `json:"age"`
	Tenure    *int   `json:"tenure"`
	Minutes   *int   `json:"minutes"`
	Goals     *int   `json:"goals"`
	Assists   *int   `json:"assists"`
	Code      string `json:"code"`
}

// Load reads players from path, or from the embedded roster when path is "".
func Load(path string, asOf time.Time) (*Roster, error) {
	var src io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("roster: open %s: %w", path, err)
		}
		defer f.Close()
		src = f
	} else {
		src = bytes.NewReader(assets.DefaultPlayers())
	}
	players, err := Decode(src, asOf)
	if err != nil {
		return nil, err
	}
	return New(players)
}

// Decode parses a JSON array of player records.
func Decode(r io.Reader, asOf time.Time) ([]*Player, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("roster: decode: %w", err)
	}
	seen := make(map[string]struct{}, len(recs))
	out := make([]*Player, 0, len(recs))
	for i, rec := range recs {
		p, err := rec.player(asOf)
		if err != nil {
			log.Debug().Int("index", i).Err(err).Msg("skip player record")
			continue
		}
		if _, dup := seen[p.Key()]; dup {
			log.Warn().Str("name", p.Name).Msg("skip duplicate player name")
			continue
		}
		seen[p.Key()] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (rec record) player(asOf time.Time) (*Player, error) {
	name := strings.Join(strings.Fields(rec.Name), " ")
	team := strings.TrimSpace(rec.Team)
	if name == "" || team == "" {
		return nil, fmt.Errorf("missing name or team")
	}
	pos, ok := ParsePosition(rec.Position)
	if !ok {
		return nil, fmt.Errorf("unknown position %q", rec.Position)
	}
	p := &Player{
		Name:     name,
		Team:     team,
		Position: pos,
		Stats:    make(map[Stat]int, 5),
		Code:     rec.Code,
	}

	switch {
	case rec.Age != nil:
		p.Stats[StatAge] = *rec.Age
	case rec.BirthDate != "":
		if born, err := time.Parse(dateLayout, rec.BirthDate); err == nil {
			p.Stats[StatAge] = YearsBetween(born, asOf)
		}
	}
	switch {
	case rec.Tenure != nil:
		p.Stats[StatTenure] = *rec.Tenure
	case rec.JoinedAt != "":
		if joined, err := time.Parse(dateLayout, rec.JoinedAt); err == nil {
			p.Stats[StatTenure] = DaysBetween(joined, asOf)
		}
	}
	setIf(p.Stats, StatMinutes, rec.Minutes)
	setIf(p.Stats, StatGoals, rec.Goals)
	setIf(p.Stats, StatAssists, rec.Assists)

	for k, v := range p.Stats {
		if v < 0 {
			delete(p.Stats, k)
		}
	}
	return p, nil
}

func setIf(m map[Stat]int, k Stat, v *int) {
	if v != nil {
		m[k] = *v
	}
}

// YearsBetween returns whole years elapsed from a to b.
func YearsBetween(a, b time.Time) int {
	y := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		y--
	}
	return y
}

// DaysBetween returns whole days elapsed from a to b (UTC calendar days).
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
