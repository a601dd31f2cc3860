package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/robalobadob/footle/internal/roster"
	"github.com/robalobadob/footle/internal/target"
)

func player(name, team string, pos roster.Position, age, minutes, goals, assists, tenure int) *roster.Player {
	return &roster.Player{
		Name: name, Team: team, Position: pos,
		Stats: map[roster.Stat]int{
			roster.StatAge:     age,
			roster.StatMinutes: minutes,
			roster.StatGoals:   goals,
			roster.StatAssists: assists,
			roster.StatTenure:  tenure,
		},
	}
}

// newcastle returns a small roster whose first player is Alan Shearer.
func newcastle(t *testing.T) *roster.Roster {
	t.Helper()
	r, err := roster.New([]*roster.Player{
		player("Alan Shearer", "Newcastle", roster.PositionFWD, 30, 3000, 25, 5, 1000),
		player("Alan Smith", "Newcastle", roster.PositionFWD, 33, 2900, 20, 3, 900),
		player("Shay Given", "Newcastle", roster.PositionGKP, 22, 3400, 0, 0, 2000),
		player("Gianfranco Zola", "Chelsea", roster.PositionFWD, 31, 2200, 12, 9, 400),
		player("Tony Adams", "Arsenal", roster.PositionDEF, 35, 2600, 2, 1, 5000),
		player("Ryan Giggs", "Man Utd", roster.PositionMID, 18, 1200, 6, 11, 30),
		{Name: "Mystery Youth", Team: "Newcastle", Position: roster.PositionMID,
			Stats: map[roster.Stat]int{roster.StatGoals: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustLookup(t *testing.T, r *roster.Roster, name string) *roster.Player {
	t.Helper()
	p, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("no player %q", name)
	}
	return p
}

func newSessionFor(t *testing.T, r *roster.Roster, name string, opts Options) *Session {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(7))
	}
	s, err := New(r, mustLookup(t, r, name), target.ModeCustom, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

// memJournal records every snapshot it sees.
type memJournal struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (j *memJournal) Record(_ context.Context, s Snapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.snaps = append(j.snaps, s)
	return nil
}

func (j *memJournal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.snaps)
}
