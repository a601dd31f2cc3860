package roster

import (
	"errors"
	"testing"
)

func mk(name, team string, pos Position, stats map[Stat]int) *Player {
	return &Player{Name: name, Team: team, Position: pos, Stats: stats}
}

func sample(t *testing.T) *Roster {
	t.Helper()
	r, err := New([]*Player{
		mk("Alan Shearer", "Newcastle", PositionFWD, map[Stat]int{StatAge: 30, StatMinutes: 3000, StatGoals: 25}),
		mk("Les Ferdinand", "Newcastle", PositionFWD, map[Stat]int{StatAge: 28, StatMinutes: 400, StatGoals: 5}),
		mk("Shay Given", "Newcastle", PositionGKP, map[Stat]int{StatAge: 22}),
		mk("Rob Lee", "Newcastle", PositionMID, map[Stat]int{StatAge: 31, StatMinutes: 2500, StatGoals: 7}),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewAssignsOrdinals(t *testing.T) {
	r := sample(t)
	for i, p := range r.All() {
		if p.Ordinal != i {
			t.Fatalf("%s: ordinal %d, want %d", p.Name, p.Ordinal, i)
		}
	}
	if r.Len() != 4 {
		t.Fatalf("Len=%d", r.Len())
	}
}

func TestNewRejectsEmptyAndDuplicates(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty: got %v", err)
	}
	_, err := New([]*Player{
		mk("Alan Shearer", "Newcastle", PositionFWD, nil),
		mk("alan  SHEARER", "Blackburn", PositionFWD, nil),
	})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate: got %v", err)
	}
}

func TestLookupNormalizesName(t *testing.T) {
	r := sample(t)
	for _, q := range []string{"Alan Shearer", "alan shearer", "  ALAN   Shearer "} {
		p, ok := r.Lookup(q)
		if !ok || p.Name != "Alan Shearer" {
			t.Fatalf("Lookup(%q) = %v, %v", q, p, ok)
		}
	}
	if _, ok := r.Lookup("Alan"); ok {
		t.Fatal("partial name should not match")
	}
}

func TestWithFilterKeepsLookupPool(t *testing.T) {
	r := sample(t).WithFilter(Filter{MinMinutes: 1000})
	got := map[string]bool{}
	for _, p := range r.Playable() {
		got[p.Name] = true
	}
	if !got["Alan Shearer"] || !got["Rob Lee"] || len(got) != 2 {
		t.Fatalf("playable = %v", got)
	}
	// Unknown minutes fail a positive threshold but stay guessable.
	if _, ok := r.Lookup("Shay Given"); !ok {
		t.Fatal("filtered player must still be in the lookup pool")
	}
	if r.Len() != 4 {
		t.Fatalf("Len=%d", r.Len())
	}

	byPos := sample(t).WithFilter(Filter{Positions: []Position{PositionGKP}})
	if len(byPos.Playable()) != 1 || byPos.Playable()[0].Name != "Shay Given" {
		t.Fatalf("position filter: %v", byPos.Playable())
	}
}

func TestRangeSkipsUnknown(t *testing.T) {
	r := sample(t)
	lo, hi, ok := r.Range(StatMinutes)
	if !ok || lo != 400 || hi != 3000 {
		t.Fatalf("Range(minutes) = %d, %d, %v", lo, hi, ok)
	}
	if _, _, ok := r.Range(StatTenure); ok {
		t.Fatal("no player has tenure")
	}
}

func TestSearch(t *testing.T) {
	r := sample(t)
	got := r.Search("LE", 10)
	if len(got) != 2 {
		t.Fatalf("Search(le) = %d players", len(got))
	}
	if got := r.Search("e", 1); len(got) != 1 {
		t.Fatalf("limit not applied: %d", len(got))
	}
	if got := r.Search("  ", 5); got != nil {
		t.Fatalf("blank query returned %v", got)
	}
}

func TestParsePosition(t *testing.T) {
	if p, ok := ParsePosition(" fwd "); !ok || p != PositionFWD {
		t.Fatalf("got %q %v", p, ok)
	}
	if _, ok := ParsePosition("ST"); ok {
		t.Fatal("ST is not a position")
	}
}

func TestTeamsAndOnTeam(t *testing.T) {
	r, err := New([]*Player{
		mk("Alan Shearer", "Newcastle", PositionFWD, nil),
		mk("Dennis Bergkamp", "Arsenal", PositionFWD, nil),
		mk("Shay Given", "Newcastle", PositionGKP, nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	teams := r.Teams()
	if len(teams) != 2 || teams[0] != (Team{Name: "Arsenal", Players: 1}) || teams[1] != (Team{Name: "Newcastle", Players: 2}) {
		t.Fatalf("Teams() = %+v", teams)
	}
	if got := OnTeam(r.All(), " newcastle "); len(got) != 2 || got[0].Name != "Alan Shearer" {
		t.Fatalf("OnTeam(newcastle) = %v", got)
	}
	if got := OnTeam(r.All(), "Sunderland"); got != nil {
		t.Fatalf("OnTeam(sunderland) = %v", got)
	}
}
