package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var asOf = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func TestDecodeDerivesAgeAndTenure(t *testing.T) {
	in := `[
	  {"name":"Alan Shearer","team":"Newcastle","position":"FWD",
	   "birth_date":"1970-08-13","joined_at":"2025-04-01",
	   "minutes":3000,"goals":25,"assists":5,"code":"2481"},
	  {"name":"Shay Given","team":"Newcastle","position":"gkp","age":22,"tenure":10}
	]`
	ps, err := Decode(strings.NewReader(in), asOf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("got %d players", len(ps))
	}
	a := ps[0]
	if v, _ := a.Stat(StatAge); v != 54 {
		t.Fatalf("age=%d", v)
	}
	if v, _ := a.Stat(StatTenure); v != 30 {
		t.Fatalf("tenure=%d", v)
	}
	if v, _ := a.Stat(StatGoals); v != 25 {
		t.Fatalf("goals=%d", v)
	}
	if a.Code != "2481" {
		t.Fatalf("code=%q", a.Code)
	}
	g := ps[1]
	if g.Position != PositionGKP {
		t.Fatalf("position=%q", g.Position)
	}
	if _, ok := g.Stat(StatMinutes); ok {
		t.Fatal("missing minutes must stay unknown")
	}
}

func TestDecodeSkipsBadRecords(t *testing.T) {
	in := `[
	  {"name":"","team":"Newcastle","position":"FWD"},
	  {"name":"No Team","team":" ","position":"FWD"},
	  {"name":"Bad Pos","team":"Newcastle","position":"ST"},
	  {"name":"Rob Lee","team":"Newcastle","position":"MID","goals":-1},
	  {"name":"rob lee","team":"Derby","position":"MID"}
	]`
	ps, err := Decode(strings.NewReader(in), asOf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ps) != 1 || ps[0].Team != "Newcastle" {
		t.Fatalf("got %+v", ps)
	}
	if _, ok := ps[0].Stat(StatGoals); ok {
		t.Fatal("negative stat must be dropped")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"name":`), asOf); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadEmbedded(t *testing.T) {
	r, err := Load("", asOf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 40 {
		t.Fatalf("embedded roster has %d players", r.Len())
	}
	p, ok := r.Lookup("ethan nwaneri")
	if !ok {
		t.Fatal("Ethan Nwaneri missing")
	}
	if _, ok := p.Stat(StatAge); ok {
		t.Fatal("age should be unknown without a birth date")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	body := `[{"name":"Alan Shearer","team":"Newcastle","position":"FWD","age":30}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path, asOf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len=%d", r.Len())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), asOf); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestYearsAndDaysBetween(t *testing.T) {
	born := time.Date(2000, 5, 2, 0, 0, 0, 0, time.UTC)
	if y := YearsBetween(born, asOf); y != 24 {
		t.Fatalf("day before birthday: %d", y)
	}
	if y := YearsBetween(born, asOf.AddDate(0, 0, 1)); y != 25 {
		t.Fatalf("on birthday: %d", y)
	}
	if d := DaysBetween(asOf.AddDate(0, 0, -7), asOf); d != 7 {
		t.Fatalf("days=%d", d)
	}
}
