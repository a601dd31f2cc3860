package game

import (
	"testing"
	"time"

	"github.com/robalobadob/footle/internal/roster"
)

func TestCompareSelfIsExact(t *testing.T) {
	r, err := roster.Load("", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	tbl := DefaultTable()
	for _, p := range r.All() {
		o := tbl.Compare(p, p)
		if !o.Correct() {
			t.Fatalf("%s: self comparison not correct", p.Name)
		}
		for _, c := range o.Cells {
			s, _ := tbl.Lookup(c.Attribute)
			_, known := s.number(p)
			if s.Kind == KindNumeric && !known {
				if c.Verdict != VerdictUnknown {
					t.Fatalf("%s/%s: missing stat scored %q", p.Name, c.Attribute, c.Verdict)
				}
				continue
			}
			if c.Verdict != VerdictExact {
				t.Fatalf("%s/%s: %q", p.Name, c.Attribute, c.Verdict)
			}
		}
	}
}

func TestCompareToleranceBoundary(t *testing.T) {
	tbl := DefaultTable()
	base := player("Target", "A", roster.PositionMID, 25, 2000, 10, 5, 500)
	for _, s := range tbl {
		if s.Kind != KindNumeric {
			continue
		}
		for diff, want := range map[int]Verdict{
			0:                VerdictExact,
			s.Tolerance:      VerdictClose,
			-s.Tolerance:     VerdictClose,
			s.Tolerance + 1:  VerdictFar,
			-s.Tolerance - 1: VerdictFar,
		} {
			cand := player("Cand", "A", roster.PositionMID, 25, 2000, 10, 5, 500)
			cand.Stats[s.Stat] = base.Stats[s.Stat] + diff
			c, _ := tbl.Compare(cand, base).Cell(s.Key)
			if c.Verdict != want {
				t.Fatalf("%s diff %d: got %q, want %q", s.Key, diff, c.Verdict, want)
			}
			if c.Delta != sign(diff) {
				t.Fatalf("%s diff %d: delta %d", s.Key, diff, c.Delta)
			}
		}
	}
}

func TestCompareShearerSmith(t *testing.T) {
	r := newcastle(t)
	o := DefaultTable().Compare(mustLookup(t, r, "Alan Smith"), mustLookup(t, r, "Alan Shearer"))

	want := map[Attribute]struct {
		v Verdict
		d int
	}{
		AttrName:     {VerdictFar, 0},
		AttrTeam:     {VerdictExact, 0},
		AttrPosition: {VerdictExact, 0},
		AttrAge:      {VerdictClose, 1},  // 33 vs 30
		AttrMinutes:  {VerdictClose, -1}, // 2900 vs 3000
		AttrGoals:    {VerdictFar, -1},   // 20 vs 25, beyond 2
		AttrAssists:  {VerdictClose, -1}, // 3 vs 5
		AttrTenure:   {VerdictClose, -1}, // 900 vs 1000
	}
	if len(o.Cells) != len(want) {
		t.Fatalf("got %d cells", len(o.Cells))
	}
	for a, w := range want {
		c, ok := o.Cell(a)
		if !ok {
			t.Fatalf("missing %s", a)
		}
		if c.Verdict != w.v || c.Delta != w.d {
			t.Errorf("%s: got %q/%d, want %q/%d", a, c.Verdict, c.Delta, w.v, w.d)
		}
	}
	if o.Correct() {
		t.Fatal("Smith is not Shearer")
	}
	if c, _ := o.Cell(AttrAge); c.Value != "33" {
		t.Fatalf("age cell shows candidate value, got %q", c.Value)
	}
}

func TestCompareUnknownStat(t *testing.T) {
	r := newcastle(t)
	o := DefaultTable().Compare(mustLookup(t, r, "Mystery Youth"), mustLookup(t, r, "Alan Shearer"))
	for _, a := range []Attribute{AttrAge, AttrMinutes, AttrAssists, AttrTenure} {
		c, _ := o.Cell(a)
		if c.Verdict != VerdictUnknown || c.Value != "?" {
			t.Fatalf("%s: %+v", a, c)
		}
	}
	if c, _ := o.Cell(AttrGoals); c.Verdict != VerdictFar {
		t.Fatalf("goals known on both sides: %+v", c)
	}
}

func TestWithTolerances(t *testing.T) {
	tbl := DefaultTable().WithTolerances(map[Attribute]int{AttrGoals: 5, AttrTeam: 3, AttrAge: -1})
	if s, _ := tbl.Lookup(AttrGoals); s.Tolerance != 5 {
		t.Fatalf("goals tolerance %d", s.Tolerance)
	}
	if s, _ := tbl.Lookup(AttrAge); s.Tolerance != DefaultAgeTolerance {
		t.Fatalf("negative override applied: %d", s.Tolerance)
	}
	if s, _ := DefaultTable().Lookup(AttrGoals); s.Tolerance != DefaultGoalsTolerance {
		t.Fatal("WithTolerances mutated the receiver")
	}
}
