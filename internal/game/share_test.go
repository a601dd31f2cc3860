package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/footle/internal/target"
)

func TestShareDailyWin(t *testing.T) {
	r := newcastle(t)
	s, err := New(r, mustLookup(t, r, "Alan Shearer"), target.ModeDaily, Options{Date: "2025-03-01"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, g := range []string{"Alan Smith", "Alan Shearer"} {
		if _, err := s.SubmitGuess(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	want := "Footle 2025-03-01 2/8\n" +
		"🟥🟩🟩🟨🟨🟥🟨🟨\n" +
		"🟩🟩🟩🟩🟩🟩🟩🟩"
	if got := s.Share(); got != want {
		t.Fatalf("share:\n%s\nwant:\n%s", got, want)
	}
}

func TestShareLossSkipsHints(t *testing.T) {
	r := newcastle(t)
	s := newSessionFor(t, r, "Alan Shearer", Options{MaxAttempts: 3})
	if _, err := s.SubmitGuess(ctx, "Mystery Youth"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RequestHint(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GiveUp(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(s.Share(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", lines)
	}
	if lines[0] != "Footle custom X/3" {
		t.Fatalf("header %q", lines[0])
	}
	// Unknown stats render as far.
	if lines[1] != "🟥🟩🟥🟥🟥🟥🟥🟥" {
		t.Fatalf("row %q", lines[1])
	}
}

func TestParseShare(t *testing.T) {
	r := newcastle(t)
	s := newSessionFor(t, r, "Shay Given", Options{})
	for _, g := range []string{"Alan Smith", "Tony Adams", "Shay Given"} {
		if _, err := s.SubmitGuess(ctx, g); err != nil {
			t.Fatal(err)
		}
	}
	sum, err := ParseShare(s.Share())
	if err != nil {
		t.Fatalf("ParseShare: %v", err)
	}
	if !sum.Won || sum.Attempts != 3 || sum.MaxAttempts != MaxAttempts || sum.Label != "custom" {
		t.Fatalf("summary %+v", sum)
	}
	if len(sum.Rows) != 3 {
		t.Fatalf("rows=%d", len(sum.Rows))
	}
	for i, e := range s.History() {
		for j, c := range e.Outcome.Cells {
			if sum.Rows[i][j] != c.Verdict {
				t.Fatalf("row %d cell %d: %q vs %q", i, j, sum.Rows[i][j], c.Verdict)
			}
		}
	}

	for _, bad := range []string{"", "Wordle 1 2/6", "Footle x 2-8", "Footle x 2/8\n🟩🟦"} {
		if _, err := ParseShare(bad); !errors.Is(err, ErrBadShare) {
			t.Fatalf("ParseShare(%q) = %v", bad, err)
		}
	}
}

func TestSymbol(t *testing.T) {
	for v, want := range map[Verdict]string{
		VerdictExact:   SymbolExact,
		VerdictClose:   SymbolClose,
		VerdictFar:     SymbolFar,
		VerdictUnknown: SymbolFar,
	} {
		if Symbol(v) != want {
			t.Fatalf("Symbol(%q) = %q", v, Symbol(v))
		}
	}
}
