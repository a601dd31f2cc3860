package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRestoreReplaysHistory(t *testing.T) {
	r := newcastle(t)
	s := newSessionFor(t, r, "Alan Shearer", Options{Owner: "p1", Date: "2025-03-01"})
	if _, err := s.SubmitGuess(ctx, "Alan Smith"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RequestHint(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess(ctx, "Tony Adams"); err != nil {
		t.Fatal(err)
	}

	// Through JSON, the way the journal stores it.
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}

	got, err := Restore(r, snap, Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	defer got.Close()

	if got.ID() != s.ID() || got.Owner() != "p1" || got.Date() != "2025-03-01" {
		t.Fatalf("identity lost: %s %s %s", got.ID(), got.Owner(), got.Date())
	}
	if got.Attempts() != 3 || got.Status() != StatusInProgress || got.Target() != s.Target() {
		t.Fatalf("attempts=%d status=%s", got.Attempts(), got.Status())
	}
	h := got.History()
	if len(h) != 3 || h[0].Outcome == nil || h[0].Outcome.Player == nil || h[1].Hint == nil {
		t.Fatalf("history not rebuilt: %+v", h)
	}
	want, have := s.Bounds(), got.Bounds()
	for a, iv := range want {
		if have[a] != iv {
			t.Fatalf("%s bounds %v, want %v", a, have[a], iv)
		}
	}

	// The restored session keeps playing.
	if _, err := got.SubmitGuess(ctx, "Alan Shearer"); err != nil {
		t.Fatal(err)
	}
	if got.Status() != StatusWon {
		t.Fatalf("status=%s", got.Status())
	}
}

func TestRestoreTimedSession(t *testing.T) {
	r := newcastle(t)
	snap := Snapshot{
		ID: "g1", Mode: "random", Target: "Alan Shearer",
		Status: StatusInProgress, MaxAttempts: MaxAttempts,
		TimeLimitMs: 60000, RemainingMs: 0,
		StartedAt: time.Now().Add(-time.Minute),
	}
	s, err := Restore(r, snap, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusLostTimeout {
		t.Fatalf("out of time: status=%s", s.Status())
	}

	snap.RemainingMs = 20
	s, err = Restore(r, snap, Options{Tick: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.Status() == StatusInProgress && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Status() != StatusLostTimeout {
		t.Fatalf("resumed countdown: status=%s", s.Status())
	}
}

func TestRestoreUnknownTarget(t *testing.T) {
	_, err := Restore(newcastle(t), Snapshot{ID: "g1", Target: "Pele"}, Options{})
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("got %v", err)
	}
}

func TestRestoreKeepsRanked(t *testing.T) {
	r := newcastle(t)
	s := newSessionFor(t, r, "Alan Shearer", Options{Ranked: true, Date: "2025-03-01"})
	snap := s.Snapshot()
	if !snap.Ranked {
		t.Fatal("snapshot lost the ranked flag")
	}
	got, err := Restore(r, snap, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Snapshot().Ranked {
		t.Fatal("restored session is unranked")
	}

	practice := newSessionFor(t, r, "Alan Shearer", Options{Date: "2025-03-01"})
	if practice.Snapshot().Ranked {
		t.Fatal("sessions are unranked unless asked")
	}
}
