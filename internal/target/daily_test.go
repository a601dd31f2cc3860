package target

import (
	"testing"
	"time"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	d := time.Date(2025, 3, 2, 5, 0, 0, 0, loc) // 2025-03-01 19:00 UTC
	if got := DateKey(d); got != "2025-03-01" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestSeedUnsaltedIsCharCodeSum(t *testing.T) {
	var want uint64
	for _, r := range "2025-03-01" {
		want += uint64(r)
	}
	if got := Seed("2025-03-01", ""); got != want {
		t.Fatalf("Seed = %d, want %d", got, want)
	}
}

func TestSeedSaltedIsKeyed(t *testing.T) {
	a := Seed("2025-03-01", "salt-a")
	if a != Seed("2025-03-01", "salt-a") {
		t.Fatal("seed must be deterministic")
	}
	if a == Seed("2025-03-01", "salt-b") {
		t.Fatal("different salts should give different seeds")
	}
	if a == Seed("2025-03-02", "salt-a") {
		t.Fatal("different dates should give different seeds")
	}
	long := string(make([]byte, 100))
	_ = Seed("2025-03-01", long) // over-long keys are hashed down, not rejected
}

func TestIndexInRange(t *testing.T) {
	day := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := day.AddDate(0, 0, i)
		for _, n := range []int{1, 7, 40} {
			if got := Index(d, "s", n); got < 0 || got >= n {
				t.Fatalf("Index(%s, %d) = %d", DateKey(d), n, got)
			}
		}
	}
	if Index(day, "s", 0) != 0 {
		t.Fatal("empty pool should yield 0")
	}
}
