package target

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed turns a date key into an integer seed.
// Without a salt it is the sum of the key's character codes, so anyone can
// recompute it. With a salt it is the first 8 bytes of BLAKE2b-256 keyed by
// the salt, which keeps tomorrow's index from being guessed.
func Seed(dateKey, salt string) uint64 {
	if salt == "" {
		var sum uint64
		for _, r := range dateKey {
			sum += uint64(r)
		}
		return sum
	}
	key := []byte(salt)
	if len(key) > blake2b.Size {
		k := blake2b.Sum256(key)
		key = k[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return 0
	}
	h.Write([]byte(dateKey))
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// Index returns the deterministic roster index for date: Seed mod n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Seed(DateKey(date), salt) % uint64(n))
}
