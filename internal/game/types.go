// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Verdict: per-attribute result of a guess (exact/close/far/unknown).
//   - Cell / Outcome: one scored guess.
//   - Status: session lifecycle states.
//   - Entry: one history row (a guess or a hint).

package game

import "github.com/robalobadob/footle/internal/roster"

// Verdict is the evaluation of a single attribute.
// Possible values:
//   - "exact":   candidate value equals the target's.
//   - "close":   numeric value within the attribute's tolerance.
//   - "far":     anything else.
//   - "unknown": numeric value missing on either side; not scored.
type Verdict string

const (
	VerdictExact   Verdict = "exact"
	VerdictClose   Verdict = "close"
	VerdictFar     Verdict = "far"
	VerdictUnknown Verdict = "unknown"
)

// Cell is one attribute of a scored guess.
// Delta is sign(candidate - target) for numeric attributes: 1 means the
// candidate is higher than the target (guess lower next), -1 the opposite.
type Cell struct {
	Attribute Attribute `json:"attribute"`
	Verdict   Verdict   `json:"verdict"`
	Delta     int       `json:"delta"`
	Value     string    `json:"value"` // candidate's value as displayed
}

// Outcome is the result of comparing a candidate against the target.
type Outcome struct {
	Player *roster.Player `json:"-"`
	Name   string         `json:"name"`
	Code   string         `json:"code,omitempty"`
	Cells  []Cell         `json:"cells"`
}

// Cell returns the cell for a, if present.
func (o Outcome) Cell(a Attribute) (Cell, bool) {
	for _, c := range o.Cells {
		if c.Attribute == a {
			return c, true
		}
	}
	return Cell{}, false
}

// Correct reports whether the candidate is the target.
func (o Outcome) Correct() bool {
	c, ok := o.Cell(AttrName)
	return ok && c.Verdict == VerdictExact
}

// Status is the session lifecycle state.
type Status string

const (
	StatusInProgress    Status = "in_progress"
	StatusWon           Status = "won"
	StatusLostExhausted Status = "lost"
	StatusLostTimeout   Status = "timeout"
	StatusGaveUp        Status = "gave_up"
)

// Terminal reports whether no further guesses or hints are accepted.
func (s Status) Terminal() bool { return s != StatusInProgress }

// EntryKind tells guesses and hints apart in the history.
type EntryKind string

const (
	EntryGuess EntryKind = "guess"
	EntryHint  EntryKind = "hint"
)

// Entry is one row of session history. Exactly one of Outcome and Hint is set.
type Entry struct {
	Kind    EntryKind `json:"kind"`
	Outcome *Outcome  `json:"outcome,omitempty"`
	Hint    *Hint     `json:"hint,omitempty"`
}
