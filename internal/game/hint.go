// internal/game/hint.go
//
// Hint generation.
//
// A hint reveals one attribute of the target that the history has not
// already settled:
//   - team/position: the exact value ("Team = Newcastle").
//   - numeric:       a bounded inequality ("Age > 23"), always true of the
//     target and always strictly tighter than the current bounds.
//
// An attribute is never hinted twice, and never hinted once a guess matched
// it exactly. The name is never hinted.

package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/robalobadob/footle/internal/roster"
)

// ErrNoHints is returned when no attribute is left to reveal.
var ErrNoHints = errors.New("no more hints")

// Op is the relation a hint asserts about the target's value.
type Op string

const (
	OpEqual   Op = "="
	OpGreater Op = ">"
	OpLess    Op = "<"
)

// Hint is a synthetic history entry describing the target.
type Hint struct {
	Attribute Attribute `json:"attribute"`
	Label     string    `json:"label"`
	Op        Op        `json:"op"`
	Value     string    `json:"value"`
	Threshold int       `json:"threshold,omitempty"` // numeric hints only
}

// String renders the hint for display, e.g. "Age > 23".
func (h Hint) String() string {
	return fmt.Sprintf("%s %s %s", h.Label, h.Op, h.Value)
}

// Holds reports whether the hint is true of p.
func (h Hint) Holds(t Table, p *roster.Player) bool {
	s, ok := t.Lookup(h.Attribute)
	if !ok {
		return false
	}
	if s.Kind != KindNumeric {
		return h.Op == OpEqual && equalText(s.text(p), h.Value)
	}
	v, ok := s.number(p)
	if !ok {
		return false
	}
	switch h.Op {
	case OpGreater:
		return v > h.Threshold
	case OpLess:
		return v < h.Threshold
	case OpEqual:
		return v == h.Threshold
	}
	return false
}

// NextHint picks a random eligible attribute and reveals it. Numeric hints
// tighten bounds in place. It returns ErrNoHints, and leaves bounds untouched,
// when nothing is eligible.
func NextHint(t Table, target *roster.Player, history []Entry, bounds Bounds, rng *rand.Rand) (Hint, error) {
	eligible := Eligible(t, target, history, bounds)
	if len(eligible) == 0 {
		return Hint{}, ErrNoHints
	}
	s := eligible[rng.Intn(len(eligible))]
	if s.Kind != KindNumeric {
		return Hint{Attribute: s.Key, Label: s.Label, Op: OpEqual, Value: s.text(target)}, nil
	}

	tv, _ := s.number(target)
	iv := bounds[s.Key]
	var dirs []Op
	if tv > iv.Min {
		dirs = append(dirs, OpGreater)
	}
	if tv < iv.Max {
		dirs = append(dirs, OpLess)
	}
	offset := 1
	if s.Spread > 1 {
		offset += rng.Intn(s.Spread)
	}

	h := Hint{Attribute: s.Key, Label: s.Label, Op: dirs[rng.Intn(len(dirs))]}
	switch h.Op {
	case OpGreater:
		// target > v, with Min <= v < target
		v := tv - offset
		if v < iv.Min {
			v = iv.Min
		}
		if v < 0 {
			v = 0
		}
		h.Threshold = v
	case OpLess:
		// target < v, with target < v <= Max
		v := tv + offset
		if v > iv.Max {
			v = iv.Max
		}
		h.Threshold = v
	}
	h.Value = strconv.Itoa(h.Threshold)
	bounds.applyHint(h)
	return h, nil
}

// Eligible lists the attributes a hint may still reveal, in table order.
func Eligible(t Table, target *roster.Player, history []Entry, bounds Bounds) []Spec {
	done := revealed(history)
	var out []Spec
	for _, s := range t {
		if done[s.Key] {
			continue
		}
		switch s.Kind {
		case KindCategory:
			out = append(out, s)
		case KindNumeric:
			if _, ok := s.number(target); !ok {
				continue
			}
			iv, ok := bounds[s.Key]
			if !ok || iv.Converged() {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// revealed collects attributes settled by an exact guess or already hinted.
func revealed(history []Entry) map[Attribute]bool {
	done := make(map[Attribute]bool)
	for _, e := range history {
		switch {
		case e.Hint != nil:
			done[e.Hint.Attribute] = true
		case e.Outcome != nil:
			for _, c := range e.Outcome.Cells {
				if c.Verdict == VerdictExact {
					done[c.Attribute] = true
				}
			}
		}
	}
	return done
}
