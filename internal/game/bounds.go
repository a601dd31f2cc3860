package game

import "github.com/robalobadob/footle/internal/roster"

// Interval is the feasible range [Min, Max] for the target's value.
type Interval struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Converged reports whether the interval is too narrow for a useful hint.
func (iv Interval) Converged() bool { return iv.Max-iv.Min <= 1 }

// Contains reports whether v lies in the interval.
func (iv Interval) Contains(v int) bool { return v >= iv.Min && v <= iv.Max }

// Bounds tracks one Interval per numeric attribute the target has.
// Every narrowing step keeps the target's true value inside the interval.
type Bounds map[Attribute]Interval

// NewBounds seeds intervals from the roster-wide range of each numeric
// attribute, clamped at zero. Attributes the target lacks are left out.
func NewBounds(t Table, r *roster.Roster, target *roster.Player) Bounds {
	b := make(Bounds)
	for _, s := range t {
		if s.Kind != KindNumeric {
			continue
		}
		tv, ok := s.number(target)
		if !ok {
			continue
		}
		lo, hi, ok := r.Range(s.Stat)
		if !ok {
			lo, hi = tv, tv
		}
		if lo > tv {
			lo = tv
		}
		if hi < tv {
			hi = tv
		}
		if lo < 0 {
			lo = 0
		}
		b[s.Key] = Interval{Min: lo, Max: hi}
	}
	return b
}

// tighten intersects the interval for a with [lo, hi].
func (b Bounds) tighten(a Attribute, lo, hi int) {
	iv, ok := b[a]
	if !ok {
		return
	}
	if lo > iv.Min {
		iv.Min = lo
	}
	if hi < iv.Max {
		iv.Max = hi
	}
	b[a] = iv
}

// observe narrows b with what a scored guess revealed: the direction arrow
// bounds one side and the close/far band bounds the other.
func (b Bounds) observe(t Table, o Outcome) {
	for _, c := range o.Cells {
		s, ok := t.Lookup(c.Attribute)
		if !ok || s.Kind != KindNumeric || c.Verdict == VerdictUnknown {
			continue
		}
		v, ok := s.number(o.Player)
		if !ok {
			continue
		}
		const inf = int(^uint(0) >> 1)
		switch {
		case c.Verdict == VerdictExact:
			b.tighten(c.Attribute, v, v)
		case c.Delta > 0 && c.Verdict == VerdictClose:
			b.tighten(c.Attribute, v-s.Tolerance, v-1)
		case c.Delta > 0:
			b.tighten(c.Attribute, -inf, v-s.Tolerance-1)
		case c.Delta < 0 && c.Verdict == VerdictClose:
			b.tighten(c.Attribute, v+1, v+s.Tolerance)
		case c.Delta < 0:
			b.tighten(c.Attribute, v+s.Tolerance+1, inf)
		}
	}
}

// applyHint narrows b with a numeric hint.
func (b Bounds) applyHint(h Hint) {
	const inf = int(^uint(0) >> 1)
	switch h.Op {
	case OpGreater:
		b.tighten(h.Attribute, h.Threshold+1, inf)
	case OpLess:
		b.tighten(h.Attribute, -inf, h.Threshold-1)
	}
}

// clone returns an independent copy.
func (b Bounds) clone() Bounds {
	out := make(Bounds, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
