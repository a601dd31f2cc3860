package game

import "github.com/robalobadob/footle/internal/roster"

// Compare scores candidate against target, one cell per attribute in table
// order. It has no side effects.
//
// Rules:
//   - identity: exact iff names match ignoring case, otherwise far.
//   - category: exact iff equal, otherwise far.
//   - numeric:  exact iff equal; close iff 0 < |diff| <= tolerance; far
//     otherwise. Unknown on either side yields VerdictUnknown.
func (t Table) Compare(candidate, target *roster.Player) Outcome {
	out := Outcome{
		Player: candidate,
		Name:   candidate.Name,
		Code:   candidate.Code,
		Cells:  make([]Cell, 0, len(t)),
	}
	for _, s := range t {
		out.Cells = append(out.Cells, s.compare(candidate, target))
	}
	return out
}

func (s Spec) compare(candidate, target *roster.Player) Cell {
	c := Cell{Attribute: s.Key, Value: s.display(candidate), Verdict: VerdictFar}
	switch s.Kind {
	case KindIdentity:
		if candidate.Key() == target.Key() {
			c.Verdict = VerdictExact
		}
	case KindCategory:
		if equalText(s.text(candidate), s.text(target)) {
			c.Verdict = VerdictExact
		}
	case KindNumeric:
		cv, okC := s.number(candidate)
		tv, okT := s.number(target)
		if !okC || !okT {
			c.Verdict = VerdictUnknown
			return c
		}
		c.Verdict = s.band(cv - tv)
		c.Delta = sign(cv - tv)
	}
	return c
}

// band classifies a numeric difference.
func (s Spec) band(diff int) Verdict {
	d := abs(diff)
	switch {
	case d == 0:
		return VerdictExact
	case d <= s.Tolerance:
		return VerdictClose
	}
	return VerdictFar
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
