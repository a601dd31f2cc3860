package game

import (
	"strconv"
	"strings"

	"github.com/robalobadob/footle/internal/roster"
)

// Attribute names a compared column.
type Attribute string

const (
	AttrName     Attribute = "name"
	AttrTeam     Attribute = "team"
	AttrPosition Attribute = "position"
	AttrAge      Attribute = "age"
	AttrMinutes  Attribute = "minutes"
	AttrGoals    Attribute = "goals"
	AttrAssists  Attribute = "assists"
	AttrTenure   Attribute = "tenure"
)

// Kind selects the comparison rule for an attribute.
type Kind int

const (
	KindIdentity Kind = iota // case-insensitive name equality
	KindCategory             // equality only
	KindNumeric              // tolerance band + direction
)

// Default "close" bands.
const (
	DefaultAgeTolerance     = 5
	DefaultMinutesTolerance = 500
	DefaultGoalsTolerance   = 2
	DefaultAssistsTolerance = 2
	DefaultTenureTolerance  = 365
)

// Default maximum hint offsets.
const (
	DefaultAgeSpread     = 5
	DefaultMinutesSpread = 500
	DefaultGoalsSpread   = 2
	DefaultAssistsSpread = 2
	DefaultTenureSpread  = 365
)

// Spec configures one attribute.
type Spec struct {
	Key       Attribute
	Label     string
	Kind      Kind
	Stat      roster.Stat // numeric only
	Tolerance int         // numeric only; close iff 0 < |diff| <= Tolerance
	Spread    int         // numeric only; hint offsets are drawn from [1, Spread]
}

// Table is the ordered list of compared attributes. Its order is the column
// order of outcomes and share rows.
type Table []Spec

// DefaultTable returns the standard attribute table.
func DefaultTable() Table {
	return Table{
		{Key: AttrName, Label: "Name", Kind: KindIdentity},
		{Key: AttrTeam, Label: "Team", Kind: KindCategory},
		{Key: AttrPosition, Label: "Position", Kind: KindCategory},
		{Key: AttrAge, Label: "Age", Kind: KindNumeric, Stat: roster.StatAge, Tolerance: DefaultAgeTolerance, Spread: DefaultAgeSpread},
		{Key: AttrMinutes, Label: "Minutes", Kind: KindNumeric, Stat: roster.StatMinutes, Tolerance: DefaultMinutesTolerance, Spread: DefaultMinutesSpread},
		{Key: AttrGoals, Label: "Goals", Kind: KindNumeric, Stat: roster.StatGoals, Tolerance: DefaultGoalsTolerance, Spread: DefaultGoalsSpread},
		{Key: AttrAssists, Label: "Assists", Kind: KindNumeric, Stat: roster.StatAssists, Tolerance: DefaultAssistsTolerance, Spread: DefaultAssistsSpread},
		{Key: AttrTenure, Label: "Days at club", Kind: KindNumeric, Stat: roster.StatTenure, Tolerance: DefaultTenureTolerance, Spread: DefaultTenureSpread},
	}
}

// WithTolerances returns a copy of t with the given tolerances replaced.
// Negative values are ignored.
func (t Table) WithTolerances(tol map[Attribute]int) Table {
	out := make(Table, len(t))
	copy(out, t)
	for i := range out {
		if v, ok := tol[out[i].Key]; ok && v >= 0 && out[i].Kind == KindNumeric {
			out[i].Tolerance = v
		}
	}
	return out
}

// Lookup returns the spec for a.
func (t Table) Lookup(a Attribute) (Spec, bool) {
	for _, s := range t {
		if s.Key == a {
			return s, true
		}
	}
	return Spec{}, false
}

// text returns a categorical or identity value of p.
func (s Spec) text(p *roster.Player) string {
	switch s.Key {
	case AttrName:
		return p.Name
	case AttrTeam:
		return p.Team
	case AttrPosition:
		return string(p.Position)
	}
	return ""
}

// number returns a numeric value of p and whether it is known.
func (s Spec) number(p *roster.Player) (int, bool) {
	return p.Stat(s.Stat)
}

// display renders p's value for outcome cells.
func (s Spec) display(p *roster.Player) string {
	if s.Kind != KindNumeric {
		return s.text(p)
	}
	if v, ok := s.number(p); ok {
		return strconv.Itoa(v)
	}
	return "?"
}

func equalText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
