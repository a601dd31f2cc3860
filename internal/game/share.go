// internal/game/share.go
//
// Text share summary.
//
// Format (one line each, "\n" separated):
//
//	Footle <label> <n>/<max>
//	<row per guess>
//
// <label> is the daily date key, or the session mode for non-daily games.
// <n> is the number of attempts used on a win, "X" otherwise. Each row has one
// symbol per attribute in table order; hints produce no row.

package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/footle/internal/target"
)

// Share symbols. Unknown cells render as far.
const (
	SymbolExact = "🟩"
	SymbolClose = "🟨"
	SymbolFar   = "🟥"
)

const shareTitle = "Footle"

// ErrBadShare is returned by ParseShare for malformed input.
var ErrBadShare = errors.New("malformed share text")

// Symbol returns the share symbol for v.
func Symbol(v Verdict) string {
	switch v {
	case VerdictExact:
		return SymbolExact
	case VerdictClose:
		return SymbolClose
	}
	return SymbolFar
}

// Share renders the session's share summary.
func (s *Session) Share() string {
	return s.Snapshot().Share()
}

// Share renders the share summary for a snapshot.
func (s Snapshot) Share() string {
	label := string(s.Mode)
	if s.Mode == target.ModeDaily && s.Date != "" {
		label = s.Date
	}
	score := "X"
	if s.Won() {
		score = strconv.Itoa(s.Attempts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s/%d", shareTitle, label, score, s.MaxAttempts)
	for _, e := range s.History {
		if e.Outcome == nil {
			continue
		}
		b.WriteByte('\n')
		for _, c := range e.Outcome.Cells {
			b.WriteString(Symbol(c.Verdict))
		}
	}
	return b.String()
}

// ShareSummary is a parsed share text.
type ShareSummary struct {
	Label       string
	Won         bool
	Attempts    int // zero when not won
	MaxAttempts int
	Rows        [][]Verdict // unknown cells come back as far
}

// ParseShare parses text produced by Share.
func ParseShare(text string) (ShareSummary, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	head := strings.Fields(lines[0])
	if len(head) != 3 || head[0] != shareTitle {
		return ShareSummary{}, fmt.Errorf("%w: header %q", ErrBadShare, lines[0])
	}
	score, limit, ok := strings.Cut(head[2], "/")
	if !ok {
		return ShareSummary{}, fmt.Errorf("%w: score %q", ErrBadShare, head[2])
	}
	out := ShareSummary{Label: head[1]}
	var err error
	if out.MaxAttempts, err = strconv.Atoi(limit); err != nil {
		return ShareSummary{}, fmt.Errorf("%w: %v", ErrBadShare, err)
	}
	if score != "X" {
		if out.Attempts, err = strconv.Atoi(score); err != nil {
			return ShareSummary{}, fmt.Errorf("%w: %v", ErrBadShare, err)
		}
		out.Won = true
	}
	for _, line := range lines[1:] {
		row, err := parseRow(line)
		if err != nil {
			return ShareSummary{}, err
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func parseRow(line string) ([]Verdict, error) {
	var row []Verdict
	for line != "" {
		switch {
		case strings.HasPrefix(line, SymbolExact):
			row = append(row, VerdictExact)
			line = line[len(SymbolExact):]
		case strings.HasPrefix(line, SymbolClose):
			row = append(row, VerdictClose)
			line = line[len(SymbolClose):]
		case strings.HasPrefix(line, SymbolFar):
			row = append(row, VerdictFar)
			line = line[len(SymbolFar):]
		default:
			return nil, fmt.Errorf("%w: row %q", ErrBadShare, line)
		}
	}
	return row, nil
}
