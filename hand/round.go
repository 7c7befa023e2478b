package hand

import (
	"fmt"
	"strings"
)

// Round is a betting stage. Rounds are totally ordered: Preflop < Flop < Turn < River.
type Round int

const (
	Preflop Round = iota
	Flop
	Turn
	River
)

// Rounds lists every betting round in order.
var Rounds = []Round{Preflop, Flop, Turn, River}

var roundNames = [...]string{"preflop", "flop", "turn", "river"}

func (r Round) Valid() bool {
	return r >= Preflop && r <= River
}

func (r Round) String() string {
	if !r.Valid() {
		return fmt.Sprintf("round(%d)", int(r))
	}
	return roundNames[r]
}

// Prev returns the round before r. ok is false for the first round.
func (r Round) Prev() (Round, bool) {
	if r <= Preflop || !r.Valid() {
		return Preflop, false
	}
	return r - 1, true
}

// Next returns the round after r. ok is false for the last round.
func (r Round) Next() (Round, bool) {
	if r >= River || !r.Valid() {
		return River, false
	}
	return r + 1, true
}

func ParseRound(s string) (Round, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roundNames {
		if s == name {
			return Round(i), nil
		}
	}
	return Preflop, fmt.Errorf("Invalid round [%s]", s)
}

func (r Round) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("Invalid round [%d]", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Round) UnmarshalText(b []byte) error {
	v, err := ParseRound(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
