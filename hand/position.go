package hand

import (
	"fmt"
	"strings"
)

// Position is a table seat label. Positions identify seats; they own no state.
type Position string

const (
	UTG  Position = "UTG"
	UTG1 Position = "UTG+1"
	UTG2 Position = "UTG+2"
	MP   Position = "MP"
	MP1  Position = "MP+1"
	CO   Position = "CO"
	BTN  Position = "BTN"
	SB   Position = "SB"
	BB   Position = "BB"
)

// Positions is the seat catalog in table order.
var Positions = []Position{UTG, UTG1, UTG2, MP, MP1, CO, BTN, SB, BB}

func (p Position) Index() int {
	for i, pos := range Positions {
		if pos == p {
			return i
		}
	}
	return -1
}

func (p Position) Valid() bool {
	return p.Index() >= 0
}

func ParsePosition(s string) (Position, error) {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	for _, pos := range Positions {
		if string(pos) == s {
			return pos, nil
		}
	}
	return "", fmt.Errorf("Invalid position [%s]", s)
}

// AvailablePositions returns, in catalog order, every position not assigned to another
// action in the round. The action excludingID keeps its own slot.
func (l *Ledger) AvailablePositions(round Round, excludingID string) []Position {
	out := make([]Position, 0, len(Positions))
	for _, pos := range Positions {
		if l.positionAvailable(pos, round, excludingID) {
			out = append(out, pos)
		}
	}
	return out
}

func (l *Ledger) positionAvailable(pos Position, round Round, excludingID string) bool {
	for _, a := range l.actions {
		if a.Round == round && a.Position == pos && a.ID != excludingID {
			return false
		}
	}
	return true
}
