package hand

import mapset "github.com/deckarep/golang-set"

// ExcludedPositions returns, in catalog order, the seats to hide from round: every seat
// that folded or went all-in in an earlier round and every seat that entered round with
// no chips. Only moves the user entered count; a pending fold placeholder keeps its seat
// visible. The records of excluded seats stay in the ledger.
func (l *Ledger) ExcludedPositions(round Round) []Position {
	excluded := mapset.NewSet()
	for _, a := range l.actions {
		if a.Round < round && (a.recordedFold() || l.allInDuring(a)) {
			excluded.Add(a.Position)
		}
	}
	for _, pos := range Positions {
		if l.IsAllIn(pos, round) {
			excluded.Add(pos)
		}
	}
	out := make([]Position, 0, excluded.Cardinality())
	for _, pos := range Positions {
		if excluded.Contains(pos) {
			out = append(out, pos)
		}
	}
	return out
}

// IsExcluded reports whether pos is hidden from round.
func (l *Ledger) IsExcluded(pos Position, round Round) bool {
	for _, p := range l.ExcludedPositions(round) {
		if p == pos {
			return true
		}
	}
	return false
}

// VisibleActions returns the round's actions without the excluded seats.
func (l *Ledger) VisibleActions(round Round) []Action {
	excluded := mapset.NewSet()
	for _, pos := range l.ExcludedPositions(round) {
		excluded.Add(pos)
	}
	out := make([]Action, 0)
	for _, a := range l.ActionsInRound(round) {
		if !excluded.Contains(a.Position) {
			out = append(out, a)
		}
	}
	return out
}
