package hand

import "voyager.com/handrecorder/util"

// Entries of an action are numbered by depth: the primary move is depth 0 and
// decision k is depth k+1.

// owed is the amount the action still needs to put in at the given depth to match the
// largest commitment in its round.
//
// Every seat's entries are lined up by depth. The edited entry answers what the other
// seats have done at the same depth, so their commitment counts every entry up to and
// including that depth, while the action's own commitment counts only its entries before
// the edited one. When UTG opens 10, BTN raises 30 and UTG re-raises to 90 with its first
// decision, BTN's first decision owes 90 + 10 - 30 = 70.
func (l *Ledger) owed(a *Action, depth int) float64 {
	tableMax := 0.0
	for _, o := range l.inRound(a.Round) {
		if o.ID == a.ID {
			continue
		}
		if c := o.committed(depth + 1); util.Greater(c, tableMax) {
			tableMax = c
		}
	}
	return l.normalize(util.NonNegative(tableMax - a.committed(depth)))
}

// allInFill is the remaining stack of the action at the given depth.
func (l *Ledger) allInFill(a *Action, depth int) float64 {
	return l.normalize(util.NonNegative(a.Stack - a.committed(depth)))
}

// CallAmount proposes the amount for a call as the action's primary move.
func (l *Ledger) CallAmount(id string) float64 {
	a := l.find(id)
	if a == nil {
		return 0
	}
	return l.owed(a, 0)
}

// DecisionCallAmount proposes the amount for a call as decision k of the action.
func (l *Ledger) DecisionCallAmount(id string, k int) float64 {
	a := l.find(id)
	if a == nil || k < 0 || k >= len(a.Decisions) {
		return 0
	}
	return l.owed(a, k+1)
}

// AllInAmount proposes the amount for an all-in as the action's primary move.
func (l *Ledger) AllInAmount(id string) float64 {
	a := l.find(id)
	if a == nil {
		return 0
	}
	return l.allInFill(a, 0)
}

// DecisionAllInAmount proposes the amount for an all-in as decision k of the action.
func (l *Ledger) DecisionAllInAmount(id string, k int) float64 {
	a := l.find(id)
	if a == nil || k < 0 || k >= len(a.Decisions) {
		return 0
	}
	return l.allInFill(a, k+1)
}
