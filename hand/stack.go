package hand

import "voyager.com/handrecorder/util"

// EndingStack is the stack left after everything the action and its decisions committed.
func (l *Ledger) EndingStack(a Action) float64 {
	return l.endingStack(&a)
}

func (l *Ledger) endingStack(a *Action) float64 {
	return l.normalize(a.Stack - a.Committed())
}

// StackAfter returns the stack the position holds at the end of round. It walks back from
// round to the first round and uses the first record it finds for the position; with no
// record at all the configured starting stack is returned. Nothing is cached, so the value
// always reflects the current snapshot.
func (l *Ledger) StackAfter(pos Position, round Round) float64 {
	if !round.Valid() {
		return l.cfg.StartingStack
	}
	for r := round; r >= Preflop; r-- {
		if a := l.record(pos, r); a != nil {
			return l.endingStack(a)
		}
	}
	return l.cfg.StartingStack
}

// stackEntering is the stack a seat brings into round.
func (l *Ledger) stackEntering(pos Position, round Round) float64 {
	prev, ok := round.Prev()
	if !ok {
		return l.cfg.StartingStack
	}
	return l.StackAfter(pos, prev)
}

// IsAllIn reports whether the position entered round with nothing left behind.
// It is always false for preflop.
func (l *Ledger) IsAllIn(pos Position, round Round) bool {
	prev, ok := round.Prev()
	if !ok {
		return false
	}
	return util.NearlyEqual(l.StackAfter(pos, prev), 0)
}

// allInDuring is true when the seat went all-in in the action's round: the user recorded
// an all-in as its final move, or its recorded moves used up the whole stack.
func (l *Ledger) allInDuring(a *Action) bool {
	if a.recordedAllIn() {
		return true
	}
	return !a.Pending && util.GreaterOrNearlyEqual(a.Committed(), a.Stack)
}
