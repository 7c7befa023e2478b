package hand

// terminal is true when the seat has no further rounds after this record: the user
// recorded a fold, or the seat committed its whole stack.
func (l *Ledger) terminal(a *Action) bool {
	return a.recordedFold() || l.allInDuring(a)
}

// reconcileSeat walks the seat forward from the given round. Later records get their
// stack recomputed from the previous round; a missing round is filled with a pending
// placeholder; after a terminal record every later record of the seat is dropped.
// Rounds before from are never touched.
func (l *Ledger) reconcileSeat(pos Position, from Round) {
	cur := l.record(pos, from)
	if cur == nil {
		return
	}
	for r := from + 1; r <= River; r++ {
		if l.terminal(cur) {
			l.removeSeatAfter(pos, cur.Round)
			return
		}
		next := l.record(pos, r)
		if next == nil {
			next = l.placeholder(cur, r)
			l.insert(next)
		} else {
			next.Stack = l.StackAfter(pos, r-1)
		}
		cur = next
	}
}

func (l *Ledger) placeholder(prev *Action, round Round) *Action {
	p := &Action{
		ID:        l.cfg.NewID(),
		LineageID: prev.LineageID,
		Round:     round,
		Position:  prev.Position,
		Stack:     l.StackAfter(prev.Position, round-1),
		Move:      Fold,
		IsHero:    prev.IsHero,
		Pending:   true,
	}
	if prev.HeroCards != nil {
		p.HeroCards = append(p.HeroCards, prev.HeroCards...)
	}
	return p
}

func (l *Ledger) removeSeatAfter(pos Position, round Round) int {
	return l.removeWhere(func(a *Action) bool {
		return a.Position == pos && a.Round > round
	})
}

func (l *Ledger) removeLineageAfter(lineageID string, round Round) int {
	return l.removeWhere(func(a *Action) bool {
		return a.LineageID == lineageID && a.Round > round
	})
}
