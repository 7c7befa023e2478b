package hand

// propagate gives every other live seat in the round a pending fold decision after the
// action made an aggressive move as its primary (k = 0) or as decision k. Seats that have
// not acted yet, seats that already folded, seats that are all-in and seats that already
// hold a decision at index k are left alone.
//
// A seat holding fewer than k decisions gets its placeholder appended as its next decision
// rather than at index k: that entry is the seat's answer to the raise, and padding up to k
// would leave unanswered decisions the seat never faced.
func (l *Ledger) propagate(a *Action, k int) int {
	inserted := 0
	for _, s := range l.inRound(a.Round) {
		if s.ID == a.ID || s.Pending {
			continue
		}
		if s.Folded() || l.allInDuring(s) {
			continue
		}
		if len(s.Decisions) > k {
			continue
		}
		s.Decisions = append(s.Decisions, Decision{Move: Fold, Pending: true})
		inserted++
	}
	return inserted
}
