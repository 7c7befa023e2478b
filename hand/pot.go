package hand

// Pot is the sum of everything committed in the round.
func (l *Ledger) Pot(round Round) float64 {
	total := 0.0
	for _, a := range l.inRound(round) {
		total += a.Committed()
	}
	return l.normalize(total)
}

// TotalPot is the sum of every round's pot.
func (l *Ledger) TotalPot() float64 {
	total := 0.0
	for _, r := range Rounds {
		total += l.Pot(r)
	}
	return l.normalize(total)
}
