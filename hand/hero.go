package hand

import "voyager.com/handrecorder/poker"

// Hero returns the tracked hero seat, if any.
func (l *Ledger) Hero() (Position, bool) {
	for _, a := range l.actions {
		if a.IsHero {
			return a.Position, true
		}
	}
	return "", false
}

// HeroCards returns the hero's private cards.
func (l *Ledger) HeroCards() []poker.Card {
	for _, a := range l.actions {
		if a.IsHero {
			return append([]poker.Card(nil), a.HeroCards...)
		}
	}
	return nil
}

// setHero makes pos the only hero seat and puts the cards on every record of it.
func (l *Ledger) setHero(pos Position, cards []poker.Card) {
	for _, a := range l.actions {
		if a.Position == pos {
			a.IsHero = true
			a.HeroCards = append([]poker.Card(nil), cards...)
		} else {
			a.IsHero = false
			a.HeroCards = nil
		}
	}
}

func (l *Ledger) clearHero(pos Position) {
	for _, a := range l.actions {
		if a.Position == pos {
			a.IsHero = false
			a.HeroCards = nil
		}
	}
}

// adoptHero copies the hero state of the action's seat onto the action.
func (l *Ledger) adoptHero(a *Action) {
	a.IsHero = false
	a.HeroCards = nil
	for _, o := range l.actions {
		if o != a && o.Position == a.Position && o.IsHero {
			a.IsHero = true
			a.HeroCards = append([]poker.Card(nil), o.HeroCards...)
			return
		}
	}
}

func (l *Ledger) applyHeroChange(a *Action, change ActionChange) bool {
	var cards []poker.Card
	if change.HeroCards != nil {
		cards = poker.NormalizeHoleCards(*change.HeroCards)
	}
	switch {
	case change.IsHero != nil && *change.IsHero:
		if change.HeroCards == nil {
			cards = a.HeroCards
		}
		l.setHero(a.Position, cards)
		return true
	case change.IsHero != nil:
		l.clearHero(a.Position)
		return true
	case change.HeroCards != nil && a.IsHero:
		l.setHero(a.Position, cards)
		return true
	}
	return false
}
