package hand

import (
	"fmt"
	"strings"

	"voyager.com/handrecorder/poker"
)

type Move string

const (
	Fold  Move = "fold"
	Check Move = "check"
	Call  Move = "call"
	Bet   Move = "bet"
	Raise Move = "raise"
	AllIn Move = "all-in"
)

var Moves = []Move{Fold, Check, Call, Bet, Raise, AllIn}

func (m Move) Valid() bool {
	for _, v := range Moves {
		if v == m {
			return true
		}
	}
	return false
}

// Commits is true for moves that put chips in the pot.
func (m Move) Commits() bool {
	return m == Call || m == Bet || m == Raise || m == AllIn
}

// Aggressive is true for moves that every other live seat must answer.
func (m Move) Aggressive() bool {
	return m == Bet || m == Raise || m == AllIn
}

// ParseMove accepts the move names in any case, plus "allin" and "all_in".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "allin", "all_in":
		return AllIn, nil
	}
	m := Move(s)
	if !m.Valid() {
		return "", fmt.Errorf("Invalid move [%s]", s)
	}
	return m, nil
}

// Decision is a later response by the same seat within the same round.
type Decision struct {
	Move    Move    `json:"move"`
	Amount  float64 `json:"amount"`
	Pending bool    `json:"pending,omitempty"`
}

// Action is the primary record of one seat in one round.
type Action struct {
	ID        string       `json:"id"`
	LineageID string       `json:"lineageId"`
	Round     Round        `json:"round"`
	Position  Position     `json:"position"`
	Stack     float64      `json:"stack"`
	Move      Move         `json:"move"`
	Amount    float64      `json:"amount"`
	IsHero    bool         `json:"isHero"`
	HeroCards []poker.Card `json:"heroCards,omitempty"`
	Decisions []Decision   `json:"decisions,omitempty"`
	// Pending is set on records the engine created until the user records a move or amount.
	Pending bool `json:"pending,omitempty"`
}

// committed sums the chips put in by the first n entries of the action, where entry 0
// is the primary move and entry i is decision i-1.
func (a *Action) committed(n int) float64 {
	total := 0.0
	if n <= 0 {
		return total
	}
	if a.Move.Commits() {
		total += a.Amount
	}
	for i := 0; i < n-1 && i < len(a.Decisions); i++ {
		if a.Decisions[i].Move.Commits() {
			total += a.Decisions[i].Amount
		}
	}
	return total
}

// Committed is everything the seat put in during the round.
func (a *Action) Committed() float64 {
	return a.committed(len(a.Decisions) + 1)
}

// FinalMove is the move of the last decision, or the primary move when there is none.
func (a *Action) FinalMove() Move {
	if n := len(a.Decisions); n > 0 {
		return a.Decisions[n-1].Move
	}
	return a.Move
}

// Folded reports whether the seat's final move in the round is fold.
func (a *Action) Folded() bool {
	return a.FinalMove() == Fold
}

// recordedFold is Folded restricted to moves the user actually entered.
func (a *Action) recordedFold() bool {
	if n := len(a.Decisions); n > 0 {
		d := a.Decisions[n-1]
		return d.Move == Fold && !d.Pending
	}
	return a.Move == Fold && !a.Pending
}

// recordedAllIn reports whether the final entry the seat made in the round is an all-in
// the user entered, whatever the amount.
func (a *Action) recordedAllIn() bool {
	if n := len(a.Decisions); n > 0 {
		d := a.Decisions[n-1]
		return d.Move == AllIn && !d.Pending
	}
	return a.Move == AllIn && !a.Pending
}

func (a *Action) clone() *Action {
	c := *a
	if a.HeroCards != nil {
		c.HeroCards = append([]poker.Card(nil), a.HeroCards...)
	}
	if a.Decisions != nil {
		c.Decisions = append([]Decision(nil), a.Decisions...)
	}
	return &c
}

// ActionChange lists the fields to change on an action. Nil fields are left alone.
type ActionChange struct {
	Position  *Position
	Stack     *float64
	Move      *Move
	Amount    *float64
	IsHero    *bool
	HeroCards *[]string
}

func (c ActionChange) WithPosition(p Position) ActionChange {
	c.Position = &p
	return c
}

func (c ActionChange) WithStack(v float64) ActionChange {
	c.Stack = &v
	return c
}

func (c ActionChange) WithMove(m Move) ActionChange {
	c.Move = &m
	return c
}

func (c ActionChange) WithAmount(v float64) ActionChange {
	c.Amount = &v
	return c
}

func (c ActionChange) WithHero(isHero bool) ActionChange {
	c.IsHero = &isHero
	return c
}

func (c ActionChange) WithHeroCards(cards ...string) ActionChange {
	c.HeroCards = &cards
	return c
}

func (c ActionChange) empty() bool {
	return c.Position == nil && c.Stack == nil && c.Move == nil && c.Amount == nil &&
		c.IsHero == nil && c.HeroCards == nil
}

// DecisionChange lists the fields to change on a decision. Nil fields are left alone.
type DecisionChange struct {
	Move   *Move
	Amount *float64
}

func (c DecisionChange) WithMove(m Move) DecisionChange {
	c.Move = &m
	return c
}

func (c DecisionChange) WithAmount(v float64) DecisionChange {
	c.Amount = &v
	return c
}

func (c DecisionChange) empty() bool {
	return c.Move == nil && c.Amount == nil
}
