package poker

import (
	"fmt"
	"strings"

	ph "github.com/paulhankin/poker"
	"github.com/pkg/errors"
)

// MaxHoleCards is the number of private cards a hold'em seat receives.
const MaxHoleCards = 2

var (
	strRanks          = "23456789TJQKA"
	charSuitToLibSuit = map[uint8]ph.Suit{
		's': ph.Spade,
		'h': ph.Heart,
		'd': ph.Diamond,
		'c': ph.Club,
	}
	libSuitToChar = map[ph.Suit]uint8{
		ph.Spade:   's',
		ph.Heart:   'h',
		ph.Diamond: 'd',
		ph.Club:    'c',
	}
	prettySuits = map[uint8]string{
		's': "♠",
		'h': "❤",
		'd': "♦",
		'c': "♣",
	}
)

// Card is a validated card in its two character form, e.g. "As" or "Td".
type Card string

// ParseLibCard parses "As", "aS", "10h" and similar spellings into the evaluator's card.
func ParseLibCard(s string) (ph.Card, error) {
	s = strings.TrimSpace(s)
	if len(s) == 3 && strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("Invalid card [%s]", s)
	}
	rankChar := strings.ToUpper(s[:1])[0]
	suitChar := strings.ToLower(s[1:])[0]

	rankIdx := strings.IndexByte(strRanks, rankChar)
	if rankIdx < 0 {
		return 0, fmt.Errorf("Invalid rank in card [%s]", s)
	}
	suit, ok := charSuitToLibSuit[suitChar]
	if !ok {
		return 0, fmt.Errorf("Invalid suit in card [%s]", s)
	}

	// The library counts the ace as rank 1 and the king as 13.
	rank := ph.Rank(rankIdx + 2)
	if rankChar == 'A' {
		rank = ph.Rank(1)
	}
	card, err := ph.MakeCard(suit, rank)
	if err != nil {
		return 0, errors.Wrapf(err, "Cannot make card from [%s]", s)
	}
	return card, nil
}

// FromLibCard renders the evaluator's card in the two character form.
func FromLibCard(c ph.Card) Card {
	rank := c.Rank()
	rankChar := strRanks[len(strRanks)-1]
	if rank != 1 {
		rankChar = strRanks[int(rank)-2]
	}
	return Card([]byte{rankChar, libSuitToChar[c.Suit()]})
}

// ParseCard accepts "As", "aS", "10h" and similar spellings and returns the canonical form.
func ParseCard(s string) (Card, error) {
	card, err := ParseLibCard(s)
	if err != nil {
		return "", err
	}
	return FromLibCard(card), nil
}

// Lib returns the evaluator's card for c.
func (c Card) Lib() (ph.Card, error) {
	return ParseLibCard(string(c))
}

func (c Card) String() string {
	return string(c)
}

// Pretty renders the card with a suit symbol.
func (c Card) Pretty() string {
	if len(c) != 2 {
		return string(c)
	}
	return string(c[0]) + prettySuits[c[1]]
}

// NormalizeHoleCards parses the given cards, dropping invalid and duplicate entries,
// and keeps at most MaxHoleCards of them.
func NormalizeHoleCards(cards []string) []Card {
	out := make([]Card, 0, MaxHoleCards)
	seen := make(map[ph.Card]bool, MaxHoleCards)
	for _, s := range cards {
		if len(out) == MaxHoleCards {
			break
		}
		card, err := ParseLibCard(s)
		if err != nil || seen[card] {
			continue
		}
		seen[card] = true
		out = append(out, FromLibCard(card))
	}
	return out
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(16)
	fmt.Fprintf(&b, "[")
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintf(&b, " ")
		}
		fmt.Fprintf(&b, "%s", c.Pretty())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
