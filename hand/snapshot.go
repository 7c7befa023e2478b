package hand

import (
	jsoniter "github.com/json-iterator/go"
	"voyager.com/handrecorder/poker"
	"voyager.com/handrecorder/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RoundSnapshot is the read model of one round.
type RoundSnapshot struct {
	Round     Round      `json:"round"`
	Actions   []Action   `json:"actions"`
	Excluded  []Position `json:"excluded"`
	Available []Position `json:"available"`
	Pot       float64    `json:"pot"`
}

// Snapshot is the read model of a whole hand.
type Snapshot struct {
	Unit          util.ChipUnit   `json:"unit"`
	StartingStack float64         `json:"startingStack"`
	Hero          Position        `json:"hero,omitempty"`
	HeroCards     []poker.Card    `json:"heroCards,omitempty"`
	Rounds        []RoundSnapshot `json:"rounds"`
	TotalPot      float64         `json:"totalPot"`
}

func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		Unit:          l.cfg.Unit,
		StartingStack: l.cfg.StartingStack,
		Rounds:        make([]RoundSnapshot, 0, len(Rounds)),
		TotalPot:      l.TotalPot(),
	}
	if hero, ok := l.Hero(); ok {
		s.Hero = hero
		s.HeroCards = l.HeroCards()
	}
	for _, r := range Rounds {
		s.Rounds = append(s.Rounds, RoundSnapshot{
			Round:     r,
			Actions:   l.ActionsInRound(r),
			Excluded:  l.ExcludedPositions(r),
			Available: l.AvailablePositions(r, ""),
			Pot:       l.Pot(r),
		})
	}
	return s
}

// ExportJSON renders the snapshot of the ledger as indented JSON.
func (l *Ledger) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(l.Snapshot(), "", "  ")
}
