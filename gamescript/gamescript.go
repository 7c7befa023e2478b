package gamescript

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"voyager.com/handrecorder/hand"
	"voyager.com/handrecorder/poker"
	"voyager.com/handrecorder/util"
)

// Script contains hand script YAML content.
type Script struct {
	Disabled bool         `yaml:"disabled"`
	Config   ScriptConfig `yaml:"config"`
	Hands    []Hand       `yaml:"hands"`
}

// ScriptConfig overrides the recorder settings for every hand in the script.
type ScriptConfig struct {
	StartingStack *float64 `yaml:"starting-stack"`
	ChipUnit      string   `yaml:"chip-unit"`
}

// Hand contains an entry in the hands array in the hand script.
type Hand struct {
	Num       uint32           `yaml:"num"`
	Hero      string           `yaml:"hero"`
	HeroCards []string         `yaml:"hero-cards"`
	Preflop   BettingRound     `yaml:"preflop"`
	Flop      BettingRound     `yaml:"flop"`
	Turn      BettingRound     `yaml:"turn"`
	River     BettingRound     `yaml:"river"`
	Verify    HandVerification `yaml:"verify"`
}

// Round returns the betting round block of the hand.
func (h *Hand) Round(r hand.Round) *BettingRound {
	switch r {
	case hand.Flop:
		return &h.Flop
	case hand.Turn:
		return &h.Turn
	case hand.River:
		return &h.River
	}
	return &h.Preflop
}

type BettingRound struct {
	SeatActions []SeatAction             `yaml:"seat-actions"`
	Remove      []string                 `yaml:"remove"`
	Verify      BettingRoundVerification `yaml:"verify"`
}

type SeatAction struct {
	Action Action        `yaml:"action"`
	Verify *VerifyAction `yaml:"verify"`
}

type Action struct {
	Position string
	Move     string
	Amount   *float64
}

// Custom unmarshaller for action expression.
// BTN, FOLD
// UTG+1, RAISE, 10
func (a *Action) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	var err error
	err = unmarshal(&v)
	if err != nil {
		return err
	}

	actionExpr, ok := v.(string)
	if !ok {
		return fmt.Errorf("Cannot parse action expression [%v] as string", v)
	}
	tokens := strings.Split(actionExpr, ",")
	if len(tokens) != 2 && len(tokens) != 3 {
		return fmt.Errorf("Invalid action expression string [%v]. Need 2 or 3 comma-separated tokens", v)
	}

	// Parse amount token
	if len(tokens) == 3 {
		trimmed := strings.Trim(tokens[2], " ")
		amount, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return errors.Wrapf(err, "Cannot convert third token [%s] to amount", trimmed)
		}
		a.Amount = &amount
	}
	a.Position = strings.Trim(tokens[0], " ")
	a.Move = strings.Trim(tokens[1], " ")
	return nil
}

func (a Action) String() string {
	if a.Amount == nil {
		return fmt.Sprintf("%s, %s", a.Position, a.Move)
	}
	return fmt.Sprintf("%s, %s, %v", a.Position, a.Move, *a.Amount)
}

// VerifyAction checks the record right after the seat action is applied.
type VerifyAction struct {
	Amount *float64 `yaml:"amount"`
	Stack  *float64 `yaml:"stack"`
}

// BettingRoundVerification checks a round after its seat actions and removals.
// Stacks maps a position to its stack at the end of the round and Decisions maps a
// position to the number of decisions it holds in the round.
type BettingRoundVerification struct {
	Stacks    map[string]float64 `yaml:"stacks"`
	Excluded  []string           `yaml:"excluded"`
	AllIn     []string           `yaml:"all-in"`
	Available []string           `yaml:"available"`
	Decisions map[string]int     `yaml:"decisions"`
	Pot       *float64           `yaml:"pot"`
}

type HandVerification struct {
	TotalPot *float64 `yaml:"total-pot"`
	Actions  *int     `yaml:"actions"`
}

// ReadHandScript reads hand script yaml file.
func ReadHandScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading hand script file [%s]", fileName)
	}
	script, err := ParseHandScript(bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "Error loading hand script [%s]", fileName)
	}
	return script, nil
}

func ParseHandScript(data []byte) (*Script, error) {
	var script Script
	err := yaml.Unmarshal(data, &script)
	if err != nil {
		return nil, errors.Wrap(err, "Error parsing YAML")
	}
	err = script.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Error validating script")
	}
	return &script, nil
}

func (s *Script) Validate() error {
	if s.Config.ChipUnit != "" {
		if _, err := util.ParseChipUnit(s.Config.ChipUnit); err != nil {
			return err
		}
	}
	if s.Config.StartingStack != nil && *s.Config.StartingStack < 0 {
		return fmt.Errorf("Invalid starting-stack [%v]", *s.Config.StartingStack)
	}

	handNums := mapset.NewSet()
	for i := range s.Hands {
		h := &s.Hands[i]
		if h.Num == 0 {
			h.Num = uint32(i + 1)
		}
		if handNums.Contains(h.Num) {
			return fmt.Errorf("Duplicate hand number [%d]", h.Num)
		}
		handNums.Add(h.Num)
		if err := h.validate(); err != nil {
			return errors.Wrapf(err, "Hand %d", h.Num)
		}
	}
	return nil
}

func (h *Hand) validate() error {
	if h.Hero != "" {
		if _, err := hand.ParsePosition(h.Hero); err != nil {
			return errors.Wrap(err, "hero")
		}
	}
	if len(h.HeroCards) > poker.MaxHoleCards {
		return fmt.Errorf("Hero has %d cards. At most %d are allowed", len(h.HeroCards), poker.MaxHoleCards)
	}
	heroCards := mapset.NewSet()
	for _, c := range h.HeroCards {
		card, err := poker.ParseCard(c)
		if err != nil {
			return errors.Wrap(err, "hero-cards")
		}
		if heroCards.Contains(card) {
			return fmt.Errorf("Duplicate hero card [%s]", card)
		}
		heroCards.Add(card)
	}

	for _, r := range hand.Rounds {
		if err := h.Round(r).validate(); err != nil {
			return errors.Wrapf(err, "%s", r)
		}
	}
	return nil
}

func (b *BettingRound) validate() error {
	for i, sa := range b.SeatActions {
		if _, err := hand.ParsePosition(sa.Action.Position); err != nil {
			return errors.Wrapf(err, "seat action %d", i+1)
		}
		if _, err := hand.ParseMove(sa.Action.Move); err != nil {
			return errors.Wrapf(err, "seat action %d", i+1)
		}
	}

	removed := mapset.NewSet()
	for _, p := range b.Remove {
		pos, err := hand.ParsePosition(p)
		if err != nil {
			return errors.Wrap(err, "remove")
		}
		if removed.Contains(pos) {
			return fmt.Errorf("Duplicate position [%s] in remove", pos)
		}
		removed.Add(pos)
	}

	positions := make([]string, 0)
	positions = append(positions, b.Verify.Excluded...)
	positions = append(positions, b.Verify.AllIn...)
	positions = append(positions, b.Verify.Available...)
	for p := range b.Verify.Stacks {
		positions = append(positions, p)
	}
	for p := range b.Verify.Decisions {
		positions = append(positions, p)
	}
	for _, p := range positions {
		if _, err := hand.ParsePosition(p); err != nil {
			return errors.Wrap(err, "verify")
		}
	}
	return nil
}

func parsePositions(positions []string) []hand.Position {
	out := make([]hand.Position, 0, len(positions))
	for _, p := range positions {
		pos, err := hand.ParsePosition(p)
		if err != nil {
			continue
		}
		out = append(out, pos)
	}
	return out
}
