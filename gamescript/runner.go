package gamescript

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"voyager.com/handrecorder/hand"
	"voyager.com/handrecorder/logging"
	"voyager.com/handrecorder/recorder"
	"voyager.com/handrecorder/util"
)

// HandResult is the outcome of replaying one hand of a script.
type HandResult struct {
	Num      uint32
	HandID   string
	Ledger   *hand.Ledger
	Failures []error
}

// Runner replays hand scripts against a recorder and verifies the results.
type Runner struct {
	cfg    recorder.Config
	logger *zerolog.Logger
}

func NewRunner(cfg recorder.Config, logger *zerolog.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run replays every hand of the script. The returned error is set when a hand could not
// be replayed at all; verification failures are reported in the results.
func (r *Runner) Run(name string, script *Script) ([]*HandResult, error) {
	cfg := r.cfg
	if script.Config.StartingStack != nil {
		cfg.Hand.StartingStack = *script.Config.StartingStack
	}
	if script.Config.ChipUnit != "" {
		unit, err := util.ParseChipUnit(script.Config.ChipUnit)
		if err != nil {
			return nil, err
		}
		cfg.Hand.Unit = unit
	}
	if cfg.MaxOpenHands < len(script.Hands) {
		cfg.MaxOpenHands = len(script.Hands)
	}
	rec, err := recorder.New(cfg, r.logger)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With().Str(logging.ScriptKey, name).Logger()
	results := make([]*HandResult, 0, len(script.Hands))
	for i := range script.Hands {
		h := &script.Hands[i]
		logger.Info().Uint32("hand", h.Num).Msg("Replaying hand")
		result, err := r.runHand(rec, name, h)
		if err != nil {
			return results, errors.Wrapf(err, "Hand %d", h.Num)
		}
		results = append(results, result)
		if len(result.Failures) > 0 {
			logger.Info().Uint32("hand", h.Num).Int("failures", len(result.Failures)).Msg("Hand failed verification")
		}
	}
	return results, nil
}

type handRun struct {
	rec     *recorder.Recorder
	handID  string
	h       *Hand
	result  *HandResult
	heroSet bool
}

func (r *Runner) runHand(rec *recorder.Recorder, name string, h *Hand) (*HandResult, error) {
	handID, err := rec.OpenHand(fmt.Sprintf("%s#%d", name, h.Num))
	if err != nil {
		return nil, err
	}
	run := &handRun{
		rec:    rec,
		handID: handID,
		h:      h,
		result: &HandResult{Num: h.Num, HandID: handID, Failures: make([]error, 0)},
	}
	for _, round := range hand.Rounds {
		if err := run.runRound(round, h.Round(round)); err != nil {
			return nil, errors.Wrapf(err, "%s", round)
		}
	}
	l, err := rec.Ledger(handID)
	if err != nil {
		return nil, err
	}
	run.verifyHand(l)
	run.result.Ledger = l
	return run.result, nil
}

func (h *handRun) fail(format string, args ...interface{}) {
	prefix := fmt.Sprintf("Hand %d: ", h.h.Num)
	h.result.Failures = append(h.result.Failures, fmt.Errorf(prefix+format, args...))
}

func (h *handRun) apply(m hand.Mutation) (*hand.Ledger, error) {
	l, _, err := h.rec.Apply(h.handID, m)
	return l, err
}

func (h *handRun) runRound(round hand.Round, br *BettingRound) error {
	occurrences := make(map[hand.Position]int)
	for i, sa := range br.SeatActions {
		pos, err := hand.ParsePosition(sa.Action.Position)
		if err != nil {
			return err
		}
		move, err := hand.ParseMove(sa.Action.Move)
		if err != nil {
			return err
		}
		n := occurrences[pos]
		occurrences[pos]++

		var l *hand.Ledger
		if n == 0 {
			l, err = h.recordPrimary(round, pos, move, sa.Action.Amount)
		} else {
			l, err = h.recordDecision(round, pos, n-1, move, sa.Action.Amount)
		}
		if err != nil {
			return errors.Wrapf(err, "seat action %d [%s]", i+1, sa.Action)
		}
		if sa.Verify != nil {
			h.verifyAction(l, round, pos, n-1, sa)
		}
	}

	for _, p := range br.Remove {
		pos, err := hand.ParsePosition(p)
		if err != nil {
			return err
		}
		l, err := h.rec.Ledger(h.handID)
		if err != nil {
			return err
		}
		a, ok := l.ActionAt(pos, round)
		if !ok {
			return fmt.Errorf("No action for %s to remove", pos)
		}
		if _, err := h.apply(hand.RemoveAction{ID: a.ID}); err != nil {
			return err
		}
	}

	l, err := h.rec.Ledger(h.handID)
	if err != nil {
		return err
	}
	h.verifyRound(l, round, &br.Verify)
	return nil
}

// recordPrimary records the first move of the seat in the round. A carried placeholder is
// reused when the seat already has a record there.
func (h *handRun) recordPrimary(round hand.Round, pos hand.Position, move hand.Move, amount *float64) (*hand.Ledger, error) {
	l, err := h.rec.Ledger(h.handID)
	if err != nil {
		return nil, err
	}
	change := hand.ActionChange{}.WithMove(move)
	if amount != nil {
		change = change.WithAmount(*amount)
	}

	var id string
	if a, ok := l.ActionAt(pos, round); ok {
		id = a.ID
		if _, err = h.apply(hand.UpdateAction{ID: id, Change: change}); err != nil {
			return nil, err
		}
	} else {
		id, err = h.rec.AddAction(h.handID, round, change.WithPosition(pos))
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("Position %s is not available", pos)
		}
	}

	if !h.heroSet && h.h.Hero != "" {
		hero, _ := hand.ParsePosition(h.h.Hero)
		if hero == pos {
			change := hand.ActionChange{}.WithHero(true).WithHeroCards(h.h.HeroCards...)
			if _, err := h.apply(hand.UpdateAction{ID: id, Change: change}); err != nil {
				return nil, err
			}
			h.heroSet = true
		}
	}
	return h.rec.Ledger(h.handID)
}

// recordDecision records decision k of the seat. A propagated placeholder is reused when
// the seat already holds decision k.
func (h *handRun) recordDecision(round hand.Round, pos hand.Position, k int, move hand.Move, amount *float64) (*hand.Ledger, error) {
	l, err := h.rec.Ledger(h.handID)
	if err != nil {
		return nil, err
	}
	a, ok := l.ActionAt(pos, round)
	if !ok {
		return nil, fmt.Errorf("No action for %s", pos)
	}
	change := hand.DecisionChange{}.WithMove(move)
	if amount != nil {
		change = change.WithAmount(*amount)
	}
	switch {
	case k < len(a.Decisions):
		return h.apply(hand.UpdateDecision{ActionID: a.ID, Index: k, Change: change})
	case k == len(a.Decisions):
		return h.apply(hand.AddDecision{ActionID: a.ID, Change: change})
	}
	return nil, fmt.Errorf("%s has %d decisions. Cannot record decision %d", pos, len(a.Decisions), k)
}

// verifyAction checks the entry the seat action produced. k is -1 for the primary move.
func (h *handRun) verifyAction(l *hand.Ledger, round hand.Round, pos hand.Position, k int, sa SeatAction) {
	a, ok := l.ActionAt(pos, round)
	if !ok {
		h.fail("%s [%s]: action was not found after it was recorded", round, sa.Action)
		return
	}
	amount := a.Amount
	if k >= 0 && k < len(a.Decisions) {
		amount = a.Decisions[k].Amount
	}
	if sa.Verify.Amount != nil && !util.NearlyEqual(amount, *sa.Verify.Amount) {
		h.fail("%s [%s]: amount expected %v actual %v", round, sa.Action, *sa.Verify.Amount, amount)
	}
	if sa.Verify.Stack != nil && !util.NearlyEqual(a.Stack, *sa.Verify.Stack) {
		h.fail("%s [%s]: stack expected %v actual %v", round, sa.Action, *sa.Verify.Stack, a.Stack)
	}
}

func (h *handRun) verifyRound(l *hand.Ledger, round hand.Round, v *BettingRoundVerification) {
	for _, p := range sortedKeys(v.Stacks) {
		pos, _ := hand.ParsePosition(p)
		expected := v.Stacks[p]
		if actual := l.StackAfter(pos, round); !util.NearlyEqual(actual, expected) {
			h.fail("%s: %s stack expected %v actual %v", round, pos, expected, actual)
		}
	}
	if v.Excluded != nil {
		expected := parsePositions(v.Excluded)
		if actual := l.ExcludedPositions(round); !samePositions(expected, actual) {
			h.fail("%s: excluded expected %v actual %v", round, expected, actual)
		}
	}
	if v.AllIn != nil {
		expected := parsePositions(v.AllIn)
		actual := make([]hand.Position, 0)
		for _, pos := range hand.Positions {
			if l.IsAllIn(pos, round) {
				actual = append(actual, pos)
			}
		}
		if !samePositions(expected, actual) {
			h.fail("%s: all-in expected %v actual %v", round, expected, actual)
		}
	}
	if v.Available != nil {
		expected := parsePositions(v.Available)
		if actual := l.AvailablePositions(round, ""); !samePositions(expected, actual) {
			h.fail("%s: available expected %v actual %v", round, expected, actual)
		}
	}
	decisionKeys := make([]string, 0, len(v.Decisions))
	for p := range v.Decisions {
		decisionKeys = append(decisionKeys, p)
	}
	sort.Strings(decisionKeys)
	for _, p := range decisionKeys {
		pos, _ := hand.ParsePosition(p)
		actual := 0
		if a, ok := l.ActionAt(pos, round); ok {
			actual = len(a.Decisions)
		}
		if expected := v.Decisions[p]; actual != expected {
			h.fail("%s: %s decisions expected %d actual %d", round, pos, expected, actual)
		}
	}
	if v.Pot != nil {
		if actual := l.Pot(round); !util.NearlyEqual(actual, *v.Pot) {
			h.fail("%s: pot expected %v actual %v", round, *v.Pot, actual)
		}
	}
}

func (h *handRun) verifyHand(l *hand.Ledger) {
	v := h.h.Verify
	if v.TotalPot != nil {
		if actual := l.TotalPot(); !util.NearlyEqual(actual, *v.TotalPot) {
			h.fail("total pot expected %v actual %v", *v.TotalPot, actual)
		}
	}
	if v.Actions != nil && l.Len() != *v.Actions {
		h.fail("actions expected %d actual %d", *v.Actions, l.Len())
	}
}

// samePositions compares position lists ignoring order.
func samePositions(expected []hand.Position, actual []hand.Position) bool {
	if len(expected) != len(actual) {
		return false
	}
	sort.Slice(expected, func(i, j int) bool { return expected[i].Index() < expected[j].Index() })
	for i := range expected {
		if expected[i] != actual[i] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
