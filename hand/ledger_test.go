package hand

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"voyager.com/handrecorder/poker"
	"voyager.com/handrecorder/util"
)

func newTestLedger(unit util.ChipUnit) *Ledger {
	n := 0
	return New(Config{
		StartingStack: 100,
		Unit:          unit,
		NewID: func() string {
			n++
			return fmt.Sprintf("a%d", n)
		},
	})
}

func change() ActionChange {
	return ActionChange{}
}

func addAction(t *testing.T, l *Ledger, round Round, c ActionChange) (*Ledger, string) {
	t.Helper()
	next, id := l.AddAction(round, c)
	require.NotEmpty(t, id, "AddAction did not add an action")
	return next, id
}

func actionAt(t *testing.T, l *Ledger, pos Position, round Round) Action {
	t.Helper()
	a, ok := l.ActionAt(pos, round)
	require.True(t, ok, "no action for %s at %s", pos, round)
	return a
}

func seatRounds(l *Ledger, pos Position) []Round {
	rounds := make([]Round, 0)
	for _, a := range l.Actions() {
		if a.Position == pos {
			rounds = append(rounds, a.Round)
		}
	}
	return rounds
}

// checkInvariants verifies the properties every ledger must hold after any mutation.
func checkInvariants(t *testing.T, l *Ledger) {
	t.Helper()
	seen := make(map[string]bool)
	heroes := make(map[Position]int)
	records := make(map[Position]int)
	for _, a := range l.Actions() {
		key := fmt.Sprintf("%s/%s", a.Position, a.Round)
		assert.False(t, seen[key], "two actions for %s", key)
		seen[key] = true
		records[a.Position]++
		if a.IsHero {
			heroes[a.Position]++
		}
		assert.GreaterOrEqual(t, a.Amount, 0.0)
		if !a.Move.Commits() {
			assert.Equal(t, 0.0, a.Amount, "%s %s carries chips", key, a.Move)
		}
		for _, d := range a.Decisions {
			assert.GreaterOrEqual(t, d.Amount, 0.0)
		}
	}
	assert.LessOrEqual(t, len(heroes), 1, "more than one hero seat")
	for pos, n := range heroes {
		assert.Equal(t, records[pos], n, "hero flag set on a subset of %s", pos)
	}
}

func TestStartingStackWithoutActions(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	for _, r := range Rounds {
		assert.Equal(t, 100.0, l.StackAfter(BTN, r))
		assert.False(t, l.IsAllIn(BTN, r))
	}
	assert.Empty(t, l.ExcludedPositions(River))
	assert.Equal(t, Positions, l.AvailablePositions(Preflop, ""))
}

func TestRaiseThenCall(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, _ = addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l, bb := addAction(t, l, Preflop, change().WithPosition(BB))

	assert.Equal(t, 10.0, l.CallAmount(bb))
	l = l.UpdateAction(bb, change().WithMove(Call))

	a, _ := l.Action(bb)
	assert.Equal(t, 10.0, a.Amount)
	assert.Equal(t, 90.0, l.StackAfter(BB, Preflop))
	assert.Equal(t, 90.0, actionAt(t, l, BB, Flop).Stack)
	assert.Equal(t, 90.0, actionAt(t, l, BTN, Flop).Stack)
	assert.Equal(t, 20.0, l.Pot(Preflop))
	assert.Equal(t, 20.0, l.TotalPot())
	checkInvariants(t, l)
}

func TestAllInExcludedFromLaterRounds(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(AllIn))
	a, _ := l.Action(btn)
	assert.Equal(t, 100.0, a.Amount)

	l, _ = addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Call))
	assert.Equal(t, 0.0, l.StackAfter(BTN, Flop))
	assert.True(t, l.IsAllIn(BTN, Flop))
	assert.False(t, l.IsAllIn(BTN, Preflop))
	assert.Equal(t, []Round{Preflop}, seatRounds(l, BTN))
	assert.Equal(t, []Position{BTN, BB}, l.ExcludedPositions(Flop))
	assert.Empty(t, l.VisibleActions(Flop))
	checkInvariants(t, l)
}

func TestShortAllInEndsSeat(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(AllIn).WithAmount(40))
	a, _ := l.Action(btn)
	assert.Equal(t, 40.0, a.Amount)
	assert.Equal(t, []Round{Preflop}, seatRounds(l, BTN))
	assert.Equal(t, 60.0, l.StackAfter(BTN, Flop))
	assert.False(t, l.IsAllIn(BTN, Flop))
	assert.Equal(t, []Position{BTN}, l.ExcludedPositions(Flop))

	l, _ = addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Raise).WithAmount(60))
	a, _ = l.Action(btn)
	assert.Empty(t, a.Decisions, "an all-in seat gets no answer to a raise")
	assert.Equal(t, []Round{Preflop}, seatRounds(l, BTN))
	checkInvariants(t, l)
}

func TestPendingRecordsDoNotExclude(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, _ = addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l, _ = addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Call))
	for _, r := range Rounds {
		assert.Empty(t, l.ExcludedPositions(r), "round %s", r)
	}

	l, _ = addAction(t, l, Preflop, change().WithPosition(CO))
	assert.False(t, l.IsExcluded(CO, Flop))
	assert.Len(t, l.VisibleActions(Flop), 3)
	checkInvariants(t, l)
}

func TestLateRaiseAppendsNextDecision(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, utg := addAction(t, l, Preflop, change().WithPosition(UTG).WithMove(Call).WithAmount(2))
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l = l.UpdateDecision(utg, 0, DecisionChange{}.WithMove(Raise).WithAmount(30))
	l = l.UpdateDecision(btn, 0, DecisionChange{}.WithMove(Raise).WithAmount(60))
	l, co := addAction(t, l, Preflop, change().WithPosition(CO).WithMove(Call).WithAmount(2))

	l = l.AddDecision(utg, DecisionChange{}.WithMove(Raise).WithAmount(50))
	a, _ := l.Action(utg)
	require.Len(t, a.Decisions, 2)

	a, _ = l.Action(co)
	if diff := cmp.Diff([]Decision{{Move: Fold, Pending: true}}, a.Decisions); diff != "" {
		t.Errorf("CO decisions mismatch (-want +got):\n%s", diff)
	}
	a, _ = l.Action(btn)
	require.Len(t, a.Decisions, 2)
	assert.Equal(t, Decision{Move: Fold, Pending: true}, a.Decisions[1])
	checkInvariants(t, l)
}

func TestRaisePropagatesPendingDecisions(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, utg := addAction(t, l, Preflop, change().WithPosition(UTG).WithMove(Call).WithAmount(2))
	l, co := addAction(t, l, Preflop, change().WithPosition(CO).WithMove(Call).WithAmount(2))
	l = l.AddDecision(co, DecisionChange{}.WithMove(Call).WithAmount(8))
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(8))

	a, _ := l.Action(utg)
	if diff := cmp.Diff([]Decision{{Move: Fold, Pending: true}}, a.Decisions); diff != "" {
		t.Errorf("UTG decisions mismatch (-want +got):\n%s", diff)
	}
	a, _ = l.Action(co)
	if diff := cmp.Diff([]Decision{{Move: Call, Amount: 8}}, a.Decisions); diff != "" {
		t.Errorf("CO decisions mismatch (-want +got):\n%s", diff)
	}
	a, _ = l.Action(btn)
	assert.Empty(t, a.Decisions)

	assert.Equal(t, 8.0, l.DecisionCallAmount(utg, 0))
	checkInvariants(t, l)
}

func TestDecisionRaisePropagates(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, utg := addAction(t, l, Preflop, change().WithPosition(UTG).WithMove(Call).WithAmount(2))
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l = l.UpdateDecision(utg, 0, DecisionChange{}.WithMove(Raise).WithAmount(30))

	a, _ := l.Action(btn)
	require.Len(t, a.Decisions, 1)
	assert.Equal(t, Decision{Move: Fold, Pending: true}, a.Decisions[0])

	assert.Equal(t, 22.0, l.DecisionCallAmount(btn, 0))
	l = l.UpdateDecision(btn, 0, DecisionChange{}.WithMove(Call))
	a, _ = l.Action(btn)
	assert.Equal(t, 22.0, a.Decisions[0].Amount)
	assert.Equal(t, 68.0, actionAt(t, l, BTN, Flop).Stack)
	assert.Equal(t, 68.0, actionAt(t, l, UTG, Flop).Stack)
	checkInvariants(t, l)
}

func TestCallAmountZeroWhenMatched(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Bet).WithAmount(10))
	l, bb := addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Raise).WithAmount(30))
	l = l.UpdateDecision(btn, 0, DecisionChange{}.WithMove(Call).WithAmount(20))
	l = l.AddDecision(bb, DecisionChange{})

	assert.Equal(t, 0.0, l.DecisionCallAmount(bb, 0))
	assert.Equal(t, 0.0, l.DecisionCallAmount(bb, 5))
	assert.Equal(t, 0.0, l.CallAmount("missing"))
	assert.Equal(t, 70.0, l.DecisionAllInAmount(bb, 0))
	checkInvariants(t, l)
}

func TestRemoveActionRemovesCarriedRecords(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l, _ = addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Call))
	require.Equal(t, Rounds, seatRounds(l, BTN))

	l = l.RemoveAction(btn)
	assert.Empty(t, seatRounds(l, BTN))
	assert.Equal(t, Rounds, seatRounds(l, BB))
	assert.Equal(t, 4, l.Len())
}

func TestRemoveLaterRecordKeepsEarlierRounds(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, _ = addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Call).WithAmount(5))
	turn := actionAt(t, l, BTN, Turn)

	l = l.RemoveAction(turn.ID)
	assert.Equal(t, []Round{Preflop, Flop}, seatRounds(l, BTN))
}

func TestFoldPrunesLaterRounds(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, utg := addAction(t, l, Preflop, change().WithPosition(UTG))
	assert.Equal(t, Rounds, seatRounds(l, UTG), "pending placeholders must not prune")

	l = l.UpdateAction(utg, change().WithMove(Fold))
	assert.Equal(t, []Round{Preflop}, seatRounds(l, UTG))
	assert.Equal(t, []Position{UTG}, l.ExcludedPositions(Flop))

	l = l.UpdateAction(utg, change().WithMove(Call).WithAmount(4))
	assert.Equal(t, Rounds, seatRounds(l, UTG))
	assert.Equal(t, 96.0, actionAt(t, l, UTG, River).Stack)
	assert.Empty(t, l.ExcludedPositions(Flop))
	checkInvariants(t, l)
}

func TestFoldAndCheckCarryNoAmount(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Call).WithAmount(10))
	l = l.UpdateAction(btn, change().WithMove(Check))
	a, _ := l.Action(btn)
	assert.Equal(t, 0.0, a.Amount)

	l = l.UpdateAction(btn, change().WithAmount(7))
	a, _ = l.Action(btn)
	assert.Equal(t, 0.0, a.Amount)
}

func TestAtMostOneActionPerPositionAndRound(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	for range Positions {
		l, _ = addAction(t, l, Flop, change().WithPosition(BTN))
	}
	assert.Empty(t, l.AvailablePositions(Flop, ""))

	next, id := l.AddAction(Flop, change())
	assert.Empty(t, id)
	assert.Same(t, l, next)
	checkInvariants(t, l)
}

func TestPositionChange(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l, bb := addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Call))

	l = l.UpdateAction(btn, change().WithPosition(CO))
	assert.Empty(t, seatRounds(l, BTN))
	assert.Equal(t, Rounds, seatRounds(l, CO))
	assert.Equal(t, 90.0, actionAt(t, l, CO, Flop).Stack)
	assert.Equal(t, Rounds, seatRounds(l, BB))

	a, _ := l.Action(btn)
	assert.Equal(t, btn, a.LineageID)
	assert.Equal(t, 100.0, a.Stack)

	same := l.UpdateAction(btn, change().WithPosition(BB))
	assert.Same(t, l, same)
	assert.Equal(t, []Position{UTG, UTG1, UTG2, MP, MP1, BTN, SB}, l.AvailablePositions(Preflop, ""))
	assert.Contains(t, l.AvailablePositions(Preflop, bb), BB)
	checkInvariants(t, l)
}

func TestStackEditRecomputesLaterRounds(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Call).WithAmount(5))
	l = l.UpdateAction(btn, change().WithStack(50))

	assert.Equal(t, 45.0, actionAt(t, l, BTN, Flop).Stack)
	assert.Equal(t, 45.0, actionAt(t, l, BTN, River).Stack)

	flop := actionAt(t, l, BTN, Flop)
	l = l.UpdateAction(flop.ID, change().WithMove(Bet).WithAmount(15))
	assert.Equal(t, 30.0, actionAt(t, l, BTN, Turn).Stack)
	a, _ := l.Action(btn)
	assert.Equal(t, 50.0, a.Stack, "later edits never touch earlier rounds")
}

func TestHeroFlagSharedAcrossSeat(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, _ = addAction(t, l, Preflop, change().WithPosition(BTN).WithHero(true).WithHeroCards("As", "kd"))
	l, _ = addAction(t, l, Preflop, change().WithPosition(BB))
	checkInvariants(t, l)

	hero, ok := l.Hero()
	require.True(t, ok)
	assert.Equal(t, BTN, hero)
	for _, r := range Rounds {
		a := actionAt(t, l, BTN, r)
		assert.True(t, a.IsHero)
		assert.Equal(t, []poker.Card{"As", "Kd"}, a.HeroCards)
	}

	bbFlop := actionAt(t, l, BB, Flop)
	l = l.UpdateAction(bbFlop.ID, change().WithHero(true))
	checkInvariants(t, l)
	hero, _ = l.Hero()
	assert.Equal(t, BB, hero)
	assert.Empty(t, actionAt(t, l, BTN, Preflop).HeroCards)

	bbTurn := actionAt(t, l, BB, Turn)
	l = l.UpdateAction(bbTurn.ID, change().WithHeroCards("qh", "Qc", "2d"))
	for _, r := range Rounds {
		assert.Equal(t, []poker.Card{"Qh", "Qc"}, actionAt(t, l, BB, r).HeroCards)
	}

	btnRiver := actionAt(t, l, BTN, River)
	l = l.UpdateAction(btnRiver.ID, change().WithHeroCards("2c", "2d"))
	assert.False(t, actionAt(t, l, BTN, River).IsHero)
	assert.Empty(t, actionAt(t, l, BTN, River).HeroCards)

	l = l.UpdateAction(bbTurn.ID, change().WithHero(false))
	_, ok = l.Hero()
	assert.False(t, ok)
	checkInvariants(t, l)
}

func TestNewActionInheritsHero(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithHero(true).WithHeroCards("Ah", "Ad"))
	l = l.UpdateAction(btn, change().WithMove(Fold))
	require.Equal(t, []Round{Preflop}, seatRounds(l, BTN))

	l, id := addAction(t, l, Turn, change().WithPosition(BTN))
	a, _ := l.Action(id)
	assert.True(t, a.IsHero)
	assert.Equal(t, []poker.Card{"Ah", "Ad"}, a.HeroCards)
	checkInvariants(t, l)
}

func TestLedgerIsImmutable(t *testing.T) {
	l1 := newTestLedger(util.UnitChips)
	l1, btn := addAction(t, l1, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10))
	l2 := l1.UpdateAction(btn, change().WithAmount(20))

	a1, _ := l1.Action(btn)
	a2, _ := l2.Action(btn)
	assert.Equal(t, 10.0, a1.Amount)
	assert.Equal(t, 20.0, a2.Amount)
	assert.Equal(t, 90.0, l1.StackAfter(BTN, Flop))
	assert.Equal(t, 80.0, l2.StackAfter(BTN, Flop))
}

func TestMissingReferencesAreNoops(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN))

	assert.Same(t, l, l.UpdateAction("missing", change().WithMove(Call)))
	assert.Same(t, l, l.RemoveAction("missing"))
	assert.Same(t, l, l.AddDecision("missing", DecisionChange{}))
	assert.Same(t, l, l.UpdateDecision(btn, 0, DecisionChange{}.WithMove(Call)))
	assert.Same(t, l, l.RemoveDecision(btn, -1))
	assert.Same(t, l, l.UpdateAction(btn, change()))
	assert.Same(t, l, l.Apply(nil))

	next, id := l.AddAction(Round(7), change())
	assert.Same(t, l, next)
	assert.Empty(t, id)
}

func TestAmountsAreClamped(t *testing.T) {
	l := newTestLedger(util.UnitBigBlinds)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Bet).WithAmount(-4))
	a, _ := l.Action(btn)
	assert.Equal(t, 0.0, a.Amount)

	l = l.UpdateAction(btn, change().WithAmount(2.456))
	a, _ = l.Action(btn)
	assert.InDelta(t, 2.46, a.Amount, 1e-9)
	assert.InDelta(t, 97.54, l.StackAfter(BTN, Preflop), 1e-9)

	l = l.UpdateAction(btn, change().WithStack(1).WithMove(AllIn))
	a, _ = l.Action(btn)
	assert.Equal(t, 1.0, a.Amount)
	assert.True(t, l.IsAllIn(BTN, Flop))
	assert.Equal(t, 0.0, l.AllInAmount("missing"))
}

func TestRemoveDecisionRestoresStack(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, btn := addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Bet).WithAmount(10))
	l = l.AddDecision(btn, DecisionChange{}.WithMove(AllIn))

	a, _ := l.Action(btn)
	require.Len(t, a.Decisions, 1)
	assert.Equal(t, 90.0, a.Decisions[0].Amount)
	assert.Equal(t, []Round{Preflop}, seatRounds(l, BTN))

	l = l.RemoveDecision(btn, 0)
	assert.Equal(t, Rounds, seatRounds(l, BTN))
	assert.Equal(t, 90.0, actionAt(t, l, BTN, Flop).Stack)
}

func TestExportJSON(t *testing.T) {
	l := newTestLedger(util.UnitChips)
	l, _ = addAction(t, l, Preflop, change().WithPosition(BTN).WithMove(Raise).WithAmount(10).WithHero(true))
	l, _ = addAction(t, l, Preflop, change().WithPosition(BB).WithMove(Call))

	data, err := l.ExportJSON()
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, BTN, snapshot.Hero)
	assert.Equal(t, 20.0, snapshot.TotalPot)
	require.Len(t, snapshot.Rounds, len(Rounds))
	assert.Equal(t, Flop, snapshot.Rounds[1].Round)
	assert.Len(t, snapshot.Rounds[0].Actions, 2)
	assert.Contains(t, string(data), `"round": "preflop"`)
}
