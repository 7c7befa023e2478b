package hand

// Mutation is one edit of a ledger. Mutations are applied with Ledger.Apply.
type Mutation interface {
	// Kind names the edit for logs.
	Kind() string
	apply(w *Ledger) bool
}

// AddAction adds a primary action to the round, on Change.Position when it is free and on
// the first free position otherwise. ID is generated when empty.
type AddAction struct {
	Round  Round
	ID     string
	Change ActionChange
}

type UpdateAction struct {
	ID     string
	Change ActionChange
}

// RemoveAction removes the action and every later record of its seat lineage.
type RemoveAction struct {
	ID string
}

// AddDecision appends a decision to the action. The decision starts as a pending fold.
type AddDecision struct {
	ActionID string
	Change   DecisionChange
}

type UpdateDecision struct {
	ActionID string
	Index    int
	Change   DecisionChange
}

type RemoveDecision struct {
	ActionID string
	Index    int
}

func (AddAction) Kind() string      { return "add-action" }
func (UpdateAction) Kind() string   { return "update-action" }
func (RemoveAction) Kind() string   { return "remove-action" }
func (AddDecision) Kind() string    { return "add-decision" }
func (UpdateDecision) Kind() string { return "update-decision" }
func (RemoveDecision) Kind() string { return "remove-decision" }

// Apply returns the ledger that results from the mutation. The receiver is never
// modified. When the mutation does not apply, for example because it references an
// unknown action, the receiver itself is returned.
func (l *Ledger) Apply(m Mutation) *Ledger {
	if m == nil {
		return l
	}
	w := l.clone()
	if !m.apply(w) {
		return l
	}
	return w
}

func (m AddAction) apply(w *Ledger) bool {
	if !m.Round.Valid() {
		return false
	}
	id := m.ID
	if id == "" {
		id = w.cfg.NewID()
	}
	if w.find(id) != nil {
		return false
	}

	var pos Position
	if m.Change.Position != nil && m.Change.Position.Valid() &&
		w.positionAvailable(*m.Change.Position, m.Round, "") {
		pos = *m.Change.Position
	} else {
		available := w.AvailablePositions(m.Round, "")
		if len(available) == 0 {
			return false
		}
		pos = available[0]
	}

	a := &Action{
		ID:        id,
		LineageID: id,
		Round:     m.Round,
		Position:  pos,
		Stack:     w.stackEntering(pos, m.Round),
		Move:      Fold,
		Pending:   true,
	}
	w.adoptHero(a)
	w.insert(a)
	w.reconcileSeat(pos, m.Round)

	change := m.Change
	change.Position = nil
	if !change.empty() {
		w.updateAction(a, change)
	}
	return true
}

func (m UpdateAction) apply(w *Ledger) bool {
	a := w.find(m.ID)
	if a == nil || m.Change.empty() {
		return false
	}
	change := m.Change
	if change.Position != nil && (*change.Position == a.Position ||
		!change.Position.Valid() || !w.positionAvailable(*change.Position, a.Round, a.ID)) {
		change.Position = nil
		if change.empty() {
			return false
		}
	}
	w.updateAction(a, change)
	return true
}

func (m RemoveAction) apply(w *Ledger) bool {
	a := w.find(m.ID)
	if a == nil {
		return false
	}
	w.removeLineageAfter(a.LineageID, a.Round)
	w.removeWhere(func(o *Action) bool {
		return o.ID == a.ID
	})
	return true
}

func (m AddDecision) apply(w *Ledger) bool {
	a := w.find(m.ActionID)
	if a == nil {
		return false
	}
	a.Decisions = append(a.Decisions, Decision{Move: Fold, Pending: true})
	k := len(a.Decisions) - 1
	if !m.Change.empty() {
		w.updateDecision(a, k, m.Change)
		return true
	}
	w.reconcileSeat(a.Position, a.Round)
	return true
}

func (m UpdateDecision) apply(w *Ledger) bool {
	a := w.find(m.ActionID)
	if a == nil || m.Index < 0 || m.Index >= len(a.Decisions) || m.Change.empty() {
		return false
	}
	w.updateDecision(a, m.Index, m.Change)
	return true
}

func (m RemoveDecision) apply(w *Ledger) bool {
	a := w.find(m.ActionID)
	if a == nil || m.Index < 0 || m.Index >= len(a.Decisions) {
		return false
	}
	a.Decisions = append(a.Decisions[:m.Index], a.Decisions[m.Index+1:]...)
	if len(a.Decisions) == 0 {
		a.Decisions = nil
	}
	w.reconcileSeat(a.Position, a.Round)
	return true
}

func (l *Ledger) updateAction(a *Action, c ActionChange) {
	reconcile := false
	if c.Position != nil && *c.Position != a.Position {
		reconcile = l.changePosition(a, *c.Position)
	}
	if c.Stack != nil {
		a.Stack = l.normalize(*c.Stack)
		reconcile = true
	}
	move := c.Move
	if move != nil && !move.Valid() {
		move = nil
	}
	if move != nil || c.Amount != nil {
		if move != nil {
			a.Move = *move
		}
		a.Amount = l.entryAmount(a, 0, a.Move, move != nil, c.Amount, a.Amount)
		a.Pending = false
		reconcile = true
	}
	l.applyHeroChange(a, c)
	if reconcile {
		l.reconcileSeat(a.Position, a.Round)
	}
	if move != nil && move.Aggressive() {
		l.propagate(a, 0)
	}
}

func (l *Ledger) updateDecision(a *Action, k int, c DecisionChange) {
	move := c.Move
	if move != nil && !move.Valid() {
		move = nil
	}
	d := &a.Decisions[k]
	if move != nil || c.Amount != nil {
		if move != nil {
			d.Move = *move
		}
		d.Amount = l.entryAmount(a, k+1, d.Move, move != nil, c.Amount, d.Amount)
		d.Pending = false
	}
	l.reconcileSeat(a.Position, a.Round)
	if move != nil && move.Aggressive() {
		l.propagate(a, k)
	}
}

// entryAmount decides the amount of the entry at depth after an edit. Fold and check never
// carry chips; an explicit amount wins; a move switched to call or all-in without an amount
// is filled from the table.
func (l *Ledger) entryAmount(a *Action, depth int, move Move, moveSet bool, amount *float64, current float64) float64 {
	switch {
	case !move.Commits():
		return 0
	case amount != nil:
		return l.normalize(*amount)
	case moveSet && move == Call:
		return l.owed(a, depth)
	case moveSet && move == AllIn:
		return l.allInFill(a, depth)
	}
	return current
}

// changePosition moves the action to pos. Later records of the old seat lineage are
// dropped and the action starts a lineage of its own. It returns false when pos is taken.
func (l *Ledger) changePosition(a *Action, pos Position) bool {
	if !pos.Valid() || !l.positionAvailable(pos, a.Round, a.ID) {
		return false
	}
	old := a.Position
	wasHero := a.IsHero
	cards := a.HeroCards

	l.removeLineageAfter(a.LineageID, a.Round)
	a.Position = pos
	a.LineageID = a.ID
	a.Stack = l.stackEntering(pos, a.Round)

	if wasHero && !l.seated(old) {
		l.setHero(pos, cards)
	} else {
		l.adoptHero(a)
	}
	return true
}

func (l *Ledger) seated(pos Position) bool {
	for _, a := range l.actions {
		if a.Position == pos {
			return true
		}
	}
	return false
}

// AddAction adds a primary action to the round and returns the new ledger and the id of
// the action. The id is empty when nothing was added.
func (l *Ledger) AddAction(round Round, change ActionChange) (*Ledger, string) {
	id := l.cfg.NewID()
	next := l.Apply(AddAction{Round: round, ID: id, Change: change})
	if next == l {
		return l, ""
	}
	return next, id
}

func (l *Ledger) UpdateAction(id string, change ActionChange) *Ledger {
	return l.Apply(UpdateAction{ID: id, Change: change})
}

func (l *Ledger) RemoveAction(id string) *Ledger {
	return l.Apply(RemoveAction{ID: id})
}

func (l *Ledger) AddDecision(actionID string, change DecisionChange) *Ledger {
	return l.Apply(AddDecision{ActionID: actionID, Change: change})
}

func (l *Ledger) UpdateDecision(actionID string, k int, change DecisionChange) *Ledger {
	return l.Apply(UpdateDecision{ActionID: actionID, Index: k, Change: change})
}

func (l *Ledger) RemoveDecision(actionID string, k int) *Ledger {
	return l.Apply(RemoveDecision{ActionID: actionID, Index: k})
}
