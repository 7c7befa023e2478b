package hand

import (
	"sort"

	"github.com/google/uuid"
	"voyager.com/handrecorder/util"
)

const DefaultStartingStack = 100

// Config holds the per-hand settings of a ledger.
type Config struct {
	// StartingStack is the stack of a seat that has no record yet.
	StartingStack float64
	Unit          util.ChipUnit
	// NewID generates action ids. Defaults to random UUIDs.
	NewID func() string
}

func DefaultConfig() Config {
	return Config{
		StartingStack: DefaultStartingStack,
		Unit:          util.UnitChips,
	}
}

func newUUID() string {
	return uuid.New().String()
}

// Ledger is an immutable snapshot of every action recorded for one hand.
// Mutations return a new Ledger and leave the receiver untouched; a mutation that
// references a missing action or decision returns the receiver itself.
type Ledger struct {
	cfg     Config
	actions []*Action
}

func New(cfg Config) *Ledger {
	if cfg.Unit == "" {
		cfg.Unit = util.UnitChips
	}
	if cfg.NewID == nil {
		cfg.NewID = newUUID
	}
	cfg.StartingStack = cfg.Unit.Normalize(cfg.StartingStack)
	return &Ledger{cfg: cfg}
}

func (l *Ledger) Config() Config {
	return l.cfg
}

func (l *Ledger) Len() int {
	return len(l.actions)
}

// Actions returns copies of every action, ordered by round and then by insertion.
func (l *Ledger) Actions() []Action {
	out := make([]Action, 0, len(l.actions))
	for _, a := range l.actions {
		out = append(out, *a.clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Round < out[j].Round
	})
	return out
}

// ActionsInRound returns copies of the actions recorded in the round, in insertion order.
func (l *Ledger) ActionsInRound(round Round) []Action {
	out := make([]Action, 0)
	for _, a := range l.actions {
		if a.Round == round {
			out = append(out, *a.clone())
		}
	}
	return out
}

func (l *Ledger) Action(id string) (Action, bool) {
	a := l.find(id)
	if a == nil {
		return Action{}, false
	}
	return *a.clone(), true
}

// ActionAt returns the record of the position in the round.
func (l *Ledger) ActionAt(pos Position, round Round) (Action, bool) {
	a := l.record(pos, round)
	if a == nil {
		return Action{}, false
	}
	return *a.clone(), true
}

func (l *Ledger) clone() *Ledger {
	c := &Ledger{cfg: l.cfg, actions: make([]*Action, len(l.actions))}
	for i, a := range l.actions {
		c.actions[i] = a.clone()
	}
	return c
}

func (l *Ledger) find(id string) *Action {
	if id == "" {
		return nil
	}
	for _, a := range l.actions {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (l *Ledger) record(pos Position, round Round) *Action {
	for _, a := range l.actions {
		if a.Round == round && a.Position == pos {
			return a
		}
	}
	return nil
}

func (l *Ledger) inRound(round Round) []*Action {
	out := make([]*Action, 0)
	for _, a := range l.actions {
		if a.Round == round {
			out = append(out, a)
		}
	}
	return out
}

func (l *Ledger) insert(a *Action) {
	l.actions = append(l.actions, a)
}

func (l *Ledger) removeWhere(match func(a *Action) bool) int {
	kept := l.actions[:0]
	removed := 0
	for _, a := range l.actions {
		if match(a) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	l.actions = kept
	return removed
}

func (l *Ledger) normalize(v float64) float64 {
	return l.cfg.Unit.Normalize(v)
}
