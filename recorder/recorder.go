package recorder

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	caches "voyager.com/handrecorder/caching"
	"voyager.com/handrecorder/hand"
	"voyager.com/handrecorder/logging"
	"voyager.com/handrecorder/util"
)

var (
	ErrHandNotFound  = errors.New("hand not found")
	ErrHandExists    = errors.New("hand already open")
	ErrNothingToUndo = errors.New("nothing to undo")
)

type Config struct {
	Hand         hand.Config
	MaxOpenHands int
	UndoDepth    int
}

// ConfigFromEnv reads the recorder settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		Hand: hand.Config{
			StartingStack: util.Env.GetStartingStack(),
			Unit:          util.Env.GetChipUnit(),
		},
		MaxOpenHands: util.Env.GetMaxOpenHands(),
		UndoDepth:    util.Env.GetUndoDepth(),
	}
}

// Recorder is the editing surface for open hands. Edits to all hands are serialized, so
// every mutation observes the ledger produced by the previous one.
type Recorder struct {
	lock    sync.Mutex
	cfg     Config
	logger  *zerolog.Logger
	hands   *caches.LedgerCache
	history map[string][]*hand.Ledger
}

func New(cfg Config, logger *zerolog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if cfg.MaxOpenHands <= 0 {
		cfg.MaxOpenHands = 1
	}
	if cfg.UndoDepth < 0 {
		cfg.UndoDepth = 0
	}
	r := &Recorder{
		cfg:     cfg,
		logger:  logger,
		history: make(map[string][]*hand.Ledger),
	}
	hands, err := caches.NewLedgerCache(cfg.MaxOpenHands, r.handEvicted)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create recorder")
	}
	r.hands = hands
	return r, nil
}

// handEvicted runs with the lock held, from inside the cache.
func (r *Recorder) handEvicted(handID string) {
	delete(r.history, handID)
	r.logger.Debug().Str(logging.HandIDKey, handID).Msg("Hand closed")
}

// OpenHand starts an empty hand. A random id is assigned when handID is empty.
func (r *Recorder) OpenHand(handID string) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if handID == "" {
		handID = uuid.New().String()
	}
	if r.hands.Contains(handID) {
		return "", errors.Wrapf(ErrHandExists, "Cannot open hand [%s]", handID)
	}
	if err := r.hands.Put(handID, hand.New(r.cfg.Hand)); err != nil {
		return "", errors.Wrapf(err, "Cannot open hand [%s]", handID)
	}
	util.Metrics.SetOpenHands(r.hands.Len())
	r.logger.Info().Str(logging.HandIDKey, handID).Msg("Hand opened")
	return handID, nil
}

func (r *Recorder) CloseHand(handID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.hands.Remove(handID) {
		return errors.Wrapf(ErrHandNotFound, "Cannot close hand [%s]", handID)
	}
	util.Metrics.SetOpenHands(r.hands.Len())
	return nil
}

func (r *Recorder) OpenHands() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.hands.HandIDs()
}

// Ledger returns the current ledger of the hand.
func (r *Recorder) Ledger(handID string) (*hand.Ledger, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.ledger(handID)
}

func (r *Recorder) ledger(handID string) (*hand.Ledger, error) {
	l, ok := r.hands.Get(handID)
	if !ok {
		return nil, errors.Wrapf(ErrHandNotFound, "Hand [%s]", handID)
	}
	return l, nil
}

// Apply runs the mutation against the hand. changed is false when the mutation did not
// apply; a mutation that does not apply is not an error and leaves no undo entry.
func (r *Recorder) Apply(handID string, m hand.Mutation) (l *hand.Ledger, changed bool, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.apply(handID, m)
}

func (r *Recorder) apply(handID string, m hand.Mutation) (*hand.Ledger, bool, error) {
	cur, err := r.ledger(handID)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return cur, false, nil
	}
	logger := logging.HandLogger(r.logger, handID)
	next := cur.Apply(m)
	if next == cur {
		util.Metrics.MutationNoop()
		logger.Debug().Str("mutation", m.Kind()).Bool("noop", true).Msg("Mutation did not apply")
		return cur, false, nil
	}
	r.pushHistory(handID, cur)
	if err := r.hands.Put(handID, next); err != nil {
		return nil, false, errors.Wrapf(err, "Cannot store hand [%s]", handID)
	}
	util.Metrics.MutationApplied()
	logger.Debug().Str("mutation", m.Kind()).Int("actions", next.Len()).Msg("Mutation applied")
	return next, true, nil
}

func (r *Recorder) pushHistory(handID string, l *hand.Ledger) {
	if r.cfg.UndoDepth == 0 {
		return
	}
	h := append(r.history[handID], l)
	if len(h) > r.cfg.UndoDepth {
		h = h[len(h)-r.cfg.UndoDepth:]
	}
	r.history[handID] = h
}

// AddAction adds a primary action and returns its id. The id is empty when the round
// has no free position.
func (r *Recorder) AddAction(handID string, round hand.Round, change hand.ActionChange) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	cur, err := r.ledger(handID)
	if err != nil {
		return "", err
	}
	id := cur.Config().NewID()
	l, changed, err := r.apply(handID, hand.AddAction{Round: round, ID: id, Change: change})
	if err != nil || !changed {
		return "", err
	}
	if a, ok := l.Action(id); ok {
		r.logger.Debug().
			Str(logging.HandIDKey, handID).
			Str(logging.ActionIDKey, id).
			Str(logging.RoundKey, round.String()).
			Str(logging.PositionKey, string(a.Position)).
			Msg("Action added")
	}
	return id, nil
}

// Undo restores the ledger the hand had before its last applied mutation.
func (r *Recorder) Undo(handID string) (*hand.Ledger, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, err := r.ledger(handID); err != nil {
		return nil, err
	}
	h := r.history[handID]
	if len(h) == 0 {
		return nil, errors.Wrapf(ErrNothingToUndo, "Hand [%s]", handID)
	}
	prev := h[len(h)-1]
	r.history[handID] = h[:len(h)-1]
	if err := r.hands.Put(handID, prev); err != nil {
		return nil, errors.Wrapf(err, "Cannot store hand [%s]", handID)
	}
	util.Metrics.Undo()
	r.logger.Debug().Str(logging.HandIDKey, handID).Int("remaining", len(h)-1).Msg("Undo")
	return prev, nil
}

func (r *Recorder) Snapshot(handID string) (hand.Snapshot, error) {
	l, err := r.Ledger(handID)
	if err != nil {
		return hand.Snapshot{}, err
	}
	return l.Snapshot(), nil
}

func (r *Recorder) ExportJSON(handID string) ([]byte, error) {
	l, err := r.Ledger(handID)
	if err != nil {
		return nil, err
	}
	data, err := l.ExportJSON()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot export hand [%s]", handID)
	}
	return data, nil
}
