package caches

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"voyager.com/handrecorder/hand"
)

// LedgerCache keeps the latest ledger of each open hand. The least recently used hand
// is evicted once the cache is full.
type LedgerCache struct {
	ledgers *lru.Cache
}

// NewLedgerCache creates a cache of size hands. onEvict, when not nil, is called with the
// id of every hand that leaves the cache, whether it was evicted or removed.
func NewLedgerCache(size int, onEvict func(handID string)) (*LedgerCache, error) {
	ledgers, err := lru.NewWithEvict(size, func(key interface{}, _ interface{}) {
		if onEvict != nil {
			onEvict(key.(string))
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize ledger cache")
	}
	return &LedgerCache{ledgers: ledgers}, nil
}

func (c *LedgerCache) Put(handID string, l *hand.Ledger) error {
	if handID == "" {
		return fmt.Errorf("Invalid hand ID [%s]", handID)
	} else if l == nil {
		return fmt.Errorf("Nil ledger for hand [%s]", handID)
	}
	c.ledgers.Add(handID, l)
	return nil
}

func (c *LedgerCache) Get(handID string) (*hand.Ledger, bool) {
	v, exists := c.ledgers.Get(handID)
	if !exists {
		return nil, false
	}
	return v.(*hand.Ledger), true
}

// Contains checks for the hand without updating its recency.
func (c *LedgerCache) Contains(handID string) bool {
	return c.ledgers.Contains(handID)
}

func (c *LedgerCache) Remove(handID string) bool {
	return c.ledgers.Remove(handID)
}

func (c *LedgerCache) Len() int {
	return c.ledgers.Len()
}

// HandIDs returns the open hands from the oldest to the most recently used.
func (c *LedgerCache) HandIDs() []string {
	keys := c.ledgers.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.(string))
	}
	return out
}
