// Package ledger keeps the append-only record of every order this process
// has submitted. Entries are never mutated or removed; cancellation changes
// exchange-side state only, the local record stays as history.
package ledger

import (
	"sync"
	"time"

	"trading_go/internal/domain"
)

// Entry wraps an exchange result with local submission metadata.
type Entry struct {
	Result      domain.OrderResult
	Strategy    domain.StrategyKind
	Index       int // grid level or TWAP slice (1..N); 0 for single orders
	SubmittedAt time.Time
}

// Ledger is the in-memory order record: an insertion-ordered sequence plus
// an orderId index for O(1) lookup. Safe for one writer and many readers.
type Ledger struct {
	mu      sync.RWMutex
	entries []*Entry
	byID    map[int64]*Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byID: make(map[int64]*Entry),
	}
}

// Record appends an entry and indexes it by order ID. Append-only.
func (l *Ledger) Record(e *Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	l.byID[e.Result.OrderID] = e
}

// FindByOrderID returns the entry for an exchange order ID.
// Fails with domain.ErrNotFound when the ID was never recorded.
func (l *Ledger) FindByOrderID(orderID int64) (*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.byID[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// All returns every entry in insertion order, oldest first.
func (l *Ledger) All() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Size returns the number of recorded entries.
func (l *Ledger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
