package wallet

import (
	"context"
	"sync"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// MemoryLedger implements Ledger with in-memory slices. The per-account
// running balance is a cache over the entry log; the log is the source of
// truth.
type MemoryLedger struct {
	mu       sync.RWMutex
	entries  map[string][]model.LedgerEntry
	balances map[string]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		entries:  make(map[string][]model.LedgerEntry),
		balances: make(map[string]int64),
	}
}

func (l *MemoryLedger) Balance(_ context.Context, accountID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[accountID], nil
}

func (l *MemoryLedger) Append(_ context.Context, entry model.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[entry.AccountID]+entry.Delta < 0 {
		return ErrInsufficientCredits
	}
	l.entries[entry.AccountID] = append(l.entries[entry.AccountID], entry)
	l.balances[entry.AccountID] += entry.Delta
	return nil
}

func (l *MemoryLedger) History(_ context.Context, accountID string) ([]model.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.entries[accountID]
	out := make([]model.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}
