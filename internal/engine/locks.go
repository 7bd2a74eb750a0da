package engine

import "sync"

// lockTable hands out one RWMutex per account. Execute takes the write
// lock for the full settlement; the read surface takes the read lock so
// queries never observe a half-applied trade. Locks are never evicted;
// the per-account footprint is one mutex.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.RWMutex)}
}

func (t *lockTable) get(accountID string) *sync.RWMutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[accountID]
	if !ok {
		l = &sync.RWMutex{}
		t.locks[accountID] = l
	}
	return l
}
