package trades

import (
	"context"
	"sync"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

type MemoryStore struct {
	mu      sync.RWMutex
	byAccnt map[string][]model.Trade
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byAccnt: make(map[string][]model.Trade)}
}

func (s *MemoryStore) Append(_ context.Context, trade model.Trade) error {
	s.mu.Lock()
	s.byAccnt[trade.AccountID] = append(s.byAccnt[trade.AccountID], trade)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) HistoryFor(_ context.Context, accountID string) ([]model.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.byAccnt[accountID]
	out := make([]model.Trade, len(history))
	for i, t := range history {
		out[len(history)-1-i] = t
	}
	return out, nil
}
