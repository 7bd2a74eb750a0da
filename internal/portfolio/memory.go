package portfolio

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

type posKey struct {
	accountID string
	ticker    string
}

// MemoryStore implements Store with an in-memory map. Positions are copied
// on the way out to avoid external mutation.
type MemoryStore struct {
	mu        sync.RWMutex
	positions map[posKey]model.Position
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[posKey]model.Position)}
}

func (s *MemoryStore) Get(_ context.Context, accountID, ticker string) (model.Position, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[posKey{accountID, ticker}]
	return p, ok, nil
}

func (s *MemoryStore) List(_ context.Context, accountID string) ([]model.Position, error) {
	s.mu.RLock()
	out := make([]model.Position, 0, 4)
	for k, p := range s.positions {
		if k.accountID == accountID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (s *MemoryStore) ApplyBuy(_ context.Context, accountID, ticker string, quantity int64, price decimal.Decimal) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := posKey{accountID, ticker}
	old := s.positions[key]
	next := model.Position{
		AccountID:   accountID,
		Ticker:      ticker,
		Quantity:    old.Quantity + quantity,
		AverageCost: averageCost(old, quantity, price),
	}
	s.positions[key] = next
	return next, nil
}

func (s *MemoryStore) ApplySell(_ context.Context, accountID, ticker string, quantity int64) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := posKey{accountID, ticker}
	old, ok := s.positions[key]
	if !ok || quantity > old.Quantity {
		return model.Position{}, ErrInsufficientShares
	}
	next := model.Position{
		AccountID:   accountID,
		Ticker:      ticker,
		Quantity:    old.Quantity - quantity,
		AverageCost: old.AverageCost,
	}
	if next.Quantity == 0 {
		delete(s.positions, key)
		return next, nil
	}
	s.positions[key] = next
	return next, nil
}

func (s *MemoryStore) Restore(_ context.Context, snapshot model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := posKey{snapshot.AccountID, snapshot.Ticker}
	if snapshot.Quantity == 0 {
		delete(s.positions, key)
		return nil
	}
	s.positions[key] = snapshot
	return nil
}
