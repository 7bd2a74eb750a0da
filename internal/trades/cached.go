package trades

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// CachedStore wraps a primary Store with a Redis read-through cache for
// trade history. Appends go to the primary store and invalidate that
// account's cached history; reads check Redis first then fall back.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{primary: primary, rdb: rdb, ttl: ttl}
}

func (s *CachedStore) Append(ctx context.Context, trade model.Trade) error {
	if err := s.primary.Append(ctx, trade); err != nil {
		return err
	}
	s.rdb.Del(ctx, historyKey(trade.AccountID))
	return nil
}

func (s *CachedStore) HistoryFor(ctx context.Context, accountID string) ([]model.Trade, error) {
	data, err := s.rdb.Get(ctx, historyKey(accountID)).Bytes()
	if err == nil {
		var cached []model.Trade
		if json.Unmarshal(data, &cached) == nil {
			return cached, nil
		}
	}

	history, err := s.primary.HistoryFor(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(history); err == nil {
		s.rdb.Set(ctx, historyKey(accountID), data, s.ttl)
	}
	return history, nil
}

func historyKey(accountID string) string { return "trades:" + accountID }
