package engine

import (
	"context"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// The read surface takes the account's read lock so a query sees either the
// pre-trade or post-trade state of the three stores, never an intermediate.
// Reads on different accounts do not contend.

func (e *Engine) GetBalance(ctx context.Context, accountID string) (int64, error) {
	lock := e.locks.get(accountID)
	lock.RLock()
	defer lock.RUnlock()
	return e.ledger.Balance(ctx, accountID)
}

func (e *Engine) LedgerHistory(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	lock := e.locks.get(accountID)
	lock.RLock()
	defer lock.RUnlock()
	return e.ledger.History(ctx, accountID)
}

func (e *Engine) GetPosition(ctx context.Context, accountID, ticker string) (model.Position, bool, error) {
	lock := e.locks.get(accountID)
	lock.RLock()
	defer lock.RUnlock()
	return e.positions.Get(ctx, accountID, normalizeTicker(ticker))
}

func (e *Engine) ListPositions(ctx context.Context, accountID string) ([]model.Position, error) {
	lock := e.locks.get(accountID)
	lock.RLock()
	defer lock.RUnlock()
	return e.positions.List(ctx, accountID)
}

func (e *Engine) ListTradeHistory(ctx context.Context, accountID string) ([]model.Trade, error) {
	lock := e.locks.get(accountID)
	lock.RLock()
	defer lock.RUnlock()
	return e.trades.HistoryFor(ctx, accountID)
}
