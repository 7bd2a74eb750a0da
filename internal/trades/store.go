// Package trades keeps the append-only history of executed trades, used
// for audit and P&L reporting. Records are immutable once written.
package trades

import (
	"context"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

type Store interface {
	Append(ctx context.Context, trade model.Trade) error
	// HistoryFor returns an account's trades, most recent first.
	HistoryFor(ctx context.Context, accountID string) ([]model.Trade, error)
}
