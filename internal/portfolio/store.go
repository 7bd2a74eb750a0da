// Package portfolio tracks what each account currently owns: one position
// per (account, ticker) with quantity and average cost basis. Average cost
// is recomputed on buys and untouched by sells.
package portfolio

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

var ErrInsufficientShares = errors.New("insufficient shares")

// Store is the position store contract. The trade engine is the sole
// writer; reads may run concurrently with writes on other accounts.
// Restore writes back a snapshot taken before a mutation and exists only
// for settlement rollback; a zero-quantity snapshot removes the record.
type Store interface {
	Get(ctx context.Context, accountID, ticker string) (model.Position, bool, error)
	List(ctx context.Context, accountID string) ([]model.Position, error)
	ApplyBuy(ctx context.Context, accountID, ticker string, quantity int64, price decimal.Decimal) (model.Position, error)
	ApplySell(ctx context.Context, accountID, ticker string, quantity int64) (model.Position, error)
	Restore(ctx context.Context, snapshot model.Position) error
}

// averageCost returns the weighted-average cost after buying quantity
// shares at price on top of an existing position.
func averageCost(old model.Position, quantity int64, price decimal.Decimal) decimal.Decimal {
	if old.Quantity == 0 {
		return price
	}
	oldValue := old.AverageCost.Mul(decimal.NewFromInt(old.Quantity))
	newValue := price.Mul(decimal.NewFromInt(quantity))
	return oldValue.Add(newValue).Div(decimal.NewFromInt(old.Quantity + quantity))
}
