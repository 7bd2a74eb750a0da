// Package wallet keeps the virtual credit ledger. Every balance change is
// an immutable signed entry; the balance is always the sum of an account's
// entries and is never stored as an independently mutable field.
package wallet

import (
	"context"
	"errors"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

// Ledger is the wallet store contract. Append must reject any entry that
// would drive the account balance negative. Append's balance check and
// write are atomic per account; callers composing several operations on
// one account (the trade engine) additionally hold that account's
// execution lock.
type Ledger interface {
	Balance(ctx context.Context, accountID string) (int64, error)
	Append(ctx context.Context, entry model.LedgerEntry) error
	History(ctx context.Context, accountID string) ([]model.LedgerEntry, error)
}
