package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/types"
)

// LedgerEntry is one signed credit movement on an account. Entries are
// immutable once written; an account's balance is the sum of its entries.
type LedgerEntry struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Delta     int64              `json:"delta"`
	Reason    types.LedgerReason `json:"reason"`
	TradeID   string             `json:"trade_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Position is an account's current holding in one ticker. AverageCost is
// the weighted-average price paid per currently-held share; it is only
// meaningful while Quantity > 0.
type Position struct {
	AccountID   string          `json:"account_id"`
	Ticker      string          `json:"ticker"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// Trade is an executed buy or sell. Immutable once written; each trade is
// linked one-to-one with the ledger entry that settled it.
type Trade struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	Ticker     string          `json:"ticker"`
	Side       types.TradeSide `json:"side"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Quote is a point-in-time price snapshot published to market data
// subscribers.
type Quote struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"ts"`
}
