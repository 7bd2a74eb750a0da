// Package engine settles trades: given a buy or sell request it obtains a
// price, validates sufficiency of funds or shares, and applies the ledger
// entry, position update, and trade record as one logical transaction.
// The three writes either all become visible or none do.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/market"
	"github.com/maharshidpatel/rookiebulls/internal/metrics"
	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/portfolio"
	"github.com/maharshidpatel/rookiebulls/internal/trades"
	"github.com/maharshidpatel/rookiebulls/internal/types"
	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

var (
	ErrValidation        = errors.New("invalid trade request")
	ErrSettlementFailure = errors.New("settlement failure")
)

const (
	defaultPriceTimeout = 2 * time.Second
	storageRetries      = 3
	storageRetryWait    = 50 * time.Millisecond
)

// Engine orchestrates the wallet ledger, position store, and trade record
// store around the price oracle. It is the sole writer of all three.
type Engine struct {
	oracle       market.Oracle
	ledger       wallet.Ledger
	positions    portfolio.Store
	trades       trades.Store
	locks        *lockTable
	priceTimeout time.Duration
	log          *slog.Logger
}

func New(oracle market.Oracle, ledger wallet.Ledger, positions portfolio.Store, tradeStore trades.Store, priceTimeout time.Duration) *Engine {
	if priceTimeout <= 0 {
		priceTimeout = defaultPriceTimeout
	}
	return &Engine{
		oracle:       oracle,
		ledger:       ledger,
		positions:    positions,
		trades:       tradeStore,
		locks:        newLockTable(),
		priceTimeout: priceTimeout,
		log:          slog.Default(),
	}
}

// Result is the outcome of a settled trade.
type Result struct {
	Trade    model.Trade    `json:"trade"`
	Position model.Position `json:"position"`
	Balance  int64          `json:"balance"`
}

// Execute settles one market order. For a buy the ledger debit happens
// before the position update so an insufficient balance blocks the whole
// trade with zero side effects; for a sell the position reduction happens
// before the credit, symmetrically. No other trade for the same account
// runs while a settlement is in flight.
func (e *Engine) Execute(ctx context.Context, accountID, ticker string, side types.TradeSide, quantity int64) (Result, error) {
	if accountID == "" {
		return Result{}, fmt.Errorf("%w: account id is required", ErrValidation)
	}
	if ticker == "" {
		return Result{}, fmt.Errorf("%w: ticker is required", ErrValidation)
	}
	if !side.Valid() {
		return Result{}, fmt.Errorf("%w: side must be buy or sell", ErrValidation)
	}
	if quantity <= 0 {
		return Result{}, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	start := time.Now()
	lock := e.locks.get(accountID)
	lock.Lock()
	defer lock.Unlock()

	res, err := e.settle(ctx, accountID, ticker, side, quantity)
	metrics.SettlementLatency.WithLabelValues(string(side)).Observe(time.Since(start).Seconds())
	metrics.TradesTotal.WithLabelValues(string(side), resultLabel(err)).Inc()
	if err != nil {
		return Result{}, err
	}
	e.log.Info("trade settled",
		"trade_id", res.Trade.ID,
		"account", accountID,
		"ticker", res.Trade.Ticker,
		"side", side,
		"qty", quantity,
		"price", res.Trade.Price.String(),
		"balance", res.Balance,
	)
	return res, nil
}

func (e *Engine) settle(ctx context.Context, accountID, ticker string, side types.TradeSide, quantity int64) (Result, error) {
	priceCtx, cancel := context.WithTimeout(ctx, e.priceTimeout)
	price, err := e.oracle.GetPrice(priceCtx, ticker)
	cancel()
	if err != nil {
		if errors.Is(err, market.ErrUnknownTicker) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("price oracle: %w", err)
	}

	totalValue := price.Mul(decimal.NewFromInt(quantity))
	// Credits are integral; trade value rounds half away from zero.
	credits := totalValue.Round(0).IntPart()
	now := time.Now().UTC()
	trade := model.Trade{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		Ticker:     normalizeTicker(ticker),
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		TotalValue: totalValue,
		CreatedAt:  now,
	}

	snapshot, hadPosition, err := e.positions.Get(ctx, accountID, trade.Ticker)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
	}
	if !hadPosition {
		snapshot = model.Position{AccountID: accountID, Ticker: trade.Ticker}
	}

	entry := model.LedgerEntry{
		ID:        uuid.New().String(),
		AccountID: accountID,
		TradeID:   trade.ID,
		CreatedAt: now,
	}

	var position model.Position
	switch side {
	case types.TradeSideBuy:
		entry.Delta = -credits
		entry.Reason = types.LedgerReasonBuy
		if err := e.appendWithRetry(ctx, entry); err != nil {
			if errors.Is(err, wallet.ErrInsufficientCredits) {
				return Result{}, err
			}
			return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
		}
		position, err = e.positions.ApplyBuy(ctx, accountID, trade.Ticker, quantity, price)
		if err != nil {
			e.rollback(ctx, entry, snapshot, false)
			return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
		}
	case types.TradeSideSell:
		position, err = e.positions.ApplySell(ctx, accountID, trade.Ticker, quantity)
		if err != nil {
			if errors.Is(err, portfolio.ErrInsufficientShares) {
				return Result{}, err
			}
			return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
		}
		entry.Delta = credits
		entry.Reason = types.LedgerReasonSell
		if err := e.appendWithRetry(ctx, entry); err != nil {
			e.rollback(ctx, entry, snapshot, true)
			return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
		}
	}

	if err := e.retry(ctx, func() error { return e.trades.Append(ctx, trade) }); err != nil {
		e.rollback(ctx, entry, snapshot, false)
		return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
	}

	balance, err := e.ledger.Balance(ctx, accountID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSettlementFailure, err)
	}
	return Result{Trade: trade, Position: position, Balance: balance}, nil
}

// rollback undoes the mutating steps of a failed settlement: the position
// snapshot taken before the trade is written back and, unless the ledger
// entry itself never landed, an offsetting entry reverses the credit
// movement. Corrections are new entries; the ledger is never edited.
func (e *Engine) rollback(ctx context.Context, entry model.LedgerEntry, snapshot model.Position, ledgerSkipped bool) {
	metrics.SettlementRollbacks.Inc()
	if err := e.retry(ctx, func() error { return e.positions.Restore(ctx, snapshot) }); err != nil {
		e.log.Error("settlement rollback: position restore failed",
			"account", snapshot.AccountID, "ticker", snapshot.Ticker, "err", err)
	}
	if ledgerSkipped {
		return
	}
	offset := model.LedgerEntry{
		ID:        uuid.New().String(),
		AccountID: entry.AccountID,
		Delta:     -entry.Delta,
		Reason:    entry.Reason,
		TradeID:   entry.TradeID,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.appendWithRetry(ctx, offset); err != nil {
		e.log.Error("settlement rollback: offsetting ledger entry failed",
			"account", entry.AccountID, "trade_id", entry.TradeID, "err", err)
	}
}

func (e *Engine) appendWithRetry(ctx context.Context, entry model.LedgerEntry) error {
	var err error
	for attempt := 0; attempt < storageRetries; attempt++ {
		if err = e.ledger.Append(ctx, entry); err == nil {
			return nil
		}
		if errors.Is(err, wallet.ErrInsufficientCredits) {
			return err
		}
		if !sleep(ctx, storageRetryWait) {
			return err
		}
	}
	return err
}

func (e *Engine) retry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < storageRetries; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !sleep(ctx, storageRetryWait) {
			return err
		}
	}
	return err
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "filled"
	case errors.Is(err, ErrSettlementFailure):
		return "failed"
	default:
		return "rejected"
	}
}
