// Package market provides price discovery for the simulator. The Oracle
// interface is the only way the rest of the system obtains prices; the
// shipped implementation serves a fixed price table, and a live feed can be
// swapped in without touching the trade engine.
package market

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrUnknownTicker = errors.New("unknown ticker")

type Oracle interface {
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// StaticOracle resolves prices from an in-memory table. Prices can be
// updated at runtime (SetPrice), which is how an external feed would drive
// the simulator later.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// DefaultPrices is the mocked price table the simulator ships with.
func DefaultPrices() map[string]string {
	return map[string]string{
		"AAPL":  "180",
		"GOOGL": "141",
		"MSFT":  "417",
		"AMZN":  "185",
		"TSLA":  "248",
		"NVDA":  "126",
		"META":  "512",
		"NFLX":  "645",
	}
}

func NewStaticOracle(prices map[string]string) (*StaticOracle, error) {
	o := &StaticOracle{prices: make(map[string]decimal.Decimal, len(prices))}
	for ticker, raw := range prices {
		p, err := decimal.NewFromString(raw)
		if err != nil || p.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("invalid price for ticker " + ticker)
		}
		o.prices[normalize(ticker)] = p
	}
	return o, nil
}

func (o *StaticOracle) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[normalize(ticker)]
	if !ok {
		return decimal.Zero, ErrUnknownTicker
	}
	return p, nil
}

func (o *StaticOracle) SetPrice(ticker string, price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return errors.New("price must be positive")
	}
	o.mu.Lock()
	o.prices[normalize(ticker)] = price
	o.mu.Unlock()
	return nil
}

func (o *StaticOracle) Tickers() []string {
	o.mu.RLock()
	out := make([]string, 0, len(o.prices))
	for t := range o.prices {
		out = append(out, t)
	}
	o.mu.RUnlock()
	sort.Strings(out)
	return out
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
