package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// StartPublisher starts a background goroutine that periodically publishes
// the current oracle price for every known ticker to the bus. It stops when
// ctx is cancelled.
func StartPublisher(ctx context.Context, bus *Bus, oracle *StaticOracle, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UnixMilli()
				for _, symbol := range oracle.Tickers() {
					price, err := oracle.GetPrice(ctx, symbol)
					if err != nil {
						slog.Warn("quote publish skipped", "ticker", symbol, "err", err)
						continue
					}
					bus.Publish(Event{Type: "quote", Data: model.Quote{
						Ticker:    symbol,
						Price:     price,
						Timestamp: now,
					}})
				}
			}
		}
	}()
}
