package market

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

func TestStaticOracleGetPrice(t *testing.T) {
	ctx := context.Background()
	o, err := NewStaticOracle(DefaultPrices())
	require.NoError(t, err)

	p, err := o.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(180)))

	// Lookup is case and whitespace insensitive.
	p, err = o.GetPrice(ctx, " aapl ")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(180)))

	_, err = o.GetPrice(ctx, "ZZZZ")
	require.ErrorIs(t, err, ErrUnknownTicker)
}

func TestStaticOracleSetPrice(t *testing.T) {
	ctx := context.Background()
	o, err := NewStaticOracle(map[string]string{"AAPL": "180"})
	require.NoError(t, err)

	require.NoError(t, o.SetPrice("aapl", decimal.NewFromInt(200)))
	p, err := o.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(200)))

	require.Error(t, o.SetPrice("AAPL", decimal.Zero))
	require.Error(t, o.SetPrice("AAPL", decimal.NewFromInt(-5)))
}

func TestNewStaticOracleRejectsBadPrices(t *testing.T) {
	_, err := NewStaticOracle(map[string]string{"AAPL": "abc"})
	require.Error(t, err)
	_, err = NewStaticOracle(map[string]string{"AAPL": "0"})
	require.Error(t, err)
	_, err = NewStaticOracle(map[string]string{"AAPL": "-1"})
	require.Error(t, err)
}

func TestStaticOracleHonorsContext(t *testing.T) {
	o, err := NewStaticOracle(DefaultPrices())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.GetPrice(ctx, "AAPL")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTickersSorted(t *testing.T) {
	o, err := NewStaticOracle(map[string]string{"TSLA": "248", "AAPL": "180", "MSFT": "417"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, o.Tickers())
}

func TestBusPublishSubscribe(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	quote := model.Quote{Ticker: "AAPL", Price: decimal.NewFromInt(180), Timestamp: time.Now().UnixMilli()}
	b.Publish(Event{Type: "quote", Data: quote})

	select {
	case got := <-ch:
		assert.Equal(t, "quote", got.Type)
		data, ok := got.Data.(model.Quote)
		require.True(t, ok)
		assert.Equal(t, "AAPL", data.Ticker)
		assert.True(t, data.Price.Equal(quote.Price))
	case <-time.After(time.Second):
		t.Fatal("quote not delivered")
	}
}

func TestBusDropsWhenSubscriberStalls(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// A stalled subscriber never blocks the publisher.
	for i := 0; i < cap(ch)+16; i++ {
		b.Publish(Event{Type: "quote"})
	}
}
