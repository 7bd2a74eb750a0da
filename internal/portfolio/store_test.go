package portfolio

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestApplyBuyAverageCost(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	pos, err := s.ApplyBuy(ctx, "acct1", "AAPL", 5, d("180"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, pos.Quantity)
	assert.True(t, pos.AverageCost.Equal(d("180")))

	// (5*180 + 5*200) / 10 = 190
	pos, err = s.ApplyBuy(ctx, "acct1", "AAPL", 5, d("200"))
	require.NoError(t, err)
	assert.EqualValues(t, 10, pos.Quantity)
	assert.True(t, pos.AverageCost.Equal(d("190")), "avg cost %s", pos.AverageCost)

	// Fractional basis stays exact: (10*190 + 1*200.50) / 11
	pos, err = s.ApplyBuy(ctx, "acct1", "AAPL", 1, d("200.50"))
	require.NoError(t, err)
	want := d("1900").Add(d("200.50")).Div(decimal.NewFromInt(11))
	assert.True(t, pos.AverageCost.Equal(want), "avg cost %s want %s", pos.AverageCost, want)
}

func TestApplySellKeepsBasis(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.ApplyBuy(ctx, "acct1", "TSLA", 10, d("250"))
	require.NoError(t, err)

	pos, err := s.ApplySell(ctx, "acct1", "TSLA", 4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, pos.Quantity)
	assert.True(t, pos.AverageCost.Equal(d("250")), "selling must not change the basis")
}

func TestApplySellInsufficient(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.ApplySell(ctx, "acct1", "TSLA", 1)
	require.ErrorIs(t, err, ErrInsufficientShares, "no position at all")

	_, err = s.ApplyBuy(ctx, "acct1", "TSLA", 3, d("250"))
	require.NoError(t, err)
	_, err = s.ApplySell(ctx, "acct1", "TSLA", 4)
	require.ErrorIs(t, err, ErrInsufficientShares)

	pos, ok, err := s.Get(ctx, "acct1", "TSLA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 3, pos.Quantity, "failed sell leaves the position alone")
}

func TestSellToZeroDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.ApplyBuy(ctx, "acct1", "NVDA", 2, d("126"))
	require.NoError(t, err)

	pos, err := s.ApplySell(ctx, "acct1", "NVDA", 2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos.Quantity)

	_, ok, err := s.Get(ctx, "acct1", "NVDA")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListSortedPerAccount(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, ticker := range []string{"TSLA", "AAPL", "MSFT"} {
		_, err := s.ApplyBuy(ctx, "acct1", ticker, 1, d("100"))
		require.NoError(t, err)
	}
	_, err := s.ApplyBuy(ctx, "acct2", "GOOGL", 1, d("141"))
	require.NoError(t, err)

	positions, err := s.List(ctx, "acct1")
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.Equal(t, "AAPL", positions[0].Ticker)
	assert.Equal(t, "MSFT", positions[1].Ticker)
	assert.Equal(t, "TSLA", positions[2].Ticker)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.ApplyBuy(ctx, "acct1", "AAPL", 8, d("180"))
	require.NoError(t, err)

	snapshot := model.Position{AccountID: "acct1", Ticker: "AAPL", Quantity: 5, AverageCost: d("170")}
	require.NoError(t, s.Restore(ctx, snapshot))
	pos, ok, err := s.Get(ctx, "acct1", "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 5, pos.Quantity)
	assert.True(t, pos.AverageCost.Equal(d("170")))

	// A zero-quantity snapshot means the position did not exist before.
	require.NoError(t, s.Restore(ctx, model.Position{AccountID: "acct1", Ticker: "AAPL"}))
	_, ok, err = s.Get(ctx, "acct1", "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)
}
