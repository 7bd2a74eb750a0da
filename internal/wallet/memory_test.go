package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/types"
)

func entry(accountID string, delta int64, reason types.LedgerReason) model.LedgerEntry {
	return model.LedgerEntry{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryLedgerAppendAndBalance(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	balance, err := l.Balance(ctx, "acct1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance, "unknown account starts at zero")

	require.NoError(t, l.Append(ctx, entry("acct1", 100000, types.LedgerReasonGrant)))
	require.NoError(t, l.Append(ctx, entry("acct1", -900, types.LedgerReasonBuy)))
	require.NoError(t, l.Append(ctx, entry("acct1", 630, types.LedgerReasonSell)))

	balance, err = l.Balance(ctx, "acct1")
	require.NoError(t, err)
	assert.EqualValues(t, 99730, balance)

	entries, err := l.History(ctx, "acct1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	var sum int64
	for _, e := range entries {
		sum += e.Delta
	}
	assert.Equal(t, balance, sum, "balance is the sum of all entries")
}

func TestMemoryLedgerRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	require.NoError(t, l.Append(ctx, entry("acct1", 100, types.LedgerReasonGrant)))

	err := l.Append(ctx, entry("acct1", -101, types.LedgerReasonBuy))
	require.ErrorIs(t, err, ErrInsufficientCredits)

	balance, err := l.Balance(ctx, "acct1")
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance, "rejected entry must not be recorded")
	entries, err := l.History(ctx, "acct1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Spending down to exactly zero is fine.
	require.NoError(t, l.Append(ctx, entry("acct1", -100, types.LedgerReasonBuy)))
	balance, err = l.Balance(ctx, "acct1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance)
}

func TestMemoryLedgerHistoryOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	first := entry("acct1", 500, types.LedgerReasonGrant)
	second := entry("acct1", -200, types.LedgerReasonBuy)
	require.NoError(t, l.Append(ctx, first))
	require.NoError(t, l.Append(ctx, second))
	require.NoError(t, l.Append(ctx, entry("acct2", 999, types.LedgerReasonGrant)))

	entries, err := l.History(ctx, "acct1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID, "entries come back in append order")
	assert.Equal(t, second.ID, entries[1].ID)

	// The returned slice is a copy.
	entries[0].Delta = -999999
	again, err := l.History(ctx, "acct1")
	require.NoError(t, err)
	assert.EqualValues(t, 500, again[0].Delta)
}
