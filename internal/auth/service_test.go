package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

func newTestService() (*Service, *wallet.MemoryLedger) {
	ledger := wallet.NewMemoryLedger()
	svc := NewService(NewMemoryUserStore(), ledger, "rookiebulls-test", []byte("test-secret"), time.Hour, 100000)
	return svc, ledger
}

func TestRegisterGrantsSignupCredits(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestService()

	u, err := svc.Register(ctx, "Alice@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	balance, err := ledger.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100000, balance)

	entries, err := ledger.History(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1, "the grant is an ordinary ledger entry")
	assert.EqualValues(t, 100000, entries[0].Delta)
}

func TestRegisterRejectsDuplicateAndWeakPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "BOB@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, "carol@example.com", "short")
	require.Error(t, err)
	_, err = svc.Register(ctx, "", "hunter2hunter2")
	require.Error(t, err)
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	u, err := svc.Register(ctx, "dave@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "dave@example.com", "hunter2hunter2")
	require.NoError(t, err)
	subject, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, subject)

	_, err = svc.Login(ctx, "dave@example.com", "wrong-password")
	require.Error(t, err)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	require.Error(t, err)
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestService()
	other := NewService(NewMemoryUserStore(), ledger, "someone-else", []byte("test-secret"), time.Hour, 0)

	_, err := svc.Register(ctx, "eve@example.com", "hunter2hunter2")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "eve@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)

	garbled := token[:len(token)-2] + "xx"
	_, err = svc.ParseToken(garbled)
	require.Error(t, err)
}
