package wallet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/types"
)

// PostgresLedger implements Ledger on PostgreSQL. Appends run inside a
// transaction holding a per-account advisory lock, so the balance check and
// the insert cannot interleave with another append for the same account.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) Balance(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := l.pool.QueryRow(ctx, "select coalesce(sum(delta), 0) from ledger_entries where account_id = $1", accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("ledger balance: %w", err)
	}
	return sum, nil
}

func (l *PostgresLedger) Append(ctx context.Context, entry model.LedgerEntry) error {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, "select pg_advisory_xact_lock(hashtext($1))", entry.AccountID); err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	var sum int64
	if err := tx.QueryRow(ctx, "select coalesce(sum(delta), 0) from ledger_entries where account_id = $1", entry.AccountID).Scan(&sum); err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	if sum+entry.Delta < 0 {
		return ErrInsufficientCredits
	}
	_, err = tx.Exec(ctx,
		"insert into ledger_entries (id, account_id, delta, reason, trade_id, created_at) values ($1, $2, $3, $4, nullif($5, ''), $6)",
		entry.ID, entry.AccountID, entry.Delta, string(entry.Reason), entry.TradeID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

func (l *PostgresLedger) History(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	rows, err := l.pool.Query(ctx,
		"select id, account_id, delta, reason, coalesce(trade_id, ''), created_at from ledger_entries where account_id = $1 order by created_at asc, id asc", accountID)
	if err != nil {
		return nil, fmt.Errorf("ledger history: %w", err)
	}
	defer rows.Close()
	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var reason string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Delta, &reason, &e.TradeID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger history: %w", err)
		}
		e.Reason = types.LedgerReason(reason)
		out = append(out, e)
	}
	return out, rows.Err()
}
