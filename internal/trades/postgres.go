package trades

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/types"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, t model.Trade) error {
	_, err := s.pool.Exec(ctx,
		`insert into trades (id, account_id, ticker, side, quantity, price, total_value, created_at)
		 values ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8)`,
		t.ID, t.AccountID, t.Ticker, string(t.Side), t.Quantity, t.Price.String(), t.TotalValue.String(), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("trade append: %w", err)
	}
	return nil
}

func (s *PostgresStore) HistoryFor(ctx context.Context, accountID string) ([]model.Trade, error) {
	rows, err := s.pool.Query(ctx,
		`select id, account_id, ticker, side, quantity, price::text, total_value::text, created_at
		 from trades where account_id = $1 order by created_at desc, id desc`, accountID)
	if err != nil {
		return nil, fmt.Errorf("trade history: %w", err)
	}
	defer rows.Close()
	var out []model.Trade
	for rows.Next() {
		var t model.Trade
		var side, price, total string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Ticker, &side, &t.Quantity, &price, &total, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("trade history: %w", err)
		}
		t.Side = types.TradeSide(side)
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("trade history: %w", err)
		}
		if t.TotalValue, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("trade history: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
