package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// PostgresStore implements Store on PostgreSQL. Average cost is stored as
// NUMERIC text for exact decimal precision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, accountID, ticker string) (model.Position, bool, error) {
	p, err := s.get(ctx, s.pool, accountID, ticker, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Position{}, false, nil
		}
		return model.Position{}, false, fmt.Errorf("position get: %w", err)
	}
	return p, true, nil
}

func (s *PostgresStore) List(ctx context.Context, accountID string) ([]model.Position, error) {
	rows, err := s.pool.Query(ctx,
		"select account_id, ticker, quantity, average_cost::text from positions where account_id = $1 order by ticker asc", accountID)
	if err != nil {
		return nil, fmt.Errorf("position list: %w", err)
	}
	defer rows.Close()
	var out []model.Position
	for rows.Next() {
		var p model.Position
		var avg string
		if err := rows.Scan(&p.AccountID, &p.Ticker, &p.Quantity, &avg); err != nil {
			return nil, fmt.Errorf("position list: %w", err)
		}
		if p.AverageCost, err = decimal.NewFromString(avg); err != nil {
			return nil, fmt.Errorf("position list: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ApplyBuy(ctx context.Context, accountID, ticker string, quantity int64, price decimal.Decimal) (model.Position, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Position{}, fmt.Errorf("position buy: %w", err)
	}
	defer tx.Rollback(ctx)
	old, err := s.get(ctx, tx, accountID, ticker, true)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return model.Position{}, fmt.Errorf("position buy: %w", err)
	}
	next := model.Position{
		AccountID:   accountID,
		Ticker:      ticker,
		Quantity:    old.Quantity + quantity,
		AverageCost: averageCost(old, quantity, price),
	}
	_, err = tx.Exec(ctx,
		`insert into positions (account_id, ticker, quantity, average_cost) values ($1, $2, $3, $4::numeric)
		 on conflict (account_id, ticker) do update set quantity = $3, average_cost = $4::numeric`,
		accountID, ticker, next.Quantity, next.AverageCost.String())
	if err != nil {
		return model.Position{}, fmt.Errorf("position buy: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Position{}, fmt.Errorf("position buy: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) ApplySell(ctx context.Context, accountID, ticker string, quantity int64) (model.Position, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Position{}, fmt.Errorf("position sell: %w", err)
	}
	defer tx.Rollback(ctx)
	old, err := s.get(ctx, tx, accountID, ticker, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Position{}, ErrInsufficientShares
		}
		return model.Position{}, fmt.Errorf("position sell: %w", err)
	}
	if quantity > old.Quantity {
		return model.Position{}, ErrInsufficientShares
	}
	next := model.Position{
		AccountID:   accountID,
		Ticker:      ticker,
		Quantity:    old.Quantity - quantity,
		AverageCost: old.AverageCost,
	}
	if next.Quantity == 0 {
		_, err = tx.Exec(ctx, "delete from positions where account_id = $1 and ticker = $2", accountID, ticker)
	} else {
		_, err = tx.Exec(ctx, "update positions set quantity = $3 where account_id = $1 and ticker = $2", accountID, ticker, next.Quantity)
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("position sell: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Position{}, fmt.Errorf("position sell: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) Restore(ctx context.Context, snapshot model.Position) error {
	if snapshot.Quantity == 0 {
		_, err := s.pool.Exec(ctx, "delete from positions where account_id = $1 and ticker = $2", snapshot.AccountID, snapshot.Ticker)
		if err != nil {
			return fmt.Errorf("position restore: %w", err)
		}
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`insert into positions (account_id, ticker, quantity, average_cost) values ($1, $2, $3, $4::numeric)
		 on conflict (account_id, ticker) do update set quantity = $3, average_cost = $4::numeric`,
		snapshot.AccountID, snapshot.Ticker, snapshot.Quantity, snapshot.AverageCost.String())
	if err != nil {
		return fmt.Errorf("position restore: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) get(ctx context.Context, q queryRower, accountID, ticker string, forUpdate bool) (model.Position, error) {
	sql := "select account_id, ticker, quantity, average_cost::text from positions where account_id = $1 and ticker = $2"
	if forUpdate {
		sql += " for update"
	}
	var p model.Position
	var avg string
	if err := q.QueryRow(ctx, sql, accountID, ticker).Scan(&p.AccountID, &p.Ticker, &p.Quantity, &avg); err != nil {
		return model.Position{}, err
	}
	var err error
	if p.AverageCost, err = decimal.NewFromString(avg); err != nil {
		return model.Position{}, err
	}
	return p, nil
}
