package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, string, error)
	Get(ctx context.Context, id string) (User, error)
}

type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
	hashes  map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
		hashes:  make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, email, passwordHash string) (User, error) {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return User{}, ErrEmailTaken
	}
	u := User{ID: uuid.New().String(), Email: email, CreatedAt: time.Now().UTC()}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	s.hashes[u.ID] = passwordHash
	return u, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, "", ErrUserNotFound
	}
	return s.byID[id], s.hashes[id], nil
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, email, passwordHash string) (User, error) {
	email = normalizeEmail(email)
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, fmt.Errorf("user create: %w", err)
	}
	defer tx.Rollback(ctx)
	var exists bool
	if err := tx.QueryRow(ctx, "select exists(select 1 from users where email = $1)", email).Scan(&exists); err != nil {
		return User{}, fmt.Errorf("user create: %w", err)
	}
	if exists {
		return User{}, ErrEmailTaken
	}
	u := User{ID: uuid.New().String(), Email: email, CreatedAt: time.Now().UTC()}
	if _, err := tx.Exec(ctx, "insert into users (id, email, created_at) values ($1, $2, $3)", u.ID, u.Email, u.CreatedAt); err != nil {
		return User{}, fmt.Errorf("user create: %w", err)
	}
	if _, err := tx.Exec(ctx, "insert into user_credentials (user_id, password_hash) values ($1, $2)", u.ID, passwordHash); err != nil {
		return User{}, fmt.Errorf("user create: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("user create: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.pool.QueryRow(ctx,
		"select u.id, u.email, u.created_at, c.password_hash from users u join user_credentials c on c.user_id = u.id where u.email = $1",
		normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrUserNotFound
		}
		return User{}, "", fmt.Errorf("user lookup: %w", err)
	}
	return u, hash, nil
}

func (s *PostgresUserStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, "select id, email, created_at from users where id = $1", id).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("user lookup: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
