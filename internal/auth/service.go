package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/types"
	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

type Service struct {
	users       UserStore
	ledger      wallet.Ledger
	issuer      string
	secret      []byte
	ttl         time.Duration
	signupGrant int64
}

func NewService(users UserStore, ledger wallet.Ledger, issuer string, secret []byte, ttl time.Duration, signupGrant int64) *Service {
	return &Service{
		users:       users,
		ledger:      ledger,
		issuer:      issuer,
		secret:      secret,
		ttl:         ttl,
		signupGrant: signupGrant,
	}
}

// Register creates the user and seeds their wallet with the signup grant.
// The grant is an ordinary GRANT ledger entry so the starting balance is
// auditable like everything else.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, errors.New("email and password required")
	}
	if len(password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return User{}, err
	}
	if s.signupGrant > 0 {
		err = s.ledger.Append(ctx, model.LedgerEntry{
			ID:        uuid.New().String(),
			AccountID: u.ID,
			Delta:     s.signupGrant,
			Reason:    types.LedgerReasonGrant,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			slog.Error("signup grant failed", "user", u.ID, "err", err)
			return User{}, errors.New("registration failed")
		}
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", errors.New("invalid credentials")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.signToken(u.ID)
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.users.Get(ctx, userID)
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Issuer != s.issuer {
		return "", errors.New("invalid issuer")
	}
	if claims.Subject == "" {
		return "", errors.New("invalid subject")
	}
	return claims.Subject, nil
}
