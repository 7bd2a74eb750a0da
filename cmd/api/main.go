package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maharshidpatel/rookiebulls/internal/auth"
	"github.com/maharshidpatel/rookiebulls/internal/config"
	"github.com/maharshidpatel/rookiebulls/internal/db"
	"github.com/maharshidpatel/rookiebulls/internal/engine"
	"github.com/maharshidpatel/rookiebulls/internal/health"
	"github.com/maharshidpatel/rookiebulls/internal/httpserver"
	"github.com/maharshidpatel/rookiebulls/internal/market"
	"github.com/maharshidpatel/rookiebulls/internal/portfolio"
	"github.com/maharshidpatel/rookiebulls/internal/trades"
	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ledger     wallet.Ledger
		positions  portfolio.Store
		tradeStore trades.Store
		users      auth.UserStore
	)
	var cleanup []func()

	healthHandler := health.NewHandler(nil, time.Now())
	if cfg.DBDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		ledger = wallet.NewPostgresLedger(pool)
		positions = portfolio.NewPostgresStore(pool)
		tradeStore = trades.NewPostgresStore(pool)
		users = auth.NewPostgresUserStore(pool)
		healthHandler = health.NewHandler(pool, time.Now())
		slog.Info("connected to PostgreSQL")

		if cfg.RedisURL != "" {
			opt, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				slog.Error("invalid REDIS_URL", "err", err)
				os.Exit(1)
			}
			rdb := redis.NewClient(opt)
			cleanup = append(cleanup, func() { _ = rdb.Close() })
			tradeStore = trades.NewCachedStore(tradeStore, rdb, 30*time.Second)
			slog.Info("redis trade history cache enabled")
		}
	} else {
		slog.Warn("DB_DSN not set, using in-memory stores (data will not persist)")
		ledger = wallet.NewMemoryLedger()
		positions = portfolio.NewMemoryStore()
		tradeStore = trades.NewMemoryStore()
		users = auth.NewMemoryUserStore()
	}
	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	oracle, err := market.NewStaticOracle(market.DefaultPrices())
	if err != nil {
		slog.Error("oracle init failed", "err", err)
		os.Exit(1)
	}
	bus := market.NewBus()
	market.StartPublisher(ctx, bus, oracle, 2*time.Second)

	tradeEngine := engine.New(oracle, ledger, positions, tradeStore, cfg.PriceTimeout)
	authSvc := auth.NewService(users, ledger, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.SignupGrant)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:      auth.NewHandler(authSvc),
		WalletHandler:    wallet.NewHandler(tradeEngine),
		PortfolioHandler: portfolio.NewHandler(tradeEngine, oracle),
		TradeHandler:     engine.NewHandler(tradeEngine),
		MarketHandler:    market.NewHandler(oracle, market.NewQuoteWS(bus, cfg.WebSocketOrigin)),
		HealthHandler:    healthHandler,
		AuthService:      authSvc,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}

func newLogger(level string) *slog.Logger {
	var slevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slevel = slog.LevelDebug
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slevel}))
}
