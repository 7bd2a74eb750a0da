package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maharshidpatel/rookiebulls/internal/auth"
	"github.com/maharshidpatel/rookiebulls/internal/engine"
	"github.com/maharshidpatel/rookiebulls/internal/health"
	"github.com/maharshidpatel/rookiebulls/internal/httputil"
	"github.com/maharshidpatel/rookiebulls/internal/market"
	"github.com/maharshidpatel/rookiebulls/internal/metrics"
	"github.com/maharshidpatel/rookiebulls/internal/portfolio"
	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

type RouterDeps struct {
	AuthHandler      *auth.Handler
	WalletHandler    *wallet.Handler
	PortfolioHandler *portfolio.Handler
	TradeHandler     *engine.Handler
	MarketHandler    *market.Handler
	HealthHandler    *health.Handler
	AuthService      *auth.Service
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(SecurityHeaders)
	r.Use(metrics.Middleware)

	// CORS middleware for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", d.HealthHandler.Ready)
	r.Get("/health/live", d.HealthHandler.Live)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
		})
		r.Get("/market/prices", d.MarketHandler.Prices)
		r.Get("/market/price/{ticker}", d.MarketHandler.Price)
		r.Get("/market/ws", d.MarketHandler.WS)
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Get("/me", authed(d.AuthHandler.Me))
			r.Get("/wallet/balance", authed(d.WalletHandler.Balance))
			r.Get("/wallet/history", authed(d.WalletHandler.History))
			r.Get("/portfolio", authed(d.PortfolioHandler.List))
			r.Get("/portfolio/{ticker}", authed(d.PortfolioHandler.Get))
			r.Post("/trades", authed(d.TradeHandler.Execute))
			r.Get("/trades", authed(d.TradeHandler.History))
		})
	})
	return r
}

func authed(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		h(w, r, userID)
	}
}
