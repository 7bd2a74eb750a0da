package market

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maharshidpatel/rookiebulls/internal/httputil"
	"github.com/maharshidpatel/rookiebulls/internal/model"
)

type Handler struct {
	oracle *StaticOracle
	ws     *QuoteWS
}

func NewHandler(oracle *StaticOracle, ws *QuoteWS) *Handler {
	return &Handler{oracle: oracle, ws: ws}
}

func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UnixMilli()
	out := make([]model.Quote, 0, 8)
	for _, ticker := range h.oracle.Tickers() {
		price, err := h.oracle.GetPrice(r.Context(), ticker)
		if err != nil {
			continue
		}
		out = append(out, model.Quote{Ticker: ticker, Price: price, Timestamp: now})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	price, err := h.oracle.GetPrice(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, ErrUnknownTicker) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "unknown ticker"})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, model.Quote{
		Ticker:    normalize(ticker),
		Price:     price,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *Handler) WS(w http.ResponseWriter, r *http.Request) {
	h.ws.ServeHTTP(w, r)
}
