package engine

import (
	"errors"
	"net/http"

	"github.com/maharshidpatel/rookiebulls/internal/httputil"
	"github.com/maharshidpatel/rookiebulls/internal/market"
	"github.com/maharshidpatel/rookiebulls/internal/model"
	"github.com/maharshidpatel/rookiebulls/internal/portfolio"
	"github.com/maharshidpatel/rookiebulls/internal/types"
	"github.com/maharshidpatel/rookiebulls/internal/wallet"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type executeRequest struct {
	Ticker   string `json:"ticker"`
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) Execute(w http.ResponseWriter, r *http.Request, accountID string) {
	var req executeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.engine.Execute(r.Context(), accountID, req.Ticker, types.TradeSide(req.Side), req.Quantity)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, accountID string) {
	history, err := h.engine.ListTradeHistory(r.Context(), accountID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to load trade history"})
		return
	}
	if history == nil {
		history = []model.Trade{}
	}
	httputil.WriteJSON(w, http.StatusOK, history)
}

// statusFor maps the settlement error taxonomy onto HTTP status codes.
// Everything except a settlement failure is correctable by the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrUnknownTicker):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrInsufficientCredits),
		errors.Is(err, portfolio.ErrInsufficientShares):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSettlementFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
