package portfolio

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/maharshidpatel/rookiebulls/internal/httputil"
	"github.com/maharshidpatel/rookiebulls/internal/market"
	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// Reader is the position query surface the handler consumes.
type Reader interface {
	GetPosition(ctx context.Context, accountID, ticker string) (model.Position, bool, error)
	ListPositions(ctx context.Context, accountID string) ([]model.Position, error)
}

type Handler struct {
	reader Reader
	oracle market.Oracle
}

func NewHandler(reader Reader, oracle market.Oracle) *Handler {
	return &Handler{reader: reader, oracle: oracle}
}

// PositionView is a position enriched with the current price and
// unrealized profit/loss against the average cost basis.
type PositionView struct {
	model.Position
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	MarketValue   *decimal.Decimal `json:"market_value,omitempty"`
	UnrealizedPnL *decimal.Decimal `json:"unrealized_pnl,omitempty"`
}

type portfolioResponse struct {
	Positions     []PositionView  `json:"positions"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, accountID string) {
	positions, err := h.reader.ListPositions(r.Context(), accountID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to load portfolio"})
		return
	}
	resp := portfolioResponse{Positions: make([]PositionView, 0, len(positions))}
	for _, p := range positions {
		view := h.enrich(r.Context(), p)
		resp.Positions = append(resp.Positions, view)
		cost := p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
		resp.TotalCost = resp.TotalCost.Add(cost)
		if view.MarketValue != nil {
			resp.TotalValue = resp.TotalValue.Add(*view.MarketValue)
			resp.UnrealizedPnL = resp.UnrealizedPnL.Add(*view.UnrealizedPnL)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, accountID string) {
	ticker := chi.URLParam(r, "ticker")
	p, ok, err := h.reader.GetPosition(r.Context(), accountID, ticker)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to load position"})
		return
	}
	if !ok {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "no position for ticker"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.enrich(r.Context(), p))
}

// enrich attaches current price and P&L when the oracle knows the ticker.
// A position in a ticker the oracle no longer serves is still returned,
// just without market fields.
func (h *Handler) enrich(ctx context.Context, p model.Position) PositionView {
	view := PositionView{Position: p}
	price, err := h.oracle.GetPrice(ctx, p.Ticker)
	if err != nil {
		return view
	}
	qty := decimal.NewFromInt(p.Quantity)
	marketValue := price.Mul(qty)
	pnl := marketValue.Sub(p.AverageCost.Mul(qty))
	view.CurrentPrice = &price
	view.MarketValue = &marketValue
	view.UnrealizedPnL = &pnl
	return view
}
