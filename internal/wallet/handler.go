package wallet

import (
	"context"
	"net/http"

	"github.com/maharshidpatel/rookiebulls/internal/httputil"
	"github.com/maharshidpatel/rookiebulls/internal/model"
)

// Reader is the balance/history query surface the handler consumes. The
// trade engine implements it with per-account read locking.
type Reader interface {
	GetBalance(ctx context.Context, accountID string) (int64, error)
	LedgerHistory(ctx context.Context, accountID string) ([]model.LedgerEntry, error)
}

type Handler struct {
	reader Reader
}

func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request, accountID string) {
	balance, err := h.reader.GetBalance(r.Context(), accountID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to load balance"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, accountID string) {
	history, err := h.reader.LedgerHistory(r.Context(), accountID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to load ledger history"})
		return
	}
	if history == nil {
		history = []model.LedgerEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, history)
}
