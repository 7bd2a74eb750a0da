package health

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maharshidpatel/rookiebulls/internal/httputil"
)

type Handler struct {
	pool      *pgxpool.Pool
	startedAt time.Time
}

// NewHandler accepts a nil pool when the service runs on in-memory stores.
func NewHandler(pool *pgxpool.Pool, startedAt time.Time) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Handler{pool: pool, startedAt: start}
}

type liveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_sec"`
}

type readyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_sec"`
	Database  dbStat `json:"database"`
}

type dbStat struct {
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	PingMs     int64  `json:"ping_ms"`
	Error      string `json:"error,omitempty"`
}

// Live is a lightweight liveness endpoint and does not check database reachability.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	httputil.WriteJSON(w, http.StatusOK, liveResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(now.Sub(h.startedAt).Seconds()),
	})
}

// Ready checks the database when one is configured and returns 503 when it
// is not reachable. Without a pool the in-memory stores are always ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	db := dbStat{Configured: h.pool != nil}
	status := "ok"
	httpStatus := http.StatusOK
	if h.pool != nil {
		pingCtx, cancel := context.WithTimeout(r.Context(), time.Second)
		start := time.Now()
		err := h.pool.Ping(pingCtx)
		cancel()
		db.PingMs = time.Since(start).Milliseconds()
		if err != nil {
			db.Error = err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		} else {
			db.Reachable = true
		}
	}
	httputil.WriteJSON(w, httpStatus, readyResponse{
		Status:    status,
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(now.Sub(h.startedAt).Seconds()),
		Database:  db,
	})
}
