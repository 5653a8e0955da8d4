package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/bbfs/internal/application/backtest"
	"github.com/alejandrodnm/bbfs/internal/application/engine"
	"github.com/alejandrodnm/bbfs/internal/domain"
)

// Engine is the query and control surface the API needs.
// *engine.Engine satisfies it.
type Engine interface {
	Status() engine.Status
	Version() uint64
	Strategy() string
	TargetMaxLoss() int
	Latest(n int) []domain.DrawRecord
	Prediction() (domain.Prediction, bool, error)
	GenerateCandidate(input2D, weekdayLabel string) (domain.Prediction, error)
	PerformanceSummary() (domain.PerformanceSummary, error)
	CurrentStreak(window int) (domain.StreakStatus, error)
	StreakBreakdown() (domain.StreakBreakdown, error)
	RecentAnalysis(n int) ([]domain.TransitionDetail, error)
	Tune() (backtest.TuneResult, error)
	RecentRefreshes(ctx context.Context, limit int) ([]domain.RefreshRecord, error)
	Refresh(ctx context.Context) (domain.RefreshRecord, error)
	SetSource(ctx context.Context, url string) (domain.RefreshRecord, error)
	ResetSource(ctx context.Context) (domain.RefreshRecord, error)
}

var _ Engine = (*engine.Engine)(nil)

// handlers serves every /api route.
type handlers struct {
	engine Engine
	logger *slog.Logger
}

// GET /api/health
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.engine.Version(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/data
func (h *handlers) data(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	writeJSON(w, http.StatusOK, dataJSON{
		Source:       st.Source,
		Version:      st.Version,
		Strategy:     h.engine.Strategy(),
		TotalRecords: st.Info.TotalRecords,
		Start:        day(st.Info.Start),
		End:          day(st.Info.End),
	})
}

// GET /api/prediction
func (h *handlers) prediction(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.engine.Prediction()
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no data loaded")
		return
	}
	writeJSON(w, http.StatusOK, toPrediction(p))
}

// GET /api/candidate?input=12&day=Senin
func (h *handlers) candidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := h.engine.GenerateCandidate(q.Get("input"), q.Get("day"))
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrediction(p))
}

// GET /api/summary
func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.PerformanceSummary()
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(s, h.engine.TargetMaxLoss()))
}

// GET /api/latest?n=5
func (h *handlers) latest(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 5)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	recs := h.engine.Latest(n)
	out := make([]drawJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDraw(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/streak/current?window=10
func (h *handlers) currentStreak(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", 0)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	s, err := h.engine.CurrentStreak(window)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreak(s))
}

// GET /api/streak/breakdown
func (h *handlers) breakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.engine.StreakBreakdown()
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBreakdown(b))
}

// GET /api/analysis/recent?n=8
func (h *handlers) recent(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	ts, err := h.engine.RecentAnalysis(n)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecent(ts))
}

// GET /api/tune
func (h *handlers) tune(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Tune()
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTune(res))
}

// GET /api/refreshes?limit=20
func (h *handlers) refreshes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	recs, err := h.engine.RecentRefreshes(r.Context(), limit)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	out := make([]refreshJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRefresh(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/refresh
func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.Refresh(r.Context())
	h.writeRefresh(w, rec, err)
}

// PUT /api/source {"url": "..."}
func (h *handlers) setSource(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	rec, err := h.engine.SetSource(r.Context(), body.URL)
	h.writeRefresh(w, rec, err)
}

// DELETE /api/source
func (h *handlers) resetSource(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.ResetSource(r.Context())
	h.writeRefresh(w, rec, err)
}

func (h *handlers) writeRefresh(w http.ResponseWriter, rec domain.RefreshRecord, err error) {
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toRefresh(rec))
}
