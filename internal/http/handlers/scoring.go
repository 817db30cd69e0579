package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"donorcrm/internal/scoring"
)

type trendRequest struct {
	Donations []scoring.DonationFact `json:"donations"`
}

type trendResponse struct {
	Trend scoring.GivingTrend `json:"trend"`
}

type prospectsRequest struct {
	Donors []scoring.Candidate `json:"donors"`
}

type prospectsResponse struct {
	Threshold float64                  `json:"threshold"`
	Items     []scoring.ProspectResult `json:"items"`
}

func (a *App) ScoreTrend(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("trend", time.Now())
	var req trendRequest
	if err := decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := scoring.ValidateHistory(req.Donations); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, trendResponse{Trend: a.engine().ClassifyTrend(req.Donations)})
}

func (a *App) ScoreEngagement(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("engagement", time.Now())
	var agg scoring.DonorAggregate
	if err := decode(w, r, &agg); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := scoring.ValidateAggregate(agg); err != nil {
		a.fail(w, r, err)
		return
	}
	res := a.engine().ScoreEngagement(agg)
	a.Metrics.IncrementEngagement(string(res.Level))
	a.json(w, http.StatusOK, res)
}

func (a *App) ScoreProspects(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("prospects", time.Now())
	threshold, err := thresholdParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req prospectsRequest
	if err := decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := scoring.ValidatePool(req.Donors); err != nil {
		a.fail(w, r, err)
		return
	}
	engine := a.engine()
	items := engine.RankProspects(req.Donors, threshold)
	a.Metrics.ObserveProspects(len(items))
	a.json(w, http.StatusOK, prospectsResponse{
		Threshold: effectiveThreshold(engine, threshold),
		Items:     items,
	})
}

func (a *App) ScoreLapseRisk(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("lapse_risk", time.Now())
	var in scoring.LapseInput
	if err := decode(w, r, &in); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := scoring.ValidateLapseInput(in); err != nil {
		a.fail(w, r, err)
		return
	}
	res := a.engine().PredictLapseRisk(in)
	a.Metrics.IncrementLapse(string(res.RiskLevel))
	a.json(w, http.StatusOK, res)
}

// thresholdParam reads ?threshold=. Absent or <= 0 selects the configured
// major gift threshold.
func thresholdParam(r *http.Request) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("threshold"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: threshold must be a number", scoring.ErrInvalidInput)
	}
	return v, nil
}

func effectiveThreshold(e *scoring.Engine, requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return e.Thresholds().Prospect.MajorGiftThreshold
}
