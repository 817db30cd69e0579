package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"donorcrm/internal/domain"
	"donorcrm/internal/insights"
	"donorcrm/internal/middleware"
	"donorcrm/internal/scoring"
)

type scorecard struct {
	DonorID    string                   `json:"donor_id"`
	AsOf       time.Time                `json:"as_of"`
	Aggregate  scoring.DonorAggregate   `json:"aggregate"`
	Trend      scoring.GivingTrend      `json:"trend"`
	Engagement scoring.EngagementResult `json:"engagement"`
	LapseRisk  scoring.LapseRiskResult  `json:"lapse_risk"`
}

type insightsResponse struct {
	scorecard
	Narrative *insights.Narrative `json:"narrative"`
}

type poolProspectsResponse struct {
	Threshold float64                  `json:"threshold"`
	Evaluated int                      `json:"evaluated"`
	Items     []scoring.ProspectResult `json:"items"`
}

func (a *App) DonorScorecard(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("scorecard", time.Now())
	card, err := a.scorecardFor(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, card)
}

// DonorInsights returns the scorecard with a narrative. Narration is best
// effort: the scores are returned even when no narrative could be produced.
func (a *App) DonorInsights(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("insights", time.Now())
	card, err := a.scorecardFor(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp := insightsResponse{scorecard: *card}
	if a.Narrator != nil {
		ctx, cancel := a.withTimeout(r.Context(), a.NarrativeTimeout)
		defer cancel()
		narrative, err := a.Narrator.Narrate(ctx, insights.NarrateRequest{
			DonorRef:   card.DonorID,
			Locale:     middleware.LocaleFromContext(r.Context()),
			Aggregate:  card.Aggregate,
			Engagement: card.Engagement,
			Lapse:      card.LapseRisk,
		})
		if err != nil {
			a.Logger.Warn().Err(err).Str("donor_id", card.DonorID).Msg("narrative unavailable")
		}
		resp.Narrative = narrative
	}
	a.json(w, http.StatusOK, resp)
}

// PoolProspects ranks the stored donor pool.
func (a *App) PoolProspects(w http.ResponseWriter, r *http.Request) {
	defer a.Metrics.ObserveScoring("pool_prospects", time.Now())
	threshold, err := thresholdParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	limit, err := a.limitParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	asOf, err := a.asOfParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	ctx, cancel := a.withTimeout(r.Context(), a.ScorecardTimeout)
	defer cancel()
	pool, err := a.Donations.Pool(ctx, limit)
	if err != nil {
		a.fail(w, r, fmt.Errorf("load donor pool: %w", err))
		return
	}

	engine := a.engine()
	candidates := make([]scoring.Candidate, 0, len(pool))
	for _, d := range pool {
		agg, err := engine.BuildAggregate(d.Donations, asOf, d.Signals)
		if err != nil {
			a.Logger.Warn().Err(err).Str("donor_id", d.DonorID).Msg("skipping donor")
			continue
		}
		candidates = append(candidates, scoring.Candidate{Ref: d.DonorID, Aggregate: agg})
	}
	items := engine.RankProspects(candidates, threshold)
	a.Metrics.ObserveProspects(len(items))
	a.json(w, http.StatusOK, poolProspectsResponse{
		Threshold: effectiveThreshold(engine, threshold),
		Evaluated: len(candidates),
		Items:     items,
	})
}

// scorecardFor loads the donor named by the {id} path parameter and scores it.
// History and contact signals are fetched concurrently.
func (a *App) scorecardFor(r *http.Request) (*scorecard, error) {
	donorID, err := domain.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	asOf, err := a.asOfParam(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.withTimeout(r.Context(), a.ScorecardTimeout)
	defer cancel()

	var (
		history []scoring.DonationFact
		signals scoring.ChannelSignals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = a.Donations.History(gctx, donorID)
		return err
	})
	g.Go(func() error {
		var err error
		signals, err = a.Contacts.Signals(gctx, donorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine := a.engine()
	agg, err := engine.BuildAggregate(history, asOf, signals)
	if err != nil {
		if errors.Is(err, scoring.ErrNoHistory) {
			return nil, err
		}
		return nil, fmt.Errorf("build aggregate for %s: %w", donorID, err)
	}
	engagement := engine.ScoreEngagement(agg)
	lapse := engine.PredictLapseRisk(scoring.LapseInputFrom(agg))
	a.Metrics.IncrementEngagement(string(engagement.Level))
	a.Metrics.IncrementLapse(string(lapse.RiskLevel))

	return &scorecard{
		DonorID:    donorID,
		AsOf:       asOf,
		Aggregate:  agg,
		Trend:      agg.AverageGiftTrend,
		Engagement: engagement,
		LapseRisk:  lapse,
	}, nil
}

// asOfParam reads ?as_of=YYYY-MM-DD, defaulting to the current time.
func (a *App) asOfParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if raw == "" {
		return a.now(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: as_of must be YYYY-MM-DD", scoring.ErrInvalidInput)
	}
	return t, nil
}

// limitParam reads ?limit=, capped at PoolLimit.
func (a *App) limitParam(r *http.Request) (int, error) {
	ceiling := a.PoolLimit
	if ceiling <= 0 {
		ceiling = 500
	}
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return ceiling, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", scoring.ErrInvalidInput)
	}
	return min(v, ceiling), nil
}

func (a *App) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
