package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"donorcrm/internal/config"
	"donorcrm/internal/domain"
	"donorcrm/internal/insights"
	"donorcrm/internal/metrics"
	"donorcrm/internal/scoring"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(r *http.Request) error

type App struct {
	Logger    zerolog.Logger
	Donations domain.DonationRepository
	Contacts  domain.ContactRepository
	Engine    *config.LiveEngine
	Narrator  insights.Narrator
	Metrics   *metrics.Metrics
	Checks    map[string]HealthCheck

	PoolLimit        int
	ScorecardTimeout time.Duration
	NarrativeTimeout time.Duration

	// Now is the as-of clock for donor-backed endpoints.
	Now func() time.Time
}

const maxBodyBytes = 1 << 20

func (a *App) engine() *scoring.Engine {
	if a.Engine == nil {
		return scoring.Default()
	}
	return a.Engine.Engine()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: msg}})
}

// fail maps domain and scoring errors onto the JSON error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrInvalidDonorID):
		a.error(w, http.StatusBadRequest, "invalid_donor_id", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "donor not found")
	case errors.Is(err, scoring.ErrNoHistory):
		a.error(w, http.StatusNotFound, "no_history", "donor has no donation history")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decode reads a JSON body, rejecting unknown fields and trailing data.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
