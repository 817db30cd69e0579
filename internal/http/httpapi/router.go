package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"donorcrm/internal/http/handlers"
	"donorcrm/internal/middleware"
)

type Options struct {
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	MetricsHandler  http.Handler
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))

		r.Route("/v1/scoring", func(r chi.Router) {
			r.Post("/trend", app.ScoreTrend)
			r.Post("/engagement", app.ScoreEngagement)
			r.Post("/prospects", app.ScoreProspects)
			r.Post("/lapse-risk", app.ScoreLapseRisk)
		})

		r.Route("/v1/donors/{id}", func(r chi.Router) {
			r.Get("/scorecard", app.DonorScorecard)
			r.With(middleware.I18N(opts.DefaultLocale, opts.CountryLookup)).Get("/insights", app.DonorInsights)
		})

		r.Get("/v1/prospects", app.PoolProspects)
	})

	return r
}
