package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"donorcrm/internal/adapter/repo"
	"donorcrm/internal/config"
	"donorcrm/internal/http/handlers"
	httpapi "donorcrm/internal/http/httpapi"
	"donorcrm/internal/infra"
	"donorcrm/internal/infra/credentials"
	"donorcrm/internal/infra/geoip"
	"donorcrm/internal/insights"
	"donorcrm/internal/metrics"
	"donorcrm/internal/middleware"
	"donorcrm/internal/scoring"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	m := metrics.New()

	engine, err := config.LoadEngine(cfg.ScoringConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ScoringConfigPath).Msg("failed to load scoring thresholds")
	}
	live := config.NewLiveEngine(engine)
	if cfg.ScoringConfigPath != "" {
		go func() {
			err := config.Watch(ctx, cfg.ScoringConfigPath, logger, func(t scoring.Thresholds) {
				if err := live.Swap(t); err != nil {
					m.IncrementThresholdReload("rejected")
					logger.Error().Err(err).Msg("scoring thresholds rejected")
					return
				}
				m.IncrementThresholdReload("applied")
			}, func(error) {
				m.IncrementThresholdReload("rejected")
			})
			if err != nil {
				logger.Error().Err(err).Msg("threshold watcher stopped")
			}
		}()
	}

	store := credentials.NewStore(sqlRunner)
	openAIKey, err := store.ResolveAPIKey(ctx, credentials.ProviderOpenAI, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load stored openai key")
	}
	geminiKey, err := store.ResolveAPIKey(ctx, credentials.ProviderGemini, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load stored gemini key")
	}

	var narrator insights.Narrator = insights.New(insights.Options{
		Provider: cfg.NarrativeProvider,
		OpenAI: insights.OpenAIOptions{
			APIKey:       openAIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model adjusted")
			},
		},
		Gemini: insights.GeminiOptions{
			APIKey:  geminiKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		},
		OnFallback: func(provider, reason string, err error) {
			m.IncrementNarrativeFallback(provider, reason)
			logger.Warn().Err(err).Str("provider", provider).Str("reason", reason).Msg("narrative fallback")
		},
	})

	checks := map[string]handlers.HealthCheck{
		"postgres": func(r *http.Request) error { return dbpool.Ping(r.Context()) },
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, narratives will not be cached")
	}
	if redisClient != nil {
		defer redisClient.Close()
		narrator = insights.NewCachedNarrator(narrator, insights.NewRedisCache(redisClient.Client, ""), insights.CachedOptions{
			TTL:      cfg.NarrativeCacheTTL,
			Logger:   logger,
			OnResult: m.IncrementNarrativeCache,
		})
		checks["redis"] = func(r *http.Request) error { return redisClient.Health(r.Context()) }
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
	}
	if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Logger:           logger,
		Donations:        repo.NewDonationRepository(sqlRunner),
		Contacts:         repo.NewContactRepository(sqlRunner),
		Engine:           live,
		Narrator:         narrator,
		Metrics:          m,
		Checks:           checks,
		PoolLimit:        cfg.ProspectPoolLimit,
		ScorecardTimeout: cfg.ScorecardTimeout,
		NarrativeTimeout: cfg.NarrativeTimeout,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   insights.LocaleEnglish,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
		MetricsHandler:  m.Handler(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("narrative_provider", cfg.NarrativeProvider).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
