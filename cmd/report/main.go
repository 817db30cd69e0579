package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"donorcrm/internal/adapter/repo"
	"donorcrm/internal/config"
	"donorcrm/internal/infra"
	"donorcrm/internal/sqlinline"
	"donorcrm/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		threshold  float64
		limit      int
		asOfFlag   string
		migrate    bool
		archiveDir string
	)
	flag.Float64Var(&threshold, "threshold", 0, "Major gift threshold (defaults to the configured threshold)")
	flag.IntVar(&limit, "limit", 0, "Maximum donors to evaluate (defaults to PROSPECT_POOL_LIMIT)")
	flag.StringVar(&asOfFlag, "as-of", "", "Report date as YYYY-MM-DD (defaults to today)")
	flag.BoolVar(&migrate, "migrate", false, "Create missing tables before reporting")
	flag.StringVar(&archiveDir, "archive-dir", "", "Also save the report under this directory as donors/<as-of>.json")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "report").Logger()

	asOf := time.Now().UTC()
	if asOfFlag != "" {
		asOf, err = time.Parse(time.DateOnly, asOfFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of %q: expected YYYY-MM-DD\n", asOfFlag)
			os.Exit(2)
		}
	}
	if limit <= 0 {
		limit = cfg.ProspectPoolLimit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("report: db connection failed")
	}
	defer pool.Close()
	runner := infra.NewSQLRunner(pool, logger)

	if migrate {
		if _, err := runner.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
			logger.Fatal().Err(err).Msg("report: migration failed")
		}
		logger.Info().Msg("report: schema ensured")
	}

	engine, err := config.LoadEngine(cfg.ScoringConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ScoringConfigPath).Msg("report: failed to load scoring thresholds")
	}

	donors, err := repo.NewDonationRepository(runner).Pool(ctx, limit)
	if err != nil {
		logger.Fatal().Err(err).Msg("report: failed to load donor pool")
	}

	out, errs := buildReport(engine, donors, asOf, threshold)
	for _, err := range errs {
		logger.Warn().Err(err).Msg("report: donor skipped")
	}
	logger.Info().
		Int("evaluated", out.Evaluated).
		Int("skipped", out.Skipped).
		Int("prospects", len(out.Prospects)).
		Int("at_risk", len(out.AtRisk)).
		Msg("report: done")

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("report: encode failed")
	}
	if archiveDir != "" {
		archive, err := storage.NewReportArchive(archiveDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("report: archive unavailable")
		}
		path, err := archive.Save(ctx, storage.ReportKey("donors", asOf), data)
		if err != nil {
			logger.Fatal().Err(err).Msg("report: archive write failed")
		}
		logger.Info().Str("path", path).Msg("report: archived")
	}
	if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
		logger.Fatal().Err(err).Msg("report: write failed")
	}
}
