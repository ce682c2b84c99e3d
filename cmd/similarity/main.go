package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
	"github.com/zatekoja/Marketplacesearch/internal/app"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/internal/jobs"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	var intervalFlag time.Duration
	var prune bool
	flag.DurationVar(&intervalFlag, "interval", 0, "repeat interval (e.g. 6h); overrides SIMILARITY_INTERVAL, 0 runs once")
	flag.BoolVar(&prune, "prune", false, "delete edges not refreshed by this run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-similarity", cfg.Environment, cfg.LogLevel)

	interval := cfg.Similarity.Interval
	if intervalFlag > 0 {
		interval = intervalFlag
	}
	if prune {
		cfg.Similarity.Prune = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	sup := jobs.NewSupervisor("similarity", jobs.SupervisorConfig{})
	sup.Add(jobs.NewSimilarityJob(a.Similarity, interval))

	log.Info().Dur("interval", interval).Bool("prune", cfg.Similarity.Prune).Msg("similarity job starting")
	if err := sup.Serve(ctx); err != nil &&
		!errors.Is(err, suture.ErrTerminateSupervisorTree) &&
		!errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("similarity supervisor stopped")
		return 1
	}
	log.Info().Msg("similarity job shutting down")
	return 0
}
