package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/app"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

type output struct {
	Expansion *evaluation.EvalSummary    `json:"expansion"`
	Feedback  *evaluation.FeedbackReport `json:"feedback,omitempty"`
}

func main() {
	var goldenPath string
	var feedbackWindow time.Duration
	var minPassRate float64
	flag.StringVar(&goldenPath, "golden", "config/evaluation/golden_queries.json", "golden query set")
	flag.DurationVar(&feedbackWindow, "feedback-window", 7*24*time.Hour, "report recommendation feedback from this far back; 0 disables")
	flag.Float64Var(&minPassRate, "min-pass-rate", 0, "exit non-zero when fewer golden queries pass")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Environment, cfg.LogLevel)

	queries, err := evaluation.LoadGoldenQueries(goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load golden queries")
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatal().Err(err).Msg("invalid golden queries")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close(ctx)

	var out output
	out.Expansion, err = evaluation.NewRunner(a.Expansion).Run(ctx, queries)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	if feedbackWindow > 0 {
		out.Feedback, err = a.Feedback.Report(ctx, time.Now().Add(-feedbackWindow))
		if err != nil {
			log.Warn().Err(err).Msg("feedback report unavailable")
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode results")
	}
	fmt.Println(string(data))

	if total := out.Expansion.TotalQueries; total > 0 {
		rate := float64(out.Expansion.Passed) / float64(total)
		if rate < minPassRate {
			log.Error().Float64("pass_rate", rate).Float64("min_pass_rate", minPassRate).Msg("golden query pass rate below threshold")
			a.Close(ctx)
			os.Exit(1)
		}
	}
}
