// Package jobs holds the long-running background work run under a suture
// supervisor.
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
	"github.com/zatekoja/Marketplacesearch/internal/application/services"
)

// Recomputer rebuilds similarity edges.
type Recomputer interface {
	RecomputeAll(ctx context.Context) ([]*services.RecomputeSummary, error)
}

// SimilarityJob recomputes similarity edges on a fixed interval. With a zero
// interval it runs once and then terminates its supervisor.
type SimilarityJob struct {
	recomputer Recomputer
	interval   time.Duration
}

func NewSimilarityJob(recomputer Recomputer, interval time.Duration) *SimilarityJob {
	return &SimilarityJob{recomputer: recomputer, interval: interval}
}

// Serve implements suture.Service. A failed run is returned so that the
// supervisor restarts the job with backoff.
func (j *SimilarityJob) Serve(ctx context.Context) error {
	for {
		if err := j.runOnce(ctx); err != nil {
			return err
		}
		if j.interval <= 0 {
			return suture.ErrTerminateSupervisorTree
		}

		log.Info().Dur("interval", j.interval).Msg("similarity recompute complete, waiting for next run")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(j.interval):
		}
	}
}

func (j *SimilarityJob) runOnce(ctx context.Context) error {
	summaries, err := j.recomputer.RecomputeAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("similarity recompute failed")
		return err
	}

	var edges int
	for _, s := range summaries {
		edges += s.Edges
	}
	log.Info().Int("kinds", len(summaries)).Int("edges", edges).Msg("similarity recompute finished")
	return nil
}

func (j *SimilarityJob) String() string {
	return "similarity-recompute"
}

// SupervisorConfig holds restart policy for NewSupervisor.
type SupervisorConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// NewSupervisor returns a supervisor whose events are logged through
// zerolog. Zero config values use suture's defaults.
func NewSupervisor(name string, cfg SupervisorConfig) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
}

func logEvent(e suture.Event) {
	log.Warn().Fields(e.Map()).Msg(e.String())
}
