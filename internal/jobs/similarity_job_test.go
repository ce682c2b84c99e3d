package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/suture/v4"
	"github.com/zatekoja/Marketplacesearch/internal/application/services"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

type countingRecomputer struct {
	calls atomic.Int32
	err   error
}

func (r *countingRecomputer) RecomputeAll(context.Context) ([]*services.RecomputeSummary, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return []*services.RecomputeSummary{
		{Kind: entities.SimilarityCoPurchase, Edges: 4},
		{Kind: entities.SimilarityCollaborative, Edges: 6},
	}, nil
}

func TestSimilarityJob_RunOnce(t *testing.T) {
	r := &countingRecomputer{}

	err := NewSimilarityJob(r, 0).Serve(context.Background())

	assert.ErrorIs(t, err, suture.ErrTerminateSupervisorTree)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestSimilarityJob_FailureIsReturned(t *testing.T) {
	r := &countingRecomputer{err: errors.New("db down")}

	err := NewSimilarityJob(r, time.Hour).Serve(context.Background())

	assert.EqualError(t, err, "db down")
}

func TestSimilarityJob_IntervalStopsOnCancel(t *testing.T) {
	r := &countingRecomputer{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewSimilarityJob(r, 10*time.Millisecond).Serve(ctx) }()

	require.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("job did not stop after cancel")
	}
}

func TestNewSupervisor(t *testing.T) {
	sup := NewSupervisor("test", SupervisorConfig{})
	require.NotNil(t, sup)
	assert.Equal(t, "similarity-recompute", NewSimilarityJob(&countingRecomputer{}, 0).String())
}
