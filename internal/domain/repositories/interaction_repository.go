package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// InteractionRepository stores the user↔product affinity log.
type InteractionRepository interface {
	// Increment adds weight to the (user, product, kind) row, creating it
	// when absent, in a single atomic statement.
	Increment(ctx context.Context, in *entities.InteractionInput, weight float64, at time.Time) error

	// ListByUser returns the user's rows, optionally restricted to a module.
	ListByUser(ctx context.Context, userID string, moduleID *int) ([]*entities.Interaction, error)

	// RecentProducts returns up to limit distinct products the user
	// interacted with, most recent first.
	RecentProducts(ctx context.Context, userID string, moduleID *int, limit int) ([]string, error)

	// InteractedProducts returns every product the user has touched.
	InteractedProducts(ctx context.Context, userID string) ([]string, error)

	// WindowedScores aggregates per-kind weights of rows updated at or after
	// since, grouped by product, highest first.
	WindowedScores(ctx context.Context, since time.Time, moduleID *int, weights map[entities.InteractionKind]float64, limit int) ([]entities.ProductScore, error)

	// DistinctProductUsers returns distinct (user, product) pairs, restricted
	// to kinds when any are given.
	DistinctProductUsers(ctx context.Context, kinds ...entities.InteractionKind) ([]entities.ProductUser, error)
}
