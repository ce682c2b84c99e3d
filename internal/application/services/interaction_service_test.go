package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

type interactionKey struct {
	user    string
	product string
	kind    entities.InteractionKind
}

// additiveInteractionRepo accumulates scores in memory the way the upsert does.
type additiveInteractionRepo struct {
	MockInteractionRepository
	mu     sync.Mutex
	scores map[interactionKey]float64
}

func newAdditiveInteractionRepo() *additiveInteractionRepo {
	return &additiveInteractionRepo{scores: make(map[interactionKey]float64)}
}

func (r *additiveInteractionRepo) Increment(_ context.Context, in *entities.InteractionInput, weight float64, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[interactionKey{in.UserID, in.ProductID, in.Kind}] += weight
	return nil
}

func (r *additiveInteractionRepo) total(user, product string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for k, v := range r.scores {
		if k.user == user && k.product == product {
			sum += v
		}
	}
	return sum
}

func TestInteractionService_ScoresAccumulate(t *testing.T) {
	repo := newAdditiveInteractionRepo()
	svc := NewInteractionService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, entities.InteractionInput{UserID: "u1", ProductID: "p1", Kind: entities.InteractionView}))
	}
	require.NoError(t, svc.Record(ctx, entities.InteractionInput{UserID: "u1", ProductID: "p1", Kind: entities.InteractionPurchase}))

	assert.Len(t, repo.scores, 2)
	assert.Equal(t, 3.0, repo.scores[interactionKey{"u1", "p1", entities.InteractionView}])
	assert.Equal(t, 5.0, repo.scores[interactionKey{"u1", "p1", entities.InteractionPurchase}])
	assert.Equal(t, 8.0, repo.total("u1", "p1"))
}

func TestInteractionService_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   entities.InteractionInput
	}{
		{"missing user", entities.InteractionInput{UserID: " ", ProductID: "p1", Kind: entities.InteractionView}},
		{"missing product", entities.InteractionInput{UserID: "u1", Kind: entities.InteractionView}},
		{"unknown kind", entities.InteractionInput{UserID: "u1", ProductID: "p1", Kind: "wishlist"}},
		{"negative module", entities.InteractionInput{UserID: "u1", ProductID: "p1", Kind: entities.InteractionView, ModuleID: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockInteractionRepository)

			err := NewInteractionService(repo, nil).Record(context.Background(), tt.in)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			repo.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInteractionService_StoreErrorIsSwallowed(t *testing.T) {
	repo := new(MockInteractionRepository)
	repo.On("Increment", mock.Anything, mock.Anything, 3.0, mock.Anything).Return(errors.New("db down"))

	err := NewInteractionService(repo, nil).Record(context.Background(), entities.InteractionInput{
		UserID:    "u1",
		ProductID: "p1",
		Kind:      entities.InteractionAddToCart,
		SessionID: strPtr("s1"),
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestInteractionService_TrackRunsInBackground(t *testing.T) {
	repo := newAdditiveInteractionRepo()
	svc := NewInteractionService(repo, nil)

	for i := 0; i < 4; i++ {
		svc.Track(entities.InteractionInput{UserID: "u1", ProductID: "p1", Kind: entities.InteractionView})
	}
	svc.Track(entities.InteractionInput{UserID: "u1", Kind: entities.InteractionView})
	svc.Wait()

	assert.Equal(t, 4.0, repo.total("u1", "p1"))
}

func TestInteractionService_History(t *testing.T) {
	rows := []*entities.Interaction{
		{UserID: "u1", ProductID: "p1", Kind: entities.InteractionPurchase, Score: 5},
		{UserID: "u1", ProductID: "p1", Kind: entities.InteractionView, Score: 3},
	}

	tests := []struct {
		name      string
		userID    string
		setup     func(*MockInteractionRepository)
		want      []*entities.Interaction
		wantErr   bool
		wantValid bool
	}{
		{
			name:   "rows returned",
			userID: " u1 ",
			setup: func(m *MockInteractionRepository) {
				m.On("ListByUser", mock.Anything, "u1", intPtr(1)).Return(rows, nil)
			},
			want: rows,
		},
		{
			name:   "no history",
			userID: "u2",
			setup: func(m *MockInteractionRepository) {
				m.On("ListByUser", mock.Anything, "u2", intPtr(1)).Return(nil, nil)
			},
			want: []*entities.Interaction{},
		},
		{
			name:      "missing user",
			userID:    "  ",
			setup:     func(m *MockInteractionRepository) {},
			wantErr:   true,
			wantValid: true,
		},
		{
			name:   "store error",
			userID: "u1",
			setup: func(m *MockInteractionRepository) {
				m.On("ListByUser", mock.Anything, "u1", intPtr(1)).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockInteractionRepository)
			tt.setup(repo)
			svc := NewInteractionService(repo, nil)

			got, err := svc.History(context.Background(), tt.userID, intPtr(1))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantValid, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}
