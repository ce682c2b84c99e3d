package entities

import "time"

// InteractionKind is the type of user action on a product.
type InteractionKind string

const (
	InteractionView      InteractionKind = "view"
	InteractionAddToCart InteractionKind = "add_to_cart"
	InteractionPurchase  InteractionKind = "purchase"
	InteractionReview    InteractionKind = "review"
)

var interactionWeights = map[InteractionKind]float64{
	InteractionView:      1,
	InteractionAddToCart: 3,
	InteractionPurchase:  5,
	InteractionReview:    4,
}

// Weight is the affinity added to an interaction's score each time the
// action is recorded. Unknown kinds weigh zero.
func (k InteractionKind) Weight() float64 {
	return interactionWeights[k]
}

// IsValid reports whether k is a known interaction kind.
func (k InteractionKind) IsValid() bool {
	_, ok := interactionWeights[k]
	return ok
}

// InteractionKinds returns all kinds in ascending weight order.
func InteractionKinds() []InteractionKind {
	return []InteractionKind{InteractionView, InteractionAddToCart, InteractionReview, InteractionPurchase}
}

// Interaction is the running affinity of a user for a product through one
// kind of action. Score accumulates on every repeat; it is not a count.
type Interaction struct {
	UserID        string          `json:"user_id" db:"user_id"`
	ProductID     string          `json:"product_id" db:"product_id"`
	Kind          InteractionKind `json:"kind" db:"kind"`
	Score         float64         `json:"score" db:"score"`
	SessionID     *string         `json:"session_id,omitempty" db:"session_id"`
	ModuleID      *int            `json:"module_id,omitempty" db:"module_id"`
	LastUpdatedAt time.Time       `json:"last_updated_at" db:"last_updated_at"`
}

// InteractionInput is a single recorded user action.
type InteractionInput struct {
	UserID    string          `json:"user_id" validate:"required,max=128"`
	ProductID string          `json:"product_id" validate:"required,max=128"`
	Kind      InteractionKind `json:"kind" validate:"required,oneof=view add_to_cart purchase review"`
	SessionID *string         `json:"session_id,omitempty" validate:"omitempty,max=128"`
	ModuleID  *int            `json:"module_id,omitempty" validate:"omitempty,gte=0"`
}

// ProductUser is one distinct (user, product) pair from the interaction log.
type ProductUser struct {
	UserID    string `db:"user_id"`
	ProductID string `db:"product_id"`
}

// ProductScore is an aggregated score for a product.
type ProductScore struct {
	ProductID string  `db:"product_id"`
	Score     float64 `db:"score"`
}
