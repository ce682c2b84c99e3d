package entities

import "time"

// FeedbackAction is what the user did with a recommended product.
type FeedbackAction string

const (
	FeedbackShown     FeedbackAction = "shown"
	FeedbackClicked   FeedbackAction = "clicked"
	FeedbackPurchased FeedbackAction = "purchased"
	FeedbackDismissed FeedbackAction = "dismissed"
)

// FeedbackEvent records the outcome of showing a recommendation. Events are
// append-only and only read for offline evaluation.
type FeedbackEvent struct {
	ID                 string             `json:"id" db:"id"`
	UserID             *string            `json:"user_id,omitempty" db:"user_id" validate:"omitempty,max=128"`
	SessionID          *string            `json:"session_id,omitempty" db:"session_id" validate:"omitempty,max=128"`
	ProductID          string             `json:"product_id" db:"product_id" validate:"required,max=128"`
	RecommendationKind RecommendationKind `json:"recommendation_kind" db:"recommendation_kind" validate:"required,oneof=personalized similar bundle trending contextual"`
	Action             FeedbackAction     `json:"action" db:"action" validate:"required,oneof=shown clicked purchased dismissed"`
	Position           *int               `json:"position,omitempty" db:"position" validate:"omitempty,gte=1"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}
