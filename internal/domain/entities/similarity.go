package entities

import "time"

// SimilarityKind identifies how a similarity edge was derived.
type SimilarityKind string

const (
	SimilarityContent       SimilarityKind = "content"
	SimilarityCollaborative SimilarityKind = "collaborative"
	SimilarityCoPurchase    SimilarityKind = "co_purchase"
)

// SimilarityEdge scores how related ProductB is to ProductA. Edges are
// directional: an A→B edge says nothing about B→A.
type SimilarityEdge struct {
	ProductA  string         `json:"product_a" db:"product_a"`
	ProductB  string         `json:"product_b" db:"product_b"`
	Score     float64        `json:"score" db:"score"`
	Kind      SimilarityKind `json:"kind" db:"kind"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
