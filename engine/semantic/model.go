// Package semantic owns all Qdrant operations. It stores embedded
// maintenance tips and serves similarity search for the discover feed's
// related-tips lookups.
package semantic

// TipHit is a single similarity search hit.
type TipHit struct {
	ID       string  `json:"id"`
	Score    float32 `json:"score"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	Category string  `json:"category"`
}

// TipRecord is one embedded tip to store.
type TipRecord struct {
	ID        string
	Embedding []float32
	Title     string
	Body      string
	Category  string
}
