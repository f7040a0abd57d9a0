// Package vectordb holds the knowledge store: documents, their embeddings,
// and nearest-neighbor search over them.
package vectordb

import (
	"context"

	"previsit-triage/internal/models"
)

// Result is one ranked hit from a similarity query. Smaller distance means
// higher relevance; downstream confidence treats relevance as 1 - distance.
type Result struct {
	Content  string
	Metadata map[string]string
	Distance float64
}

// Stats describes the current store population.
type Stats struct {
	DocumentCount  int
	Collection     string
	EmbeddingModel string
}

// Store is the knowledge store contract shared by the embedded and the
// Postgres backends. Ingest does not deduplicate; callers guard with a
// population check (see Setup). Query returns an empty slice, not an
// error, when the store holds no eligible records.
type Store interface {
	Ingest(ctx context.Context, docs []models.Document) error
	Query(ctx context.Context, text string, k int, filter map[string]string) ([]Result, error)
	Stats(ctx context.Context) (Stats, error)
	Reset(ctx context.Context) error
	Close() error
}
