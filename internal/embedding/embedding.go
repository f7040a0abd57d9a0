package embedding

import (
	"context"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/config"
)

// Dimensions is the fixed embedding length shared by every provider.
const Dimensions = 384

// Embedder maps texts to fixed-length vectors, order-preserving, one vector
// per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// NewWithFallback builds the learned embedder when one is configured and
// reachable, and otherwise degrades to the deterministic provider with a
// single warning. Embedding never reaches the caller as a fatal error.
func NewWithFallback(cfg *config.LLMConfig) Embedder {
	if cfg == nil || !cfg.Enabled {
		log.Debug().Msg("no embedding model configured, using deterministic embeddings")
		return NewDeterministic()
	}
	learned, err := NewLearned(cfg)
	if err != nil {
		log.Warn().Err(err).Str("model", cfg.Model).Msg("embedding model unavailable, falling back to deterministic embeddings")
		return NewDeterministic()
	}
	return learned
}
