package vectordb

import (
	"context"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/corpus"
)

// Setup populates the store from the corpus loader unless it already holds
// records. Running it twice against a populated store changes nothing; the
// population check is the ingest idempotency guard.
func Setup(ctx context.Context, store Store, loader *corpus.Loader) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.DocumentCount > 0 {
		log.Info().Int("documents", stats.DocumentCount).Msg("knowledge store already populated, skipping ingest")
		return nil
	}

	docs := loader.LoadAll()
	if len(docs) == 0 {
		log.Warn().Msg("corpus produced no documents, store remains empty")
		return nil
	}
	return store.Ingest(ctx, docs)
}
