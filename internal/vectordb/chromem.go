package vectordb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"previsit-triage/internal/embedding"
	"previsit-triage/internal/models"
)

const compress = false

// ChromemStore is the embedded chromem-go backend. Reads are safe for
// concurrent use; ingest is a startup-time operation.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embedding.Embedder
	name       string
}

// NewChromemStore opens (or creates) the collection at dbPath. With
// inMemory set, nothing is persisted; tests use that mode.
func NewChromemStore(dbPath, collectionName string, inMemory bool, embedder embedding.Embedder) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector database: %w", err)
		}
	}

	s := &ChromemStore{db: db, embedder: embedder, name: collectionName}
	if err := s.openCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ChromemStore) openCollection() error {
	c, err := s.db.GetOrCreateCollection(s.name, nil, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.name, err)
	}
	s.collection = c
	return nil
}

func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// Ingest embeds every document and stores (id, content, metadata,
// embedding) records. Ids are "{source}_{i}" with i counting per source, so
// a rebuild of the same corpus produces the same ids.
func (s *ChromemStore) Ingest(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		log.Info().Msg("no documents to ingest")
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d documents: %w", len(docs), err)
	}

	perSource := make(map[string]int)
	records := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		idx := perSource[doc.Source]
		perSource[doc.Source]++
		records[i] = chromem.Document{
			ID:        fmt.Sprintf("%s_%d", doc.Source, idx),
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: vectors[i],
		}
	}

	if err := s.collection.AddDocuments(ctx, records, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents to collection: %w", err)
	}
	log.Info().Int("documents", len(records)).Str("collection", s.name).Msg("documents ingested")
	return nil
}

// Query returns the k nearest records by ascending distance, optionally
// restricted by a metadata equality filter. An empty or filter-exhausted
// store yields an empty result set.
func (s *ChromemStore) Query(ctx context.Context, text string, k int, filter map[string]string) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVector,
		NResults:       k,
		Where:          filter,
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{
			Content:  hit.Content,
			Metadata: hit.Metadata,
			Distance: 1 - float64(hit.Similarity),
		}
	}
	return results, nil
}

func (s *ChromemStore) Stats(context.Context) (Stats, error) {
	return Stats{
		DocumentCount:  s.collection.Count(),
		Collection:     s.name,
		EmbeddingModel: s.embedder.Name(),
	}, nil
}

// Reset drops all stored records. Only rebuild paths call this; it is never
// implicit.
func (s *ChromemStore) Reset(context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.name, err)
	}
	return s.openCollection()
}

func (s *ChromemStore) Close() error { return nil }
