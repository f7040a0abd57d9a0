// Package db is the Postgres/pgvector knowledge store backend, for
// deployments that already run a managed Postgres instead of the embedded
// store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"previsit-triage/internal/config"
	"previsit-triage/internal/embedding"
	"previsit-triage/internal/models"
	"previsit-triage/internal/vectordb"
)

// KnowledgeRecord is one stored document row.
type KnowledgeRecord struct {
	bun.BaseModel `bun:"table:knowledge_records,alias:k"`

	ID        string            `bun:"id,pk"`
	Content   string            `bun:"content,notnull"`
	Metadata  map[string]string `bun:"metadata,type:jsonb"`
	Source    string            `bun:"source,notnull"`
	Embedding []float32         `bun:"embedding,notnull,type:vector(384)"`
	Distance  float64           `bun:"distance,scanonly"`
}

// PGStore implements vectordb.Store on top of bun + pgvector.
type PGStore struct {
	db       *bun.DB
	embedder embedding.Embedder
	name     string
}

func Connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL
	if !strings.Contains(dsn, "?") {
		dsn += "?sslmode=disable"
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

// NewPGStore wraps an open connection and ensures the table exists.
func NewPGStore(ctx context.Context, sqldb *sql.DB, cfg *config.DatabaseConfig, collection string, embedder embedding.Embedder) (*PGStore, error) {
	bdb := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	s := &PGStore{db: bdb, embedder: embedder, name: collection}
	if _, err := bdb.NewCreateTable().Model((*KnowledgeRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("creating knowledge_records table: %w", err)
	}
	return s, nil
}

func (s *PGStore) Ingest(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
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
	records := make([]KnowledgeRecord, len(docs))
	for i, doc := range docs {
		idx := perSource[doc.Source]
		perSource[doc.Source]++
		records[i] = KnowledgeRecord{
			ID:        fmt.Sprintf("%s_%d", doc.Source, idx),
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Source:    doc.Source,
			Embedding: vectors[i],
		}
	}

	if _, err := s.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return fmt.Errorf("inserting knowledge records: %w", err)
	}
	log.Info().Int("documents", len(records)).Msg("documents ingested into postgres store")
	return nil
}

func (s *PGStore) Query(ctx context.Context, text string, k int, filter map[string]string) ([]vectordb.Result, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	vec := vectorLiteral(queryVector)

	q := s.db.NewSelect().
		Model((*KnowledgeRecord)(nil)).
		ColumnExpr("k.*").
		ColumnExpr("embedding <=> ? AS distance", vec).
		OrderExpr("embedding <=> ?", vec).
		Limit(k)
	for key, value := range filter {
		q = q.Where("metadata->>? = ?", key, value)
	}

	var records []KnowledgeRecord
	if err := q.Scan(ctx, &records); err != nil {
		return nil, fmt.Errorf("searching knowledge records: %w", err)
	}

	results := make([]vectordb.Result, len(records))
	for i, record := range records {
		results[i] = vectordb.Result{
			Content:  record.Content,
			Metadata: record.Metadata,
			Distance: record.Distance,
		}
	}
	return results, nil
}

func (s *PGStore) Stats(ctx context.Context) (vectordb.Stats, error) {
	count, err := s.db.NewSelect().Model((*KnowledgeRecord)(nil)).Count(ctx)
	if err != nil {
		return vectordb.Stats{}, fmt.Errorf("counting knowledge records: %w", err)
	}
	return vectordb.Stats{
		DocumentCount:  count,
		Collection:     s.name,
		EmbeddingModel: s.embedder.Name(),
	}, nil
}

func (s *PGStore) Reset(ctx context.Context) error {
	if _, err := s.db.NewTruncateTable().Model((*KnowledgeRecord)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("truncating knowledge records: %w", err)
	}
	return nil
}

func (s *PGStore) Close() error { return s.db.Close() }

// vectorLiteral renders a pgvector input literal like [0.1,0.2,...].
func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
