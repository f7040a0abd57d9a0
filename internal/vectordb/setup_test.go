package vectordb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"previsit-triage/internal/corpus"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSetupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "hospital_faqs.json", `[
		{"question": "What should I bring?", "answer": "Photo ID and insurance card.", "category": "visits", "keywords": ["documents"]},
		{"question": "Where do I park?", "answer": "Main lot, free of charge.", "category": "logistics", "keywords": ["parking"]}
	]`)
	writeFixture(t, dir, "triage_mapping.json", `[
		{"symptoms": ["chest pain"], "urgency_level": "URGENT", "recommended_department": "Cardiology", "triage_priority": 2, "estimated_wait": "30-60 minutes"}
	]`)

	store := newTestStore(t)
	loader := corpus.NewLoader(dir, "", 0, 0)
	ctx := context.Background()

	require.NoError(t, Setup(ctx, store, loader))
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.DocumentCount)

	// A second run against the populated store must not duplicate records.
	require.NoError(t, Setup(ctx, store, loader))
	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.DocumentCount)
}

func TestSetupEmptyCorpusLeavesStoreEmpty(t *testing.T) {
	store := newTestStore(t)
	loader := corpus.NewLoader(t.TempDir(), "", 0, 0)
	ctx := context.Background()

	require.NoError(t, Setup(ctx, store, loader))
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.DocumentCount)
}
