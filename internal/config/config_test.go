package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_dir: ./testdata
store:
  backend: postgres
hospital:
  name: Riverside General
gen_llm:
  provider: ollama
  model: llama3
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./testdata", cfg.DataDir)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "Riverside General", cfg.Hospital.Name)
	assert.True(t, cfg.GenLLM.Enabled)

	// Unset fields pick up defaults.
	assert.Equal(t, "healthcare_knowledge", cfg.Store.Collection)
	assert.Equal(t, "(555) 123-HEALTH", cfg.Hospital.Phone)
	assert.Equal(t, "911", cfg.Hospital.EmergencyPhone)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chromem", cfg.Store.Backend)
	assert.Equal(t, "./previsit_db", cfg.Store.DBPath)
	assert.Equal(t, "SuperHealth Medical Center", cfg.Hospital.Name)
	assert.False(t, cfg.GenLLM.Enabled)
}
