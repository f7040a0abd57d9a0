package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at one langchaingo-backed model endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "openai"
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
	Enabled  bool   `yaml:"enabled"`
}

// RAGConfig tunes retrieval and supplemental-document chunking.
type RAGConfig struct {
	TopK         int `yaml:"top_k"`
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// StoreConfig selects and configures the knowledge store backend.
type StoreConfig struct {
	Backend    string `yaml:"backend"` // "chromem" or "postgres"
	DBPath     string `yaml:"db_path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

// DatabaseConfig is the Postgres/pgvector backend connection.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// HospitalConfig identifies the institution named in answers and fallbacks.
type HospitalConfig struct {
	Name           string `yaml:"name"`
	Phone          string `yaml:"phone"`
	EmergencyPhone string `yaml:"emergency_phone"`
}

type Config struct {
	DataDir        string         `yaml:"data_dir"`
	SupplementsDir string         `yaml:"supplements_dir"`
	Store          StoreConfig    `yaml:"store"`
	Database       DatabaseConfig `yaml:"database"`
	Hospital       HospitalConfig `yaml:"hospital"`
	EmbedLLM       LLMConfig      `yaml:"embed_llm"`
	GenLLM         LLMConfig      `yaml:"gen_llm"`
	RAG            RAGConfig      `yaml:"rag"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "chromem"
	}
	if c.Store.DBPath == "" {
		c.Store.DBPath = "./previsit_db"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "healthcare_knowledge"
	}
	if c.Hospital.Name == "" {
		c.Hospital.Name = "SuperHealth Medical Center"
	}
	if c.Hospital.Phone == "" {
		c.Hospital.Phone = "(555) 123-HEALTH"
	}
	if c.Hospital.EmergencyPhone == "" {
		c.Hospital.EmergencyPhone = "911"
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 5
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
}

// Default returns a config with all defaults applied, for callers running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
