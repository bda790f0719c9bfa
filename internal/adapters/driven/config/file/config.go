package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "rag-migrate.toml"

// EnvPrefix prefixes every environment override, e.g. RAGMIGRATE_PATHS_CHUNK_STORE.
const EnvPrefix = "RAGMIGRATE"

// Supported embedding providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config is the effective rag-migrate configuration.
type Config struct {
	Paths     PathsConfig     `toml:"paths" envconfig:"PATHS"`
	Chunking  ChunkingConfig  `toml:"chunking" envconfig:"CHUNKING"`
	Reduce    ReduceConfig    `toml:"reduce" envconfig:"REDUCE"`
	Embedding EmbeddingConfig `toml:"embedding" envconfig:"EMBEDDING"`
	Postgres  PostgresConfig  `toml:"postgres" envconfig:"POSTGRES"`
}

// PathsConfig holds the artifact locations shared between jobs.
type PathsConfig struct {
	ChunkStore      string `toml:"chunk_store" envconfig:"CHUNK_STORE"`
	VectorIndex     string `toml:"vector_index" envconfig:"VECTOR_INDEX"`
	MarkdownDir     string `toml:"markdown_dir" envconfig:"MARKDOWN_DIR"`
	MarkdownPattern string `toml:"markdown_pattern" envconfig:"MARKDOWN_PATTERN"`
	DocumentsExport string `toml:"documents_export" envconfig:"DOCUMENTS_EXPORT"`
	MarkdownExport  string `toml:"markdown_export" envconfig:"MARKDOWN_EXPORT"`
	VectorsExport   string `toml:"vectors_export" envconfig:"VECTORS_EXPORT"`
	ReducedVectors  string `toml:"reduced_vectors" envconfig:"REDUCED_VECTORS"`
	VectorsBackup   string `toml:"vectors_backup" envconfig:"VECTORS_BACKUP"`
	D1SQL           string `toml:"d1_sql" envconfig:"D1_SQL"`
	VectorizeJSONL  string `toml:"vectorize_jsonl" envconfig:"VECTORIZE_JSONL"`
	D1Database      string `toml:"d1_database" envconfig:"D1_DATABASE"`
}

// ChunkingConfig configures the recursive splitter.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size" envconfig:"CHUNK_SIZE"`
	ChunkOverlap int `toml:"chunk_overlap" envconfig:"CHUNK_OVERLAP"`
}

// ReduceConfig configures dimensionality reduction.
type ReduceConfig struct {
	TargetDimension int  `toml:"target_dimension" envconfig:"TARGET_DIMENSION"`
	OverwriteSource bool `toml:"overwrite_source" envconfig:"OVERWRITE_SOURCE"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider          string  `toml:"provider" envconfig:"PROVIDER"`
	Model             string  `toml:"model" envconfig:"MODEL"`
	BaseURL           string  `toml:"base_url" envconfig:"BASE_URL"`
	APIKey            string  `toml:"api_key" envconfig:"API_KEY"`
	BatchSize         int     `toml:"batch_size" envconfig:"BATCH_SIZE"`
	RequestsPerSecond float64 `toml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
}

// PostgresConfig configures the optional Postgres sinks.
type PostgresConfig struct {
	DSN             string `toml:"dsn" envconfig:"DSN"`
	DocumentsTable  string `toml:"documents_table" envconfig:"DOCUMENTS_TABLE"`
	EmbeddingsTable string `toml:"embeddings_table" envconfig:"EMBEDDINGS_TABLE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			ChunkStore:      "split_docs.gob",
			VectorIndex:     "vector_index.db",
			MarkdownDir:     "data/processed_markdown",
			MarkdownPattern: "*.md",
			DocumentsExport: "cloudflare-rag/migrations/documents_export.json",
			MarkdownExport:  "migrations/documents_export.json",
			VectorsExport:   "cloudflare-rag/migrations/faiss_export.json",
			ReducedVectors:  "cloudflare-rag/migrations/faiss_export_reduced.json",
			VectorsBackup:   "cloudflare-rag/migrations/faiss_export_original_3072.json",
			D1SQL:           "cloudflare-rag/migrations/import-d1.sql",
			VectorizeJSONL:  "cloudflare-rag/migrations/vectorize-import.jsonl",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
		Reduce: ReduceConfig{
			TargetDimension: 1536,
			OverwriteSource: true,
		},
		Embedding: EmbeddingConfig{
			Provider:  ProviderOllama,
			BatchSize: 32,
		},
		Postgres: PostgresConfig{
			DocumentsTable:  "documents",
			EmbeddingsTable: "embeddings",
		},
	}
}

// Load resolves the configuration.
// An explicit path must exist; with an empty path, DefaultFileName is used
// when present in the working directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file, defaults only.
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: config file %s", domain.ErrMissingArtifact, path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Ignore errors, as env vars might be set in the shell.
	_ = godotenv.Load(".env")

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", domain.ErrInvalidInput, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that no job can run without.
func (c *Config) Validate() error {
	required := []struct{ key, value string }{
		{"paths.chunk_store", c.Paths.ChunkStore},
		{"paths.vector_index", c.Paths.VectorIndex},
		{"paths.markdown_dir", c.Paths.MarkdownDir},
		{"paths.markdown_pattern", c.Paths.MarkdownPattern},
		{"paths.documents_export", c.Paths.DocumentsExport},
		{"paths.markdown_export", c.Paths.MarkdownExport},
		{"paths.vectors_export", c.Paths.VectorsExport},
		{"paths.reduced_vectors", c.Paths.ReducedVectors},
		{"paths.vectors_backup", c.Paths.VectorsBackup},
		{"paths.d1_sql", c.Paths.D1SQL},
		{"paths.vectorize_jsonl", c.Paths.VectorizeJSONL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, r.key)
		}
	}

	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunking.chunk_size must be > 0", domain.ErrInvalidInput)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunking.chunk_overlap must be >= 0 and < chunk_size", domain.ErrInvalidInput)
	}
	if c.Reduce.TargetDimension <= 0 {
		return fmt.Errorf("%w: reduce.target_dimension must be > 0", domain.ErrInvalidInput)
	}

	switch c.Embedding.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: embedding.provider must be %q or %q, got %q",
			domain.ErrInvalidInput, ProviderOllama, ProviderOpenAI, c.Embedding.Provider)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding.batch_size must be > 0", domain.ErrInvalidInput)
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: embedding.requests_per_second must be >= 0", domain.ErrInvalidInput)
	}

	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the configuration to path, refusing to replace an existing file.
func (c *Config) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
