// Package file provides TOML-based configuration loading.
// Configuration lives in ~/.askdoc/config.toml; secrets may be supplied
// through the environment instead of the file.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultCollection     = "askdoc"
	DefaultChunkSize      = 500
	DefaultBatchSize      = 200
	DefaultScrollLimit    = 100
	DefaultRetrievalLimit = 5
)

// Environment variables that override file values. These carry secrets
// that should not be written to disk.
const (
	EnvQdrantAPIKey = "ASKDOC_QDRANT_API_KEY"
	EnvSMTPUsername = "ASKDOC_SMTP_USERNAME"
	EnvSMTPPassword = "ASKDOC_SMTP_PASSWORD"
)

// Config is the full application configuration.
type Config struct {
	// Qdrant configures the vector store connection.
	Qdrant QdrantConfig `toml:"qdrant"`

	// Ollama configures the embedding and chat models.
	Ollama OllamaConfig `toml:"ollama"`

	// Ingest configures the ingestion pipeline.
	Ingest IngestConfig `toml:"ingest"`

	// Query configures retrieval.
	Query QueryConfig `toml:"query"`

	// SMTP configures answer delivery by email.
	SMTP SMTPConfig `toml:"smtp"`
}

// QdrantConfig holds vector store connection settings.
type QdrantConfig struct {
	// URL is the Qdrant REST endpoint. Empty means the adapter default.
	URL string `toml:"url"`

	// APIKey authenticates requests. Prefer ASKDOC_QDRANT_API_KEY.
	APIKey string `toml:"api_key"`

	// Collection is the vector collection name.
	Collection string `toml:"collection"`
}

// OllamaConfig holds model settings.
type OllamaConfig struct {
	// URL is the Ollama endpoint. Empty means the adapter default.
	URL string `toml:"url"`

	// EmbedModel is the embedding model name.
	EmbedModel string `toml:"embed_model"`

	// EmbedDimensions is the embedding vector size. Must match the model.
	EmbedDimensions int `toml:"embed_dimensions"`

	// ChatModel is the chat model name.
	ChatModel string `toml:"chat_model"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	// ChunkSize is the maximum characters per chunk.
	ChunkSize int `toml:"chunk_size"`

	// BatchSize is the number of records per upsert request.
	BatchSize int `toml:"batch_size"`

	// ScrollLimit caps document-listing enumeration.
	ScrollLimit int `toml:"scroll_limit"`

	// EmbedRate throttles embedding requests per second. Zero disables
	// throttling.
	EmbedRate float64 `toml:"embed_rate"`
}

// QueryConfig holds retrieval settings.
type QueryConfig struct {
	// RetrievalLimit is the number of passages retrieved as context.
	RetrievalLimit int `toml:"retrieval_limit"`
}

// SMTPConfig holds email delivery settings.
type SMTPConfig struct {
	// Host is the SMTP server host. Empty means the adapter default.
	Host string `toml:"host"`

	// Port is the SMTP server port. Zero means the adapter default.
	Port int `toml:"port"`

	// Username is the sender account. Prefer ASKDOC_SMTP_USERNAME.
	Username string `toml:"username"`

	// Password is the account or app password. Prefer ASKDOC_SMTP_PASSWORD.
	Password string `toml:"password"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".askdoc", "config.toml"), nil
}

// Load reads the configuration from path, applies defaults, and applies
// environment overrides. A missing file yields the defaults; path == ""
// means the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = DefaultCollection
	}
	if c.Ingest.ChunkSize <= 0 {
		c.Ingest.ChunkSize = DefaultChunkSize
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = DefaultBatchSize
	}
	if c.Ingest.ScrollLimit <= 0 {
		c.Ingest.ScrollLimit = DefaultScrollLimit
	}
	if c.Query.RetrievalLimit <= 0 {
		c.Query.RetrievalLimit = DefaultRetrievalLimit
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvQdrantAPIKey); v != "" {
		c.Qdrant.APIKey = v
	}
	if v := os.Getenv(EnvSMTPUsername); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.SMTP.Password = v
	}
}
