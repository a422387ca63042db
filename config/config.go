package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AmanChauhan7010/bookfinder/ai"
)

// DefaultPath is the config file the CLI reads when no --config flag is given.
const DefaultPath = "bookfinder.yaml"

// StorageConfig locates the two stores.
type StorageConfig struct {
	// EmbeddingsDir is the badger directory holding embedding records.
	EmbeddingsDir string `yaml:"embeddings_dir"`
	// BooksPath is the sqlite file holding book metadata.
	BooksPath string `yaml:"books_path"`
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Host        string `yaml:"host"`
	Model       string `yaml:"model"`
	Token       string `yaml:"token,omitempty"`
	Dimension   int    `yaml:"dimension"`
	ProbeOnLoad bool   `yaml:"probe_on_load"`
}

// SearchConfig tunes the retrieval pipeline.
type SearchConfig struct {
	Limit        int           `yaml:"limit"`
	Overfetch    int           `yaml:"overfetch"`
	MaxWidenings int           `yaml:"max_widenings"`
	Timeout      time.Duration `yaml:"timeout"`
	// Parallelism is the ranker's worker count; below 2 the scan is sequential.
	Parallelism int `yaml:"parallelism"`
}

// IndexingConfig tunes the offline indexing job.
type IndexingConfig struct {
	BatchSize  int           `yaml:"batch_size"`
	Workers    int           `yaml:"workers"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Normalize  bool          `yaml:"normalize"`
}

// Config is the whole configuration file.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Indexing  IndexingConfig  `yaml:"indexing"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			EmbeddingsDir: filepath.Join("data", "embeddings"),
			BooksPath:     filepath.Join("data", "books.db"),
		},
		Embedding: EmbeddingConfig{
			Host:        aiDefaults.EmbeddingHost,
			Model:       aiDefaults.EmbeddingModel,
			Dimension:   aiDefaults.Dimension,
			ProbeOnLoad: aiDefaults.ProbeOnLoad,
		},
		Search: SearchConfig{
			Limit:     10,
			Overfetch: 3,
			Timeout:   30 * time.Second,
		},
		Indexing: IndexingConfig{
			BatchSize:  64,
			Workers:    2,
			MaxRetries: 3,
			RetryDelay: time.Second,
			Normalize:  true,
		},
	}
}

// Load reads the file at path on top of Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Storage.EmbeddingsDir == "":
		return fmt.Errorf("%w: storage.embeddings_dir is required", ErrInvalidConfig)
	case c.Storage.BooksPath == "":
		return fmt.Errorf("%w: storage.books_path is required", ErrInvalidConfig)
	case c.Search.Limit < 1:
		return fmt.Errorf("%w: search.limit must be positive", ErrInvalidConfig)
	case c.Search.Overfetch < 1:
		return fmt.Errorf("%w: search.overfetch must be positive", ErrInvalidConfig)
	case c.Search.MaxWidenings < 0:
		return fmt.Errorf("%w: search.max_widenings cannot be negative", ErrInvalidConfig)
	case c.Search.Timeout < 0:
		return fmt.Errorf("%w: search.timeout cannot be negative", ErrInvalidConfig)
	case c.Indexing.BatchSize < 1:
		return fmt.Errorf("%w: indexing.batch_size must be positive", ErrInvalidConfig)
	case c.Indexing.MaxRetries < 1:
		return fmt.Errorf("%w: indexing.max_retries must be positive", ErrInvalidConfig)
	}
	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// AIConfig converts the embedding section to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithToken(c.Embedding.Token),
		ai.WithDimension(c.Embedding.Dimension),
		ai.WithProbeOnLoad(c.Embedding.ProbeOnLoad),
	)
}
