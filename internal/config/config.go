package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth
	APIKey string `env:"TEIGEST_API_KEY"`

	// Output. When set, overrides the TEI locations of the corpus config.
	OutputDir string `env:"OUTPUT_DIR"`

	// Corpus locations: an explicit file, or a name in the registry.
	CorpusConfig     string `env:"CORPUS_CONFIG"`
	CorpusConfigName string `env:"CORPUS_CONFIG_NAME" envDefault:"default"`
	CorpusRegistry   string `env:"CORPUS_REGISTRY"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" envDefault:"100"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"` // 50MB

	// Job state
	JobTTL          time.Duration `env:"JOB_TTL" envDefault:"1h"`
	DocumentTimeout time.Duration `env:"DOCUMENT_TIMEOUT" envDefault:"5m"`

	// Assembly
	FacsBaseURL string `env:"FACS_BASE_URL" envDefault:"https://swerik-project.github.io"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`
}

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	return cfg, nil
}

// Validate checks settings every entry point depends on.
func (c Config) Validate() error {
	if c.DocumentTimeout < 0 {
		return fmt.Errorf("DOCUMENT_TIMEOUT must not be negative")
	}
	if c.FacsBaseURL == "" {
		return fmt.Errorf("FACS_BASE_URL is required")
	}
	return nil
}

// ValidateServer additionally checks what the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return errors.New("TEIGEST_API_KEY is required")
	}
	return nil
}
