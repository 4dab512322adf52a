// Package config loads the application configuration of the kbase command.
//
// Settings come, in increasing precedence, from built-in defaults, a YAML
// file, a .env file and KBASE_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/kbase/ai"
	"github.com/poiesic/kbase/contact"
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/search"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "kbase.yaml"

// CorpusConfig locates the scraped data. An empty ContactFile means
// contact_info.json inside Dir.
type CorpusConfig struct {
	Dir         string `yaml:"dir"`
	ContactFile string `yaml:"contact_file"`
}

// EmbedderConfig configures the OpenAI-compatible embedding service and the
// index build.
type EmbedderConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	APIKeyEnv    string        `yaml:"api_key_env"`
	BatchSize    int           `yaml:"batch_size"`
	PoolSize     int           `yaml:"pool_size"`
	Normalize    bool          `yaml:"normalize"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelayMS int           `yaml:"retry_delay_ms"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CacheConfig configures the persisted vector cache. An empty Dir disables it.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// RetrievalConfig configures query scoring.
type RetrievalConfig struct {
	K             int     `yaml:"k"`
	DistanceScale float64 `yaml:"distance_scale"`
	MinScore      float64 `yaml:"min_score"`
	PoolSize      int     `yaml:"pool_size"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LogLevel  string          `yaml:"log_level"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Cache     CacheConfig     `yaml:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	// Needs overrides the built-in needs table when non-empty.
	Needs []core.Category `yaml:"needs,omitempty"`
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	aiDefaults := ai.DefaultConfig()
	return &AppConfig{
		LogLevel: "info",
		Corpus: CorpusConfig{
			Dir: filepath.Dir(contact.DefaultFile),
		},
		Embedder: EmbedderConfig{
			BaseURL:      aiDefaults.EmbeddingHost,
			Model:        aiDefaults.EmbeddingModel,
			APIKeyEnv:    "OPENAI_API_KEY",
			BatchSize:    32,
			MaxAttempts:  3,
			RetryDelayMS: 500,
			Timeout:      aiDefaults.Timeout,
		},
		Retrieval: RetrievalConfig{
			K:             search.DefaultK,
			DistanceScale: search.DefaultDistanceScale,
			MinScore:      search.DefaultMinScore,
		},
	}
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDotEnv loads variables from the given .env files (".env" when none)
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from KBASE_* variables found by lookup.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("KBASE_LOG_LEVEL", &c.LogLevel)
	str("KBASE_CORPUS_DIR", &c.Corpus.Dir)
	str("KBASE_CONTACT_FILE", &c.Corpus.ContactFile)
	str("KBASE_CACHE_DIR", &c.Cache.Dir)
	str("KBASE_EMBEDDING_HOST", &c.Embedder.BaseURL)
	str("KBASE_EMBEDDING_MODEL", &c.Embedder.Model)
	if err := num("KBASE_DISTANCE_SCALE", &c.Retrieval.DistanceScale); err != nil {
		return err
	}
	return num("KBASE_MIN_SCORE", &c.Retrieval.MinScore)
}

// Validate checks the configuration.
func (c *AppConfig) Validate() error {
	if c.Corpus.Dir == "" {
		return errors.New("config: corpus.dir is required")
	}
	if c.Retrieval.DistanceScale <= 0 {
		return fmt.Errorf("config: retrieval.distance_scale: %w", search.ErrInvalidDistanceScale)
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 100 {
		return fmt.Errorf("config: retrieval.min_score: %w", search.ErrInvalidMinScore)
	}
	if len(c.Needs) > 0 {
		if err := core.ValidateCategories(c.Needs); err != nil {
			return fmt.Errorf("config: needs: %w", err)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return c.AIConfig().Validate()
}

// ContactFilePath returns the aggregated contact file: corpus.contact_file
// when set, otherwise contact_info.json in the corpus directory.
func (c *AppConfig) ContactFilePath() string {
	if c.Corpus.ContactFile != "" {
		return c.Corpus.ContactFile
	}
	return filepath.Join(c.Corpus.Dir, filepath.Base(contact.DefaultFile))
}

// AIConfig returns the embedding service settings. The token is read from the
// variable named by embedder.api_key_env.
func (c *AppConfig) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.Embedder.BaseURL),
		ai.WithEmbeddingModel(c.Embedder.Model),
		ai.WithTimeout(c.Embedder.Timeout),
	}
	if c.Embedder.APIKeyEnv != "" {
		if token := os.Getenv(c.Embedder.APIKeyEnv); token != "" {
			opts = append(opts, ai.WithToken(token))
		}
	}
	return ai.NewConfig(opts...)
}

func applyDefaults(cfg *AppConfig) {
	defaults := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = defaults.Corpus.Dir
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = defaults.Embedder.BaseURL
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = defaults.Embedder.Model
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = defaults.Embedder.BatchSize
	}
	if cfg.Embedder.MaxAttempts == 0 {
		cfg.Embedder.MaxAttempts = defaults.Embedder.MaxAttempts
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = defaults.Retrieval.K
	}
	if cfg.Retrieval.DistanceScale == 0 {
		cfg.Retrieval.DistanceScale = defaults.Retrieval.DistanceScale
	}
}

// ParseLevel converts a level name to a slog level name accepted by the
// command line: debug, info, warn or error.
func ParseLevel(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return "debug", nil
	case "", "info":
		return "info", nil
	case "warn", "warning":
		return "warn", nil
	case "error":
		return "error", nil
	}
	return "", fmt.Errorf("config: unknown log level %q", name)
}
