package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/kbase/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "scraped_data", cfg.Corpus.Dir)
	assert.Equal(t, search.DefaultK, cfg.Retrieval.K)
	assert.Equal(t, search.DefaultDistanceScale, cfg.Retrieval.DistanceScale)
	assert.Equal(t, search.DefaultMinScore, cfg.Retrieval.MinScore)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbase.yaml")
	content := `
corpus:
  dir: data
retrieval:
  distance_scale: 2.5
needs:
  - name: audit
    url: https://example.com/audit
    keywords: [audit, conformité]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Corpus.Dir)
	assert.Empty(t, cfg.Corpus.ContactFile)
	assert.Equal(t, filepath.Join("data", "contact_info.json"), cfg.ContactFilePath())
	assert.Equal(t, 2.5, cfg.Retrieval.DistanceScale)
	assert.Equal(t, search.DefaultMinScore, cfg.Retrieval.MinScore)
	assert.Equal(t, 32, cfg.Embedder.BatchSize)
	require.Len(t, cfg.Needs, 1)
	assert.Equal(t, []string{"audit", "conformité"}, cfg.Needs[0].Keywords)
	require.NoError(t, cfg.Validate())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbase.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kbase.yaml")
	cfg := Default()
	cfg.Cache.Dir = "/var/cache/kbase"
	cfg.Retrieval.MinScore = 50

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"KBASE_CORPUS_DIR":      "/srv/corpus",
		"KBASE_CACHE_DIR":       "/srv/cache",
		"KBASE_EMBEDDING_MODEL": "nomic-embed-text",
		"KBASE_DISTANCE_SCALE":  "1.5",
		"KBASE_MIN_SCORE":       "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "/srv/corpus", cfg.Corpus.Dir)
	assert.Equal(t, "/srv/cache", cfg.Cache.Dir)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.Model)
	assert.Equal(t, 1.5, cfg.Retrieval.DistanceScale)
	assert.Equal(t, search.DefaultMinScore, cfg.Retrieval.MinScore)
}

func TestContactFileFollowsCorpusDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("scraped_data", "contact_info.json"), cfg.ContactFilePath())

	env := map[string]string{"KBASE_CORPUS_DIR": "/srv/corpus"}
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, filepath.Join("/srv/corpus", "contact_info.json"), cfg.ContactFilePath())

	cfg.Corpus.ContactFile = "/etc/kbase/contact.json"
	assert.Equal(t, "/etc/kbase/contact.json", cfg.ContactFilePath())
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "KBASE_MIN_SCORE" {
			return "high", true
		}
		return "", false
	}
	err := Default().ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KBASE_MIN_SCORE")
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("distance scale must be positive", func(t *testing.T) {
		cfg := Default()
		cfg.Retrieval.DistanceScale = -1
		assert.ErrorIs(t, cfg.Validate(), search.ErrInvalidDistanceScale)
	})

	t.Run("min score in range", func(t *testing.T) {
		cfg := Default()
		cfg.Retrieval.MinScore = 120
		assert.ErrorIs(t, cfg.Validate(), search.ErrInvalidMinScore)
	})

	t.Run("unknown log level", func(t *testing.T) {
		cfg := Default()
		cfg.LogLevel = "chatty"
		assert.Error(t, cfg.Validate())
	})
}

func TestAIConfigReadsTokenFromEnv(t *testing.T) {
	t.Setenv("KBASE_TEST_TOKEN", "secret")
	cfg := Default()
	cfg.Embedder.APIKeyEnv = "KBASE_TEST_TOKEN"
	cfg.Embedder.BaseURL = "http://embeddings.local:8080"

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "secret", aiCfg.Token)
	assert.Equal(t, "http://embeddings.local:8080", aiCfg.EmbeddingHost)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KBASE_DOTENV_CHECK=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("KBASE_DOTENV_CHECK") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("KBASE_DOTENV_CHECK"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, "warn", lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", lvl)
}
