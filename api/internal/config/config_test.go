package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, file string) (*Config, error) {
	t.Helper()
	v, err := NewViper(file)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := load(t, "")
		require.NoError(t, err)
		assert.Equal(t, "cache", cfg.CacheDir)
		assert.Equal(t, "output", cfg.OutputDir)
		assert.Equal(t, "fipi", cfg.Site)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "http://os.fipi.ru/api", cfg.FIPI.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.FIPI.Timeout)
		assert.Equal(t, 100, cfg.FIPI.PageSize)
		assert.Equal(t, 3, cfg.FIPI.MaxAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.FIPI.RetryWait)
		assert.True(t, cfg.Normalize.DropEmptyOptions)
		assert.Equal(t, "id", cfg.Output.TypeFormat)
		assert.Equal(t, time.Second, cfg.Telegram.Delay)
		assert.Empty(t, cfg.Subjects)
	})

	t.Run("Should read environment overrides", func(t *testing.T) {
		t.Setenv("CRAWLER_SESSION", "abc")
		t.Setenv("CRAWLER_FIPI_MAX_ATTEMPTS", "5")
		t.Setenv("CRAWLER_FIPI_TIMEOUT", "10s")
		t.Setenv("CRAWLER_LOG_LEVEL", "DEBUG")
		t.Setenv("CRAWLER_SUBJECTS", "russian, history")
		t.Setenv("CRAWLER_TELEGRAM_CHAT_ID", "-1001")

		cfg, err := load(t, "")
		require.NoError(t, err)
		assert.Equal(t, "abc", cfg.Session)
		assert.Equal(t, 5, cfg.FIPI.MaxAttempts)
		assert.Equal(t, 10*time.Second, cfg.FIPI.Timeout)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, []string{"russian", "history"}, cfg.Subjects)
		assert.Equal(t, int64(-1001), cfg.Telegram.ChatID)
	})

	t.Run("Should read a YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "crawler.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
cache_dir: /var/cache/crawler
output:
  type_format: composite
fipi:
  page_size: 50
`), 0o644))

		cfg, err := load(t, path)
		require.NoError(t, err)
		assert.Equal(t, "/var/cache/crawler", cfg.CacheDir)
		assert.Equal(t, "composite", cfg.Output.TypeFormat)
		assert.Equal(t, 50, cfg.FIPI.PageSize)
	})

	t.Run("Should fail on a missing config file", func(t *testing.T) {
		_, err := load(t, filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		cases := map[string]string{
			"CRAWLER_FIPI_MAX_ATTEMPTS":  "0",
			"CRAWLER_OUTPUT_TYPE_FORMAT": "name",
			"CRAWLER_LOG_LEVEL":          "loud",
			"CRAWLER_FIPI_BASE_URL":      "not a url",
			"CRAWLER_FIPI_TIMEOUT":       "0s",
			"CRAWLER_FIPI_PAGE_SIZE":     "0",
			"CRAWLER_FIPI_RETRY_WAIT":    "0s",
		}
		for env, value := range cases {
			t.Run(env, func(t *testing.T) {
				t.Setenv(env, value)
				_, err := load(t, "")
				assert.ErrorContains(t, err, "validation failed")
			})
		}
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c"}))
	assert.Empty(t, splitList(nil))
}
