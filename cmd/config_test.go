package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, yaml string) (*Config, error) {
	t.Helper()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	return decodeConfig(v)
}

func TestDecodeConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(t, "")
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.AI.Groq.Model)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "resumes", cfg.Storage.ResumesFolder)
	assert.Equal(t, 5, cfg.Screening.TopN)
	assert.True(t, cfg.Screening.MaskPII)
	assert.Equal(t, 4, cfg.Screening.Workers)
}

func TestDecodeConfigFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(t, `
ai:
  provider: Gemini
  gemini:
    api-key-file: /run/secrets/gemini
    max-retries: 2
  fallback:
    provider: groq
    api-key-file: /run/secrets/groq
storage:
  backend: minio
  minio:
    endpoint: localhost:9000
    bucket: resumes
    access-key-id: minio
screening:
  top-n: 10
  mask-pii: false
  from: "2025-01-01"
  to: "2025-01-31"
exclude-file: hired.txt
`)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "/run/secrets/gemini", cfg.AI.Gemini.APIKeyFile)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, 2, cfg.AI.Gemini.MaxRetries)
	assert.Equal(t, "groq", cfg.AI.Fallback.Provider)
	assert.Equal(t, "localhost:9000", cfg.Storage.MinIO.Endpoint)
	assert.Equal(t, "minio", cfg.Storage.MinIO.AccessKeyID)
	assert.Equal(t, 10, cfg.Screening.TopN)
	assert.False(t, cfg.Screening.MaskPII)
	assert.Equal(t, "hired.txt", cfg.ExcludeFile)

	from, to, err := cfg.Screening.dateRange()
	require.NoError(t, err)
	assert.True(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local).Equal(from))
	assert.True(t, time.Date(2025, time.January, 31, 23, 59, 59, 999999999, time.Local).Equal(to))
}

func TestDecodeConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown provider", yaml: "ai:\n  provider: openai\n"},
		{name: "unsupported top n", yaml: "screening:\n  top-n: 4\n"},
		{name: "minio without settings", yaml: "storage:\n  backend: minio\n"},
		{name: "minio without bucket", yaml: "storage:\n  backend: minio\n  minio:\n    endpoint: localhost:9000\n"},
		{name: "bad date", yaml: "screening:\n  from: 01/02/2025\n"},
		{name: "too many workers", yaml: "screening:\n  workers: 100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadConfig(t, tt.yaml)
			assert.Error(t, err)
		})
	}
}

func TestDateRangeEmpty(t *testing.T) {
	t.Parallel()

	from, to, err := (&ScreeningConfig{}).dateRange()
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
