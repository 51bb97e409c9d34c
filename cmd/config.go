package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/groq"
	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/storage"
)

const dateLayout = "2006-01-02"

type Config struct {
	AI          *AIConfig        `mapstructure:"ai" validate:"required"`
	Storage     *StorageConfig   `mapstructure:"storage" validate:"required"`
	Screening   *ScreeningConfig `mapstructure:"screening" validate:"required"`
	ExcludeFile string           `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Provider string          `mapstructure:"provider" validate:"oneof=gemini groq"`
	Gemini   *GeminiConfig   `mapstructure:"gemini"`
	Groq     *GroqConfig     `mapstructure:"groq"`
	Fallback *FallbackConfig `mapstructure:"fallback"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
}

type GroqConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url" validate:"omitempty,url"`
}

// FallbackConfig describes the secondary LLM used when the primary fails
// with an authentication or rate-limit error. Provider defaults to the
// primary provider, so a second key for the same provider is enough.
type FallbackConfig struct {
	Provider   string `mapstructure:"provider" validate:"omitempty,oneof=gemini groq"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type StorageConfig struct {
	Backend       string               `mapstructure:"backend" validate:"oneof=local minio"`
	Root          string               `mapstructure:"root"`
	ResumesFolder string               `mapstructure:"resumes-folder" validate:"required"`
	ExportsFolder string               `mapstructure:"exports-folder" validate:"required"`
	MinIO         *storage.MinIOConfig `mapstructure:"minio" validate:"required_if=Backend minio"`
}

type ScreeningConfig struct {
	TopN    int    `mapstructure:"top-n" validate:"oneof=1 2 3 5 10 15 20"`
	MaskPII bool   `mapstructure:"mask-pii"`
	Workers int    `mapstructure:"workers" validate:"gte=1,lte=32"`
	From    string `mapstructure:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `mapstructure:"to" validate:"omitempty,datetime=2006-01-02"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", groq.Provider)
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", gemini.DefaultMaxRetries)
	v.SetDefault("ai.groq.model", groq.DefaultModel)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.root", ".")
	v.SetDefault("storage.resumes-folder", "resumes")
	v.SetDefault("storage.exports-folder", "exports")
	v.SetDefault("screening.top-n", 5)
	v.SetDefault("screening.mask-pii", true)
	v.SetDefault("screening.workers", pipeline.DefaultWorkers)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Groq == nil {
		config.AI.Groq = &GroqConfig{}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return config, nil
}

// dateRange parses the screening window. To is inclusive, so it is moved to
// the end of its day.
func (c *ScreeningConfig) dateRange() (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if c.From != "" {
		if from, err = time.ParseInLocation(dateLayout, c.From, time.Local); err != nil {
			return from, to, fmt.Errorf("parsing from date: %w", err)
		}
	}
	if c.To != "" {
		if to, err = time.ParseInLocation(dateLayout, c.To, time.Local); err != nil {
			return from, to, fmt.Errorf("parsing to date: %w", err)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
