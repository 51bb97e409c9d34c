package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/groq"
	"github.com/spigell/resume-screener/internal/secrets"
	"github.com/spigell/resume-screener/internal/storage"
)

// newCompleter builds the primary LLM client and wraps it with the fallback
// one when a fallback key is configured.
func newCompleter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Completer, error) {
	primary, err := newProvider(ctx, cfg, cfg.Provider, "", "", "", logger)
	if err != nil {
		return nil, err
	}

	fb := cfg.Fallback
	if fb == nil {
		return primary, nil
	}

	key, err := secrets.LoadOptional(secrets.Source{Name: "fallback api key", Value: fb.APIKey, File: fb.APIKeyFile})
	if err != nil {
		return nil, err
	}
	if key == "" {
		return primary, nil
	}

	provider := strings.ToLower(strings.TrimSpace(fb.Provider))
	if provider == "" {
		provider = cfg.Provider
	}

	secondary, err := newProvider(ctx, cfg, provider, key, fb.Model, "fallback", logger)
	if err != nil {
		return nil, fmt.Errorf("building fallback llm: %w", err)
	}

	logger.Info("fallback llm configured", zap.String("provider", secondary.Provider()), zap.String("model", secondary.Model()))
	return ai.WithFallback(primary, secondary, logger), nil
}

// newProvider returns a client for provider. An empty key is loaded from the
// provider's own config; an empty model uses the provider's configured model.
func newProvider(ctx context.Context, cfg *AIConfig, provider, key, model, role string, logger *zap.Logger) (ai.Completer, error) {
	if role == "" {
		role = "primary"
	}
	logger = logger.With(zap.String("llm_role", role))

	switch provider {
	case gemini.Provider:
		if key == "" {
			var err error
			key, err = secrets.Load(secrets.Source{Name: "gemini api key", Value: cfg.Gemini.APIKey, File: cfg.Gemini.APIKeyFile})
			if err != nil {
				return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
			}
		}
		if model == "" {
			model = cfg.Gemini.Model
		}
		return gemini.NewGenerator(ctx, key, model, cfg.Gemini.MaxRetries, logger)
	case groq.Provider:
		if key == "" {
			var err error
			key, err = secrets.Load(secrets.Source{Name: "groq api key", Value: cfg.Groq.APIKey, File: cfg.Groq.APIKeyFile})
			if err != nil {
				return nil, fmt.Errorf("%w (set ai.groq.api-key-file or GROQ_API_KEY_FILE)", err)
			}
		}
		if model == "" {
			model = cfg.Groq.Model
		}
		client, err := groq.New(key, model, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Groq.BaseURL != "" {
			client.BaseURL = strings.TrimRight(cfg.Groq.BaseURL, "/")
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}

func newStore(ctx context.Context, cfg *StorageConfig, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Backend {
	case "minio":
		secret, err := secrets.Load(secrets.Source{
			Name:  "minio secret access key",
			Value: cfg.MinIO.SecretAccessKey,
			File:  cfg.MinIO.SecretKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewMinIO(ctx, *cfg.MinIO, secret, logger)
	default:
		return storage.NewLocal(cfg.Root, logger), nil
	}
}
