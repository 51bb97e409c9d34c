package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type fallback struct {
	primary   Completer
	secondary Completer
	logger    *zap.Logger
}

// WithFallback wraps primary so that an auth or rate-limit failure is retried
// exactly once against secondary. A nil secondary returns primary unchanged.
func WithFallback(primary, secondary Completer, logger *zap.Logger) Completer {
	if secondary == nil {
		return primary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallback) Complete(ctx context.Context, req Request) (string, error) {
	out, err := f.primary.Complete(ctx, req)
	if err == nil {
		return out, nil
	}
	if !IsFallbackEligible(err) {
		return "", err
	}

	f.logger.Warn("primary llm credential failed, switching to fallback",
		zap.String("primary", f.primary.Provider()),
		zap.String("fallback", f.secondary.Provider()),
		zap.Error(err),
	)

	out, ferr := f.secondary.Complete(ctx, req)
	if ferr != nil {
		return "", fmt.Errorf("fallback also failed: %w", ferr)
	}
	return out, nil
}

func (f *fallback) Provider() string { return f.primary.Provider() }

func (f *fallback) Model() string { return f.primary.Model() }
