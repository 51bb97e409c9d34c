package extraction

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/structured"
	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed jd_prompt.md
var jdPrompt string

const jdSystem = "Job requirements analyst. Return only valid JSON."

const jdSchema = `{
  "type": "object",
  "properties": {
    "minimum_experience_years": {"type": ["number", "string", "null"]},
    "required_technical_skills": {"type": ["array", "string", "null"]},
    "preferred_skills": {"type": ["array", "string", "null"]}
  }
}`

// JDExtractor builds requirement records from job descriptions.
type JDExtractor struct {
	llm    ai.Completer
	logger *zap.Logger
}

func NewJDExtractor(llm ai.Completer, l *zap.Logger) *JDExtractor {
	return &JDExtractor{llm: llm, logger: logger.WithCommonFields(l, llm.Provider(), llm.Model())}
}

// Extract returns the job's requirements. A missing minimum experience is 0.
func (e *JDExtractor) Extract(ctx context.Context, jdText string) (*candidates.Requirements, error) {
	if strings.TrimSpace(jdText) == "" {
		return nil, fmt.Errorf("job description: %w", ErrEmptyText)
	}

	raw, err := e.llm.Complete(ctx, ai.Request{
		System:      jdSystem,
		Prompt:      render(jdPrompt, "{{JD_TEXT}}", truncateRunes(jdText, maxInputRunes)),
		Temperature: parseTemperature,
		MaxTokens:   parseMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract requirements: %w", err)
	}

	e.logger.Debug("requirements extraction response", zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)))

	var req candidates.Requirements
	if err := structured.DecodeObject(raw, jdSchema, &req); err != nil {
		return nil, fmt.Errorf("extract requirements: %w", err)
	}

	if req.MinimumExperienceYears < 0 {
		req.MinimumExperienceYears = 0
	}
	req.RequiredTechnicalSkills = dedupe(req.RequiredTechnicalSkills)
	req.PreferredSkills = dedupe(req.PreferredSkills)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.SeniorityLevel = strings.TrimSpace(req.SeniorityLevel)

	e.logger.Info("job requirements extracted",
		zap.Float64("minimum_experience_years", req.MinimumExperienceYears),
		zap.Strings("required_skills", req.RequiredTechnicalSkills),
	)

	return &req, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
