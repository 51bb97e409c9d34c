// Package interview generates targeted interview questions for a candidate.
package interview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/structured"
	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt.md
var questionsPrompt string

const (
	// QuestionCount is how many questions are requested per candidate.
	QuestionCount = 8

	questionsSystem      = "Interview question generator."
	questionsTemperature = 0.4
	questionsMaxTokens   = 2000
	maxJDRunes           = 1000
)

const questionsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "category": {"type": ["string", "null"]},
      "question": {"type": ["string", "null"]},
      "why_asking": {"type": ["string", "null"]}
    }
  }
}`

// Generator asks an LLM for interview questions.
type Generator struct {
	llm    ai.Completer
	logger *zap.Logger
}

func New(llm ai.Completer, l *zap.Logger) *Generator {
	return &Generator{llm: llm, logger: logger.WithCommonFields(l, llm.Provider(), llm.Model())}
}

// Generate returns questions tailored to rec and jdText. The returned slice is
// never nil: on failure it is empty and the error says why, so callers that
// only display questions may ignore the error.
func (g *Generator) Generate(ctx context.Context, rec *candidates.Record, jdText string) ([]candidates.InterviewQuestion, error) {
	questions := []candidates.InterviewQuestion{}
	if rec == nil {
		return questions, errors.New("no candidate to generate questions for")
	}

	prompt := strings.NewReplacer(
		"{{COUNT}}", strconv.Itoa(QuestionCount),
		"{{NAME}}", rec.DisplayName(),
		"{{EXPERIENCE}}", strconv.FormatFloat(rec.ExperienceYears, 'f', -1, 64),
		"{{TECH_STACK}}", rec.TechStack,
		"{{ROLE}}", rec.CurrentRole,
		"{{JD_TEXT}}", truncateRunes(jdText, maxJDRunes),
	).Replace(questionsPrompt)

	log := g.logger.With(logger.CandidateFields(rec.ID, rec.Filename)...)

	raw, err := g.llm.Complete(ctx, ai.Request{
		System:      questionsSystem,
		Prompt:      prompt,
		Temperature: questionsTemperature,
		MaxTokens:   questionsMaxTokens,
	})
	if err != nil {
		log.Warn("interview question generation failed", zap.Error(err))
		return questions, fmt.Errorf("generate questions: %w", err)
	}

	var parsed []candidates.InterviewQuestion
	if err := structured.DecodeArray(raw, questionsSchema, &parsed); err != nil {
		log.Warn("interview questions could not be parsed", zap.Error(err))
		return questions, fmt.Errorf("generate questions: %w", err)
	}

	for _, q := range parsed {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" {
			continue
		}
		q.Category = strings.TrimSpace(q.Category)
		q.WhyAsking = strings.TrimSpace(q.WhyAsking)
		questions = append(questions, q)
	}

	log.Info("interview questions generated", zap.Int("count", len(questions)))
	return questions, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
