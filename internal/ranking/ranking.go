// Package ranking orders pre-screened candidates against a job description
// by blending an LLM assessment with lexical similarity.
package ranking

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/structured"
	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/similarity"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var rankPrompt string

const (
	// LLMWeight and SemanticWeight blend the two scores into the final one.
	LLMWeight      = 0.7
	SemanticWeight = 0.3

	rankTemperature = 0.3
	rankMaxTokens   = 3000
	maxLogLength    = 300
)

const rankSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "candidate_id": {"type": ["string", "null"]},
      "name": {"type": ["string", "null"]},
      "match_percentage": {"type": ["number", "string", "null"]}
    }
  }
}`

// ErrInvalidTopN is returned when fewer than one result is requested.
var ErrInvalidTopN = errors.New("top n must be at least 1")

type rankPayload struct {
	CandidateID       string  `json:"candidate_id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	MatchPercentage   float64 `json:"match_percentage"`
	Strengths         string  `json:"strengths"`
	Gaps              string  `json:"gaps"`
	Recommendation    string  `json:"recommendation"`
	InterviewPriority string  `json:"interview_priority"`
}

// Ranker produces ranked match results. It keeps no state between calls.
type Ranker struct {
	llm    ai.Completer
	logger *zap.Logger
	score  func(a, b string) float64
}

func New(llm ai.Completer, l *zap.Logger) *Ranker {
	return &Ranker{
		llm:    llm,
		logger: logger.WithCommonFields(l, llm.Provider(), llm.Model()),
		score:  similarity.Score,
	}
}

// Rank asks the LLM for the best min(topN, len(qualified)) candidates and
// blends its match percentage with the lexical similarity between the
// candidate's resume text and jdText. texts holds resume text by candidate id;
// candidates without text keep the LLM score as their final score. Results are
// sorted by final score and ranked densely from 1.
func (r *Ranker) Rank(ctx context.Context, qualified []*candidates.Record, jdText string, topN int, texts map[string]string) ([]candidates.MatchResult, error) {
	if topN < 1 {
		return nil, ErrInvalidTopN
	}
	if len(qualified) == 0 {
		return nil, nil
	}

	n := min(topN, len(qualified))
	prompt := strings.NewReplacer(
		"{{TOP_N}}", strconv.Itoa(n),
		"{{JD_TEXT}}", jdText,
		"{{CANDIDATES}}", summarize(qualified),
	).Replace(rankPrompt)

	r.logger.Info("ranking candidates", zap.Int("pool", len(qualified)), zap.Int("top_n", n))

	raw, err := r.llm.Complete(ctx, ai.Request{
		System:      fmt.Sprintf("Expert technical recruiter AI. You MUST return exactly %d candidates.", n),
		Prompt:      prompt,
		Temperature: rankTemperature,
		MaxTokens:   rankMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}

	r.logger.Debug("ranking response", zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)))

	var entries []rankPayload
	if err := structured.DecodeArray(raw, rankSchema, &entries); err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	if len(entries) < n {
		r.logger.Warn("fewer candidates ranked than requested", zap.Int("requested", n), zap.Int("returned", len(entries)))
	}

	match := newMatcher(qualified)
	results := make([]candidates.MatchResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, r.blend(entry, match.find(entry), jdText, texts))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

func (r *Ranker) blend(entry rankPayload, rec *candidates.Record, jdText string, texts map[string]string) candidates.MatchResult {
	llmScore := utils.Clamp(entry.MatchPercentage, 0, 100)
	result := candidates.MatchResult{
		Name:              strings.TrimSpace(entry.Name),
		Email:             strings.TrimSpace(entry.Email),
		MatchPercentage:   llmScore,
		FinalScore:        llmScore,
		Strengths:         candidates.SplitPoints(entry.Strengths),
		Gaps:              candidates.SplitPoints(entry.Gaps),
		Recommendation:    strings.TrimSpace(entry.Recommendation),
		InterviewPriority: strings.TrimSpace(entry.InterviewPriority),
	}
	if rec == nil {
		r.logger.Warn("ranked entry does not match any candidate", zap.String("name", result.Name))
		return result
	}

	result.CandidateID = rec.ID
	result.Name = rec.DisplayName()
	if rec.Email != "" {
		result.Email = rec.Email
	}

	if text := texts[rec.ID]; strings.TrimSpace(text) != "" {
		result.SemanticScore = r.score(text, jdText)
		result.FinalScore = round2(LLMWeight*llmScore + SemanticWeight*result.SemanticScore)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func summarize(records []*candidates.Record) string {
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "\nCandidate %d:\n", i+1)
		fmt.Fprintf(&b, "- ID: %s\n", rec.ID)
		fmt.Fprintf(&b, "- Name: %s\n", orNA(rec.Name))
		fmt.Fprintf(&b, "- Email: %s\n", orNA(rec.Email))
		fmt.Fprintf(&b, "- Experience: %s years\n", strconv.FormatFloat(rec.ExperienceYears, 'f', -1, 64))
		fmt.Fprintf(&b, "- Tech Stack: %s\n", orNA(rec.TechStack))
		fmt.Fprintf(&b, "- Role: %s\n", orNA(rec.CurrentRole))
		fmt.Fprintf(&b, "- Projects: %s\n", orNA(rec.KeyProjects))
	}
	return b.String()
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "N/A"
	}
	return s
}

// matcher maps LLM entries back to records, by id first and then by name.
// Each record is matched at most once.
type matcher struct {
	records []*candidates.Record
	used    map[string]bool
}

func newMatcher(records []*candidates.Record) *matcher {
	return &matcher{records: records, used: make(map[string]bool, len(records))}
}

func (m *matcher) find(entry rankPayload) *candidates.Record {
	id := strings.TrimSpace(entry.CandidateID)
	name := strings.TrimSpace(entry.Name)

	if id != "" {
		for _, rec := range m.records {
			if rec.ID == id && !m.used[rec.ID] {
				return m.take(rec)
			}
		}
	}
	if name != "" {
		for _, rec := range m.records {
			if strings.EqualFold(strings.TrimSpace(rec.Name), name) && !m.used[rec.ID] {
				return m.take(rec)
			}
		}
	}
	return nil
}

func (m *matcher) take(rec *candidates.Record) *candidates.Record {
	m.used[rec.ID] = true
	return rec
}
