package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
	last     ai.Request
}

func (s *stubCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	s.last = req
	return s.response, s.err
}

func (s *stubCompleter) Provider() string { return "stub" }

func (s *stubCompleter) Model() string { return "stub-model" }

var candidate = &candidates.Record{
	ID:              "c-1",
	Name:            "Jane Doe",
	ExperienceYears: 4.5,
	TechStack:       "Go, PostgreSQL",
	CurrentRole:     "Backend Engineer",
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	llm := &stubCompleter{response: "```json\n" + `[
  {"category": "Technical", "question": "How do you tune PostgreSQL?", "why_asking": "Core stack"},
  {"category": "Behavioral", "question": "  ", "why_asking": "dropped"},
  {"category": "Culture Fit", "question": "What team rituals do you value?"}
]` + "\n```"}

	questions, err := New(llm, zap.NewNop()).Generate(context.Background(), candidate, strings.Repeat("j", 1500))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, candidates.InterviewQuestion{Category: "Technical", Question: "How do you tune PostgreSQL?", WhyAsking: "Core stack"}, questions[0])
	assert.Equal(t, "Culture Fit", questions[1].Category)

	assert.Equal(t, questionsSystem, llm.last.System)
	assert.InDelta(t, questionsTemperature, llm.last.Temperature, 1e-6)
	assert.Equal(t, questionsMaxTokens, llm.last.MaxTokens)
	assert.Contains(t, llm.last.Prompt, "Generate 8 targeted interview questions")
	assert.NotContains(t, llm.last.Prompt, "{{")
	assert.Contains(t, llm.last.Prompt, "- Name: Jane Doe")
	assert.Contains(t, llm.last.Prompt, "- Experience: 4.5 years")
	assert.Contains(t, llm.last.Prompt, "JOB: "+strings.Repeat("j", maxJDRunes)+"\n")
	assert.NotContains(t, llm.last.Prompt, strings.Repeat("j", maxJDRunes+1))
}

func TestGenerateFailSoft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		llm  *stubCompleter
		rec  *candidates.Record
	}{
		{name: "transport error", llm: &stubCompleter{err: errors.New("rate limited")}, rec: candidate},
		{name: "no array", llm: &stubCompleter{response: "Sorry, no questions today."}, rec: candidate},
		{name: "broken json", llm: &stubCompleter{response: `[{"category": }]`}, rec: candidate},
		{name: "no candidate", llm: &stubCompleter{}, rec: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			questions, err := New(tt.llm, nil).Generate(context.Background(), tt.rec, "jd")
			assert.Error(t, err)
			assert.NotNil(t, questions)
			assert.Empty(t, questions)
		})
	}
}
