package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/structured"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
	last     ai.Request
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Provider() string { return "stub" }

func (s *stubCompleter) Model() string { return "stub-model" }

const resumeText = `Jane Doe
jane.doe@example.com | +1 415 555 0100
Senior backend engineer, 7 years with Go and Kubernetes.`

func TestResumeExtractMaskedUsesLocalContacts(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: "```json\n" + `{"name": "Jane Doe", "email": "[EMAIL_MASKED]", "phone": "[PHONE_MASKED]", "experience_years": "7", "tech_stack": ["Go", "Kubernetes"], "current_role": "Senior backend engineer"}` + "\n```"}
	ex := NewResumeExtractor(stub, zap.NewNop())

	submitted := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rec, err := ex.Extract(context.Background(), resumeText, "jane.pdf", true, submitted)
	require.NoError(t, err)

	assert.NotContains(t, stub.last.Prompt, "jane.doe@example.com")
	assert.NotContains(t, stub.last.Prompt, "555 0100")
	assert.Contains(t, stub.last.Prompt, "[EMAIL_MASKED]")
	assert.InDelta(t, parseTemperature, stub.last.Temperature, 1e-6)
	assert.True(t, stub.last.JSON)
	assert.Contains(t, stub.last.Prompt, "Do not invent values")
	assert.Contains(t, stub.last.Prompt, "Use null")

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane.doe@example.com", rec.Email)
	assert.Equal(t, "+1 415 555 0100", rec.Phone)
	assert.Equal(t, 7.0, rec.ExperienceYears)
	assert.Equal(t, "Go, Kubernetes", rec.TechStack)
	assert.Equal(t, "jane.pdf", rec.Filename)
	assert.Equal(t, submitted, rec.SubmissionDate)
}

func TestResumeExtractUnmaskedPrefersLLMValues(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: `{"name": "Jane", "email": "jane@work.io", "phone": "", "experience_years": 7}`}
	ex := NewResumeExtractor(stub, nil)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ex.now = func() time.Time { return fixed }

	rec, err := ex.Extract(context.Background(), resumeText, "jane.docx", false, time.Time{})
	require.NoError(t, err)

	assert.Contains(t, stub.last.Prompt, "jane.doe@example.com")
	assert.Equal(t, "jane@work.io", rec.Email)
	assert.Equal(t, "+1 415 555 0100", rec.Phone)
	assert.Equal(t, fixed, rec.SubmissionDate)
}

func TestResumeExtractFailures(t *testing.T) {
	t.Parallel()

	t.Run("empty text", func(t *testing.T) {
		stub := &stubCompleter{}
		_, err := NewResumeExtractor(stub, nil).Extract(context.Background(), "  \n", "blank.pdf", true, time.Time{})
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Zero(t, stub.calls)
	})

	t.Run("no json", func(t *testing.T) {
		stub := &stubCompleter{response: "Sorry, I cannot help with that."}
		_, err := NewResumeExtractor(stub, nil).Extract(context.Background(), resumeText, "x.pdf", false, time.Time{})
		assert.ErrorIs(t, err, structured.ErrNoJSON)
	})

	t.Run("transport", func(t *testing.T) {
		cause := &ai.APIError{Provider: "stub", StatusCode: 500, Kind: ai.KindTemporary}
		stub := &stubCompleter{err: cause}
		_, err := NewResumeExtractor(stub, nil).Extract(context.Background(), resumeText, "x.pdf", false, time.Time{})
		assert.True(t, errors.Is(err, cause))
	})
}

func TestResumeExtractUniqueIDs(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: `{"name": "Same Name"}`}
	ex := NewResumeExtractor(stub, nil)

	a, err := ex.Extract(context.Background(), "resume one", "a.txt", false, time.Time{})
	require.NoError(t, err)
	b, err := ex.Extract(context.Background(), "resume two", "b.txt", false, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, a.Name, b.Name)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestJDExtract(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: `Here you go: {"minimum_experience_years": "5+", "required_technical_skills": ["Python", "AWS", "python", " "], "preferred_skills": "Kafka, Redis", "job_title": "Senior Python Developer", "seniority_level": "Senior"}`}

	req, err := NewJDExtractor(stub, nil).Extract(context.Background(), Templates["Senior Python Dev"])
	require.NoError(t, err)

	assert.Equal(t, 5.0, req.MinimumExperienceYears)
	assert.Equal(t, []string{"Python", "AWS"}, req.RequiredTechnicalSkills)
	assert.Equal(t, []string{"Kafka", "Redis"}, req.PreferredSkills)
	assert.Equal(t, "Senior", req.SeniorityLevel)
	assert.True(t, strings.Contains(stub.last.Prompt, "FastAPI/Django/Flask"))
}

func TestJDExtractDefaultsMinimumExperience(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: `{"required_technical_skills": ["Go"]}`}

	req, err := NewJDExtractor(stub, nil).Extract(context.Background(), "Go developer")
	require.NoError(t, err)
	assert.Zero(t, req.MinimumExperienceYears)
}

func TestJDExtractEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewJDExtractor(&stubCompleter{}, nil).Extract(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Data Scientist", "DevOps Engineer", "Senior Python Dev"}, TemplateNames())

	jd, err := Template("DevOps Engineer")
	require.NoError(t, err)
	assert.Contains(t, jd, "Terraform")

	_, err = Template("Astronaut")
	assert.Error(t, err)
}

func TestResumeExtractNestedFields(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{response: `{"name": "Jane Doe", "experience_years": 7, "education": {"degree": "BSc", "school": "MIT"}, "key_projects": [{"name": "X", "desc": "Y"}], "certifications": ["CKA", "AWS SA"]}`}
	rec, err := NewResumeExtractor(stub, zap.NewNop()).Extract(context.Background(), resumeText, "jane.pdf", false, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "BSc, MIT", rec.Education)
	assert.Equal(t, "Y, X", rec.KeyProjects)
	assert.Equal(t, "CKA, AWS SA", rec.Certifications)
}
