package extraction

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/structured"
	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/privacy"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

//go:embed resume_prompt.md
var resumePrompt string

const resumeSystem = "Expert resume parser. Return only valid JSON."

const resumeSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null", "number"]},
    "experience_years": {"type": ["number", "string", "null"]}
  }
}`

type resumePayload struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	ExperienceYears float64 `json:"experience_years"`
	TechStack       string  `json:"tech_stack"`
	CurrentRole     string  `json:"current_role"`
	Education       string  `json:"education"`
	KeyProjects     string  `json:"key_projects"`
	Certifications  string  `json:"certifications"`
	DomainExpertise string  `json:"domain_expertise"`
}

// ResumeExtractor builds candidate records from resume text.
type ResumeExtractor struct {
	llm    ai.Completer
	logger *zap.Logger
	now    func() time.Time
}

func NewResumeExtractor(llm ai.Completer, l *zap.Logger) *ResumeExtractor {
	return &ResumeExtractor{
		llm:    llm,
		logger: logger.WithCommonFields(l, llm.Provider(), llm.Model()),
		now:    time.Now,
	}
}

// Extract parses text into a record. Contact details are found locally on the
// unredacted text; with maskPII the LLM only sees the redacted text and the local
// values win, otherwise local values fill gaps the LLM left. A zero
// submittedAt is replaced by the current time.
func (e *ResumeExtractor) Extract(ctx context.Context, text, filename string, maskPII bool, submittedAt time.Time) (*candidates.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyText)
	}

	localEmail := privacy.FindEmail(text)
	localPhone := privacy.FindPhone(text)

	payload := text
	if maskPII {
		payload = privacy.Redact(text)
	}
	prompt := render(resumePrompt, "{{RESUME_TEXT}}", truncateRunes(payload, maxInputRunes))

	log := e.logger.With(zap.String(logger.FieldFile, filename))
	log.Debug("resume extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Bool("mask_pii", maskPII),
	)

	raw, err := e.llm.Complete(ctx, ai.Request{
		System:      resumeSystem,
		Prompt:      prompt,
		Temperature: parseTemperature,
		MaxTokens:   parseMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract resume %s: %w", filename, err)
	}

	log.Debug("resume extraction response", zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)))

	var parsed resumePayload
	if err := structured.DecodeObject(raw, resumeSchema, &parsed); err != nil {
		return nil, fmt.Errorf("extract resume %s: %w", filename, err)
	}

	if submittedAt.IsZero() {
		submittedAt = e.now()
	}

	experience := parsed.ExperienceYears
	if experience < 0 {
		experience = 0
	}

	return &candidates.Record{
		ID:              candidates.NewID(),
		Name:            strings.TrimSpace(parsed.Name),
		Email:           reconcile(parsed.Email, localEmail, privacy.EmailMask, maskPII),
		Phone:           reconcile(parsed.Phone, localPhone, privacy.PhoneMask, maskPII),
		ExperienceYears: experience,
		TechStack:       strings.TrimSpace(parsed.TechStack),
		CurrentRole:     strings.TrimSpace(parsed.CurrentRole),
		Education:       strings.TrimSpace(parsed.Education),
		KeyProjects:     strings.TrimSpace(parsed.KeyProjects),
		Certifications:  strings.TrimSpace(parsed.Certifications),
		DomainExpertise: strings.TrimSpace(parsed.DomainExpertise),
		Filename:        filename,
		SubmissionDate:  submittedAt,
	}, nil
}

func reconcile(fromLLM, local, mask string, masked bool) string {
	fromLLM = strings.TrimSpace(fromLLM)
	if strings.Contains(fromLLM, mask) {
		fromLLM = ""
	}
	if masked {
		if local != "" {
			return local
		}
		return fromLLM
	}
	if fromLLM != "" {
		return fromLLM
	}
	return local
}
