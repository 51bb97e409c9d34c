package candidates

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one parsed resume. ID is the identity; Name is display only.
type Record struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ExperienceYears float64   `json:"experience_years"`
	TechStack       string    `json:"tech_stack"`
	CurrentRole     string    `json:"current_role"`
	Education       string    `json:"education"`
	KeyProjects     string    `json:"key_projects"`
	Certifications  string    `json:"certifications"`
	DomainExpertise string    `json:"domain_expertise"`
	Filename        string    `json:"filename"`
	SubmissionDate  time.Time `json:"submission_date"`
}

// NewID returns a fresh candidate identifier.
func NewID() string {
	return uuid.NewString()
}

// Skills returns the tech stack split into trimmed items.
func (r *Record) Skills() []string {
	return SplitPoints(r.TechStack)
}

// DisplayName falls back to the file name when the resume had no name.
func (r *Record) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	if r.Filename != "" {
		return r.Filename
	}
	return r.ID
}

// Requirements are the hard requirements extracted from a job description.
type Requirements struct {
	MinimumExperienceYears  float64  `json:"minimum_experience_years"`
	RequiredTechnicalSkills []string `json:"required_technical_skills"`
	PreferredSkills         []string `json:"preferred_skills"`
	JobTitle                string   `json:"job_title"`
	SeniorityLevel          string   `json:"seniority_level"`
}

// Decision is the pre-screening outcome for one candidate.
type Decision struct {
	CandidateID string
	Name        string
	Passed      bool
	Score       int
	Reasons     []string
	DecidedAt   time.Time
}
