package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/candidates"
	"go.uber.org/zap"
)

// Pre-screening points. The values are empirical and kept for compatibility
// with earlier screening runs.
const (
	QualifyingScore = 40

	ExperienceMetPoints  = 50
	ExperienceNearPoints = 35
	ExperienceNearRatio  = 0.8
	NoExperiencePoints   = 25

	SkillsStrongRatio   = 0.6
	SkillsStrongPoints  = 50
	SkillsPartialRatio  = 0.3
	SkillsPartialPoints = 35
	SkillsSomePoints    = 20
	NoSkillsPoints      = 25

	summarySkillsShown = 3
)

var skillSynonyms = map[string][]string{
	"scikit-learn": {"sklearn", "scikit"},
	"tensorflow":   {"tensor"},
	"pytorch":      {"torch"},
	"numpy":        {"np"},
	"pandas":       {"pd"},
}

// PreScreen scores every record against req. A record qualifies when its
// experience and skills points add up to QualifyingScore. Qualified records
// keep their input order. Summary lines are empty when req sets neither a
// minimum experience nor required skills. A nil req qualifies everyone.
func PreScreen(records []*candidates.Record, req *candidates.Requirements) ([]*candidates.Record, []candidates.Decision, []string) {
	if req == nil {
		return append([]*candidates.Record(nil), records...), nil, nil
	}

	minExp := req.MinimumExperienceYears
	required := req.RequiredTechnicalSkills

	qualified := make([]*candidates.Record, 0, len(records))
	decisions := make([]candidates.Decision, 0, len(records))
	experiencePass, skillsPass := 0, 0

	for _, r := range records {
		score := 0
		var reasons []string

		points, reason, passed := scoreExperience(r.ExperienceYears, minExp)
		score += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if passed {
			experiencePass++
		}

		points, reason, passed = scoreSkills(r.TechStack, required)
		score += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if passed {
			skillsPass++
		}

		ok := score >= QualifyingScore
		if ok {
			qualified = append(qualified, r)
		}
		decisions = append(decisions, candidates.Decision{
			CandidateID: r.ID,
			Name:        r.DisplayName(),
			Passed:      ok,
			Score:       score,
			Reasons:     reasons,
		})
	}

	var summary []string
	total := len(records)
	if minExp > 0 {
		summary = append(summary, fmt.Sprintf("Experience: %s+ years preferred (flexible: %.1f+ accepted) -> %d/%d candidates",
			formatYears(minExp), minExp*ExperienceNearRatio, experiencePass, total))
	}
	if len(required) > 0 {
		shown := required
		suffix := ""
		if len(shown) > summarySkillsShown {
			shown = shown[:summarySkillsShown]
			suffix = "..."
		}
		summary = append(summary, fmt.Sprintf("Skills: %s%s -> %d/%d candidates",
			strings.Join(shown, ", "), suffix, skillsPass, total))
	}
	if len(summary) > 0 {
		summary = append([]string{"Pre-screening weighs in both experience and skillset as per JD requirements"}, summary...)
		summary = append(summary, fmt.Sprintf("%d/%d candidates passed pre-screening", len(qualified), total))
	}

	return qualified, decisions, summary
}

func scoreExperience(years, minimum float64) (int, string, bool) {
	if minimum <= 0 {
		return NoExperiencePoints, "", false
	}

	threshold := minimum * ExperienceNearRatio
	switch {
	case years >= minimum:
		return ExperienceMetPoints, fmt.Sprintf("Meets experience requirement (%s >= %s years)", formatYears(years), formatYears(minimum)), true
	case years >= threshold:
		return ExperienceNearPoints, fmt.Sprintf("Close to experience requirement (%s years, preferred %s+)", formatYears(years), formatYears(minimum)), true
	default:
		return 0, fmt.Sprintf("Below experience threshold (%s < %s years)", formatYears(years), formatYears(threshold)), false
	}
}

func scoreSkills(techStack string, required []string) (int, string, bool) {
	if len(required) == 0 {
		return NoSkillsPoints, "", false
	}

	matched := len(MatchedSkills(techStack, required))
	ratio := float64(matched) / float64(len(required))

	switch {
	case ratio >= SkillsStrongRatio:
		return SkillsStrongPoints, fmt.Sprintf("Strong skill match (%d/%d required skills)", matched, len(required)), true
	case ratio >= SkillsPartialRatio:
		return SkillsPartialPoints, fmt.Sprintf("Partial skill match (%d/%d required skills)", matched, len(required)), true
	case matched > 0:
		return SkillsSomePoints, fmt.Sprintf("Some relevant skills (%d matched)", matched), true
	default:
		return 0, fmt.Sprintf("Limited skill match (0/%d required skills)", len(required)), false
	}
}

// MatchedSkills returns the required skills found in techStack, either as a
// case-insensitive substring or through a known alias.
func MatchedSkills(techStack string, required []string) []string {
	stack := strings.ToLower(techStack)
	var matched []string
	for _, skill := range required {
		lower := strings.ToLower(strings.TrimSpace(skill))
		if lower == "" {
			continue
		}
		if strings.Contains(stack, lower) || aliasMatch(stack, lower) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func aliasMatch(stack, skill string) bool {
	for _, alias := range skillSynonyms[skill] {
		if strings.Contains(stack, alias) {
			return true
		}
	}
	return false
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type preScreenFilter struct {
	disabled  bool
	reason    string
	decisions []candidates.Decision
	summary   []string
}

// NewPreScreen creates the scoring step that drops candidates below QualifyingScore.
func NewPreScreen() Filter {
	return &preScreenFilter{}
}

func (f *preScreenFilter) Name() string { return "pre_screen" }

func (f *preScreenFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *preScreenFilter) IsEnabled() bool { return !f.disabled }

func (f *preScreenFilter) Validate(*Config) error { return nil }

func (f *preScreenFilter) Apply(_ context.Context, deps Deps, records []*candidates.Record) ([]*candidates.Record, Step, error) {
	if deps.Requirements == nil {
		return nil, Step{}, errors.New("job requirements are required for pre-screening")
	}

	initial := len(records)
	qualified, decisions, summary := PreScreen(records, deps.Requirements)

	at := deps.now()
	for i := range decisions {
		decisions[i].DecidedAt = at
		if !decisions[i].Passed && deps.Logger != nil {
			deps.Logger.Debug("candidate did not pass pre-screening",
				zap.String("candidate_id", decisions[i].CandidateID),
				zap.Int("score", decisions[i].Score),
				zap.Strings("reasons", decisions[i].Reasons),
			)
		}
	}
	f.decisions = decisions
	f.summary = summary

	return qualified, Step{Initial: initial, Dropped: initial - len(qualified), Left: len(qualified)}, nil
}

func (f *preScreenFilter) Decisions() []candidates.Decision { return f.decisions }

func (f *preScreenFilter) Summary() []string { return f.summary }

func (f *preScreenFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"qualifying_score": strconv.Itoa(QualifyingScore)},
	}
}

