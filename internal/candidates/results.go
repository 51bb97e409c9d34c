package candidates

import "strings"

// MatchResult is one ranked entry of a matching run.
type MatchResult struct {
	Rank              int      `json:"rank"`
	CandidateID       string   `json:"candidate_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	MatchPercentage   float64  `json:"match_percentage"`
	SemanticScore     float64  `json:"semantic_score"`
	FinalScore        float64  `json:"final_score"`
	Strengths         []string `json:"strengths"`
	Gaps              []string `json:"gaps"`
	Recommendation    string   `json:"recommendation"`
	InterviewPriority string   `json:"interview_priority"`
}

// InterviewQuestion is a single generated interview question.
type InterviewQuestion struct {
	Category  string `json:"category"`
	Question  string `json:"question"`
	WhyAsking string `json:"why_asking"`
}

// SplitPoints turns a comma-separated list into items. "None" and "N/A"
// mean no items.
func SplitPoints(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "none") || strings.EqualFold(text, "n/a") {
		return nil
	}

	raw := strings.Split(text, ",")
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Band is a coarse display category for a score.
type Band string

const (
	BandStrong Band = "strong"
	BandFair   Band = "fair"
	BandWeak   Band = "weak"
)

// BandFor maps a 0-100 score to a display band.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandFair
	default:
		return BandWeak
	}
}
