// Package export turns screening results into CSV rows. Column order follows
// the field order of the exported types.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/candidates"
)

// Export kinds, used as file name prefixes.
const (
	KindCandidates = "candidates"
	KindQualified  = "qualified"
	KindRanking    = "top_candidates"
	KindRejected   = "rejected_candidates"
	KindQuestions  = "interview_questions"
)

const (
	fileStamp = "20060102_150405"
	dateTime  = "2006-01-02 15:04:05"
)

var candidateHeader = []string{
	"id", "name", "email", "phone", "experience_years", "tech_stack", "current_role",
	"education", "key_projects", "certifications", "domain_expertise", "filename", "submission_date",
}

// FileName returns a timestamped CSV file name such as candidates_20250301_120000.csv.
func FileName(kind string, at time.Time) string {
	return kind + "_" + at.Format(fileStamp) + ".csv"
}

// CandidateRows renders parsed records with a header row.
func CandidateRows(records []*candidates.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, candidateHeader)
	for _, r := range records {
		rows = append(rows, candidateRow(r))
	}
	return rows
}

// QualifiedRows renders records that passed pre-screening along with their
// screening score.
func QualifiedRows(records []*candidates.Record, decisions []candidates.Decision) [][]string {
	scores := make(map[string]int, len(decisions))
	for _, d := range decisions {
		if d.Passed {
			scores[d.CandidateID] = d.Score
		}
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append(append([]string{}, candidateHeader...), "screening_score"))
	for _, r := range records {
		score := ""
		if s, ok := scores[r.ID]; ok {
			score = strconv.Itoa(s)
		}
		rows = append(rows, append(candidateRow(r), score))
	}
	return rows
}

// RejectedRows renders rejected decisions with the candidate's details. Reasons
// are joined with "; ". Decisions for unknown candidates keep only the name.
func RejectedRows(records []*candidates.Record, rejected []candidates.Decision) [][]string {
	byID := make(map[string]*candidates.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	rows := make([][]string, 0, len(rejected)+1)
	rows = append(rows, append(append([]string{}, candidateHeader...), "rejection_reason", "rejection_date"))
	for _, d := range rejected {
		r, ok := byID[d.CandidateID]
		if !ok {
			r = &candidates.Record{ID: d.CandidateID, Name: d.Name}
		}
		rows = append(rows, append(candidateRow(r), strings.Join(d.Reasons, "; "), formatTime(d.DecidedAt)))
	}
	return rows
}

// RankingRows renders ranked match results.
func RankingRows(results []candidates.MatchResult) [][]string {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, []string{
		"rank", "candidate_id", "name", "email", "match_percentage", "semantic_score", "final_score",
		"strengths", "gaps", "recommendation", "interview_priority",
	})
	for _, res := range results {
		rows = append(rows, []string{
			strconv.Itoa(res.Rank),
			res.CandidateID,
			res.Name,
			res.Email,
			formatFloat(res.MatchPercentage),
			formatFloat(res.SemanticScore),
			formatFloat(res.FinalScore),
			strings.Join(res.Strengths, ", "),
			strings.Join(res.Gaps, ", "),
			res.Recommendation,
			res.InterviewPriority,
		})
	}
	return rows
}

// QuestionRows renders generated interview questions for one candidate.
func QuestionRows(name string, questions []candidates.InterviewQuestion) [][]string {
	rows := make([][]string, 0, len(questions)+1)
	rows = append(rows, []string{"candidate", "category", "question", "why_asking"})
	for _, q := range questions {
		rows = append(rows, []string{name, q.Category, q.Question, q.WhyAsking})
	}
	return rows
}

func candidateRow(r *candidates.Record) []string {
	return []string{
		r.ID,
		r.Name,
		r.Email,
		r.Phone,
		formatFloat(r.ExperienceYears),
		r.TechStack,
		r.CurrentRole,
		r.Education,
		r.KeyProjects,
		r.Certifications,
		r.DomainExpertise,
		r.Filename,
		formatTime(r.SubmissionDate),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTime)
}
