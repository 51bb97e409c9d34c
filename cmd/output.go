package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/pipeline"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}

func printRequirements(w io.Writer, req *candidates.Requirements) {
	fmt.Fprintln(w, "Job requirements:")
	if req.JobTitle != "" {
		fmt.Fprintf(w, "  Title:      %s (%s)\n", req.JobTitle, orDash(req.SeniorityLevel))
	}
	fmt.Fprintf(w, "  Experience: %s+ years\n", strconv.FormatFloat(req.MinimumExperienceYears, 'f', -1, 64))
	fmt.Fprintf(w, "  Required:   %s\n", orDash(strings.Join(req.RequiredTechnicalSkills, ", ")))
	fmt.Fprintf(w, "  Preferred:  %s\n", orDash(strings.Join(req.PreferredSkills, ", ")))
}

func printFailures(w io.Writer, failures []pipeline.ItemError) {
	if len(failures) == 0 {
		return
	}
	table := newTable(w, "File", "Error")
	for _, f := range failures {
		table.Append([]string{f.File, f.Err.Error()})
	}
	fmt.Fprintf(w, "%d file(s) could not be processed:\n", len(failures))
	table.Render()
}

func printSummary(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, "  "+line)
	}
}

func printRanking(w io.Writer, results []candidates.MatchResult) {
	table := newTable(w, "Rank", "Name", "Final", "LLM", "Semantic", "Band", "Recommendation", "Priority")
	for _, r := range results {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Name,
			formatScore(r.FinalScore),
			formatScore(r.MatchPercentage),
			formatScore(r.SemanticScore),
			string(candidates.BandFor(r.FinalScore)),
			r.Recommendation,
			r.InterviewPriority,
		})
	}
	table.Render()

	for _, r := range results {
		fmt.Fprintf(w, "\n#%d %s <%s>\n", r.Rank, r.Name, orDash(r.Email))
		printPoints(w, "Strengths", r.Strengths)
		printPoints(w, "Gaps", r.Gaps)
	}
}

func printPoints(w io.Writer, title string, points []string) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, p := range points {
		fmt.Fprintf(w, "    - %s\n", p)
	}
}

func printRejected(w io.Writer, rejected []candidates.Decision) {
	if len(rejected) == 0 {
		fmt.Fprintln(w, "No candidates were rejected.")
		return
	}
	table := newTable(w, "Name", "Score", "Reasons")
	for _, d := range rejected {
		table.Append([]string{d.Name, strconv.Itoa(d.Score), strings.Join(d.Reasons, "; ")})
	}
	table.Render()
}

func printAnalytics(w io.Writer, a candidates.Analytics) {
	fmt.Fprintf(w, "Candidates:         %d\n", a.Total)
	fmt.Fprintf(w, "Average experience: %s years\n", strconv.FormatFloat(a.AverageExperience, 'f', 1, 64))
	fmt.Fprintf(w, "Unique skills:      %d\n", a.UniqueSkills)
	if a.HasMatchScore {
		fmt.Fprintf(w, "Average match:      %s%%\n", strconv.FormatFloat(a.AverageMatchScore, 'f', 1, 64))
	}

	buckets := newTable(w, "Experience", "Candidates")
	for _, name := range candidates.ExperienceBuckets {
		buckets.Append([]string{name, strconv.Itoa(a.ExperienceBuckets[name])})
	}
	buckets.Render()

	skills := newTable(w, "Skill", "Candidates")
	for _, s := range a.TopSkills {
		skills.Append([]string{s.Skill, strconv.Itoa(s.Count)})
	}
	skills.Render()
}

func printQuestions(w io.Writer, name string, questions []candidates.InterviewQuestion) {
	if len(questions) == 0 {
		fmt.Fprintf(w, "No interview questions were generated for %s.\n", name)
		return
	}
	fmt.Fprintf(w, "Interview questions for %s:\n", name)
	for i, q := range questions {
		fmt.Fprintf(w, "\n%d. [%s] %s\n", i+1, q.Category, q.Question)
		if q.WhyAsking != "" {
			fmt.Fprintf(w, "   Why we're asking: %s\n", q.WhyAsking)
		}
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
