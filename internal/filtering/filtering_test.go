package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC)
}

func TestRunChainsFiltersAndCollectsDecisions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exclude := filepath.Join(dir, "exclude.txt")
	require.NoError(t, os.WriteFile(exclude, []byte("# hired\nHIRED@example.com\n"), 0o600))

	records := []*candidates.Record{
		{ID: "1", Name: "Early", SubmissionDate: day(1), ExperienceYears: 10, TechStack: "Go"},
		{ID: "2", Name: "Hired", Email: "hired@example.com", SubmissionDate: day(10), ExperienceYears: 10, TechStack: "Go"},
		{ID: "3", Name: "Junior", SubmissionDate: day(10), ExperienceYears: 0, TechStack: "HTML"},
		{ID: "4", Name: "Good", SubmissionDate: day(12), ExperienceYears: 6, TechStack: "Go, SQL"},
		{ID: "5", Name: "Undated", ExperienceYears: 6, TechStack: "Go"},
	}

	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{
		Logger:       zap.New(core),
		Requirements: &candidates.Requirements{MinimumExperienceYears: 5, RequiredTechnicalSkills: []string{"Go"}},
		Now:          func() time.Time { return day(20) },
	}
	cfg := &Config{From: day(5), To: day(15), ExcludeFile: exclude}
	steps := []Filter{NewDateRange(), NewExcludeFile(), NewPreScreen()}

	left, report, err := Run(context.Background(), cfg, deps, steps, records)
	require.NoError(t, err)

	ids := make([]string, 0, len(left))
	for _, r := range left {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"4", "5"}, ids)
	assert.Len(t, records, 5, "input must not be modified")

	assert.Equal(t, Step{Initial: 5, Dropped: 1, Left: 4}, report.Steps["date_range"])
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, report.Steps["exclude_file"])
	assert.Equal(t, Step{Initial: 3, Dropped: 1, Left: 2}, report.Steps["pre_screen"])

	rejected := report.Rejected()
	require.Len(t, rejected, 3)
	assert.Equal(t, []string{outsideDateRange}, rejected[0].Reasons)
	assert.Equal(t, []string{excludedByFile}, rejected[1].Reasons)
	assert.Equal(t, "3", rejected[2].CandidateID)
	assert.Equal(t, day(20), rejected[2].DecidedAt)

	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, 3, observed.FilterMessage("filter step").Len())
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	cfg := &Config{From: day(10), To: day(1)}
	_, _, err := Run(context.Background(), cfg, Deps{}, []Filter{NewDateRange()}, nil)
	assert.Error(t, err)
}

func TestRunPreScreenRequiresRequirements(t *testing.T) {
	t.Parallel()

	_, _, err := Run(context.Background(), &Config{}, Deps{}, []Filter{NewPreScreen()}, []*candidates.Record{{ID: "1"}})
	assert.Error(t, err)
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewDateRange(), NewPreScreen()}
	DisableByName(steps, "pre_screen", "ranking everyone")

	left, report, err := Run(context.Background(), &Config{}, Deps{}, steps, []*candidates.Record{{ID: "1"}})
	require.NoError(t, err)
	assert.Len(t, left, 1)
	assert.Empty(t, report.Decisions)

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, "ranking everyone", statuses[1].Reason)
}

func TestExcludeFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.txt")

	got, err := ReadExcludeFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, AppendExcludeFile(path, []string{"A@x.io", " ", "b@y.io"}))
	got, err = ReadExcludeFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a@x.io": true, "b@y.io": true}, got)
}
