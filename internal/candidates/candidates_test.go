package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "Strong Python, AWS expertise ,  Led teams", want: []string{"Strong Python", "AWS expertise", "Led teams"}},
		{in: "None", want: nil},
		{in: "N/A", want: nil},
		{in: "  ", want: nil},
		{in: "single", want: []string{"single"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitPoints(tt.in), "input %q", tt.in)
	}
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BandStrong, BandFor(80))
	assert.Equal(t, BandFair, BandFor(79.99))
	assert.Equal(t, BandFair, BandFor(60))
	assert.Equal(t, BandWeak, BandFor(59.9))
}

func TestNewIDUnique(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewID(), NewID())
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane", (&Record{Name: " Jane ", Filename: "j.pdf"}).DisplayName())
	assert.Equal(t, "j.pdf", (&Record{Filename: "j.pdf"}).DisplayName())
	assert.Equal(t, "id-1", (&Record{ID: "id-1"}).DisplayName())
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	records := []*Record{
		{ExperienceYears: 1, TechStack: "Python, SQL"},
		{ExperienceYears: 4, TechStack: "python, Go"},
		{ExperienceYears: 12, TechStack: "Go, Kubernetes, go"},
	}
	results := []MatchResult{{FinalScore: 80}, {FinalScore: 71}}

	a := Analyze(records, results, 2)

	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 5.7, a.AverageExperience)
	assert.Equal(t, 4, a.UniqueSkills)
	assert.Equal(t, 1, a.ExperienceBuckets["0-2 yrs"])
	assert.Equal(t, 1, a.ExperienceBuckets["2-5 yrs"])
	assert.Equal(t, 1, a.ExperienceBuckets["10+ yrs"])
	require.Len(t, a.TopSkills, 2)
	assert.Equal(t, SkillCount{Skill: "go", Count: 2}, a.TopSkills[0])
	assert.Equal(t, SkillCount{Skill: "python", Count: 2}, a.TopSkills[1])
	assert.True(t, a.HasMatchScore)
	assert.Equal(t, 75.5, a.AverageMatchScore)
}

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	a := Analyze(nil, nil, 5)
	assert.Zero(t, a.Total)
	assert.False(t, a.HasMatchScore)
	assert.Empty(t, a.TopSkills)
}
