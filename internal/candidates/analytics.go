package candidates

import (
	"math"
	"sort"
	"strings"
)

// Experience buckets used by Analyze.
var ExperienceBuckets = []string{"0-2 yrs", "2-5 yrs", "5-10 yrs", "10+ yrs"}

// SkillCount is how many candidates list a skill.
type SkillCount struct {
	Skill string
	Count int
}

// Analytics summarises a candidate pool and, when available, its ranking.
type Analytics struct {
	Total             int
	AverageExperience float64
	UniqueSkills      int
	ExperienceBuckets map[string]int
	TopSkills         []SkillCount
	AverageMatchScore float64
	HasMatchScore     bool
}

// Analyze computes pool statistics. topSkills limits TopSkills.
func Analyze(records []*Record, results []MatchResult, topSkills int) Analytics {
	a := Analytics{
		Total:             len(records),
		ExperienceBuckets: make(map[string]int, len(ExperienceBuckets)),
	}

	counts := make(map[string]int)
	var years float64
	for _, r := range records {
		years += r.ExperienceYears
		a.ExperienceBuckets[bucketFor(r.ExperienceYears)]++

		seen := make(map[string]bool)
		for _, skill := range r.Skills() {
			key := strings.ToLower(skill)
			if seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
		}
	}
	if len(records) > 0 {
		a.AverageExperience = math.Round(years/float64(len(records))*10) / 10
	}
	a.UniqueSkills = len(counts)

	for skill, n := range counts {
		a.TopSkills = append(a.TopSkills, SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(a.TopSkills, func(i, j int) bool {
		if a.TopSkills[i].Count != a.TopSkills[j].Count {
			return a.TopSkills[i].Count > a.TopSkills[j].Count
		}
		return a.TopSkills[i].Skill < a.TopSkills[j].Skill
	})
	if topSkills > 0 && len(a.TopSkills) > topSkills {
		a.TopSkills = a.TopSkills[:topSkills]
	}

	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.FinalScore
		}
		a.AverageMatchScore = math.Round(sum/float64(len(results))*10) / 10
		a.HasMatchScore = true
	}

	return a
}

func bucketFor(years float64) string {
	switch {
	case years <= 2:
		return ExperienceBuckets[0]
	case years <= 5:
		return ExperienceBuckets[1]
	case years <= 10:
		return ExperienceBuckets[2]
	default:
		return ExperienceBuckets[3]
	}
}
