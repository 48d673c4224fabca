package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novapeople/match-engine/internal/domain"
)

func ptrFloat(f float64) *float64 { return &f }

func TestScore_PerfectOverlapSingleSkill(t *testing.T) {
	t.Parallel()
	// Both documents reduce to the single token "go": similarity is exactly 1.
	// base 70 + skill 20 + nice 0 + neutral experience 5 = 95.
	job := domain.JobDescriptor{ID: "j1", RequiredSkills: []string{"Go"}}
	cand := domain.CandidateProfile{ID: "c1", Skills: []string{"Go"}}

	res := NewCalculator().Score(job, cand)
	require.Equal(t, 1.0, res.Similarity)
	assert.Equal(t, 95, res.Score)
	assert.Equal(t, []string{"Go"}, res.MatchedRequiredSkills)
	assert.Empty(t, res.MissingRequiredSkills)
}

func TestScore_EmptyCandidateStillValid(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{ID: "j1", RequiredSkills: []string{"Go"}}
	cand := domain.CandidateProfile{ID: "c1"}

	res := NewCalculator().Score(job, cand)
	// similarity 0, no skill credit, no nice bonus, neutral experience 5
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 0.0, res.Similarity)
	assert.Equal(t, []string{"Go"}, res.MissingRequiredSkills)
}

func TestScore_NoRequiredSkillsGetsFloor(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{ID: "j1", FreeText: "alpha beta"}
	cand := domain.CandidateProfile{ID: "c1", FreeText: "gamma delta"}

	res := NewCalculator().Score(job, cand)
	// disjoint vocabulary: base 0; no requirements: skill floor 10; exp 5
	assert.Equal(t, 15, res.Score)
}

func TestScore_ExperienceCapAndNeutral(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{ID: "j1", FreeText: "alpha"}
	calc := NewCalculator()

	capped := calc.Score(job, domain.CandidateProfile{ID: "c1", ExperienceYears: ptrFloat(20)})
	unknown := calc.Score(job, domain.CandidateProfile{ID: "c2"})
	junior := calc.Score(job, domain.CandidateProfile{ID: "c3", ExperienceYears: ptrFloat(1)})

	// skill floor 10 in all three; experience contributes 10 / 5 / 2.5
	assert.Equal(t, 20, capped.Score)
	assert.Equal(t, 15, unknown.Score)
	assert.Equal(t, 13, junior.Score) // round(10 + 2.5) = 13, half away from zero
}

func TestScore_NiceToHaveBonus(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{
		ID:               "j1",
		NiceToHaveSkills: []string{"GraphQL", "Docker"},
	}
	cand := domain.CandidateProfile{ID: "c1", Skills: []string{"graphql"}}

	res := NewCalculator().Score(job, cand)
	// matched 1 of 2 nice-to-have: bonus round(0.5*10) = 5
	assert.Equal(t, []string{"GraphQL"}, res.MatchedNiceSkills)
	assert.GreaterOrEqual(t, res.Score, 5)
}

func TestScore_BoundedForArbitraryInput(t *testing.T) {
	t.Parallel()
	jobs := []domain.JobDescriptor{
		{ID: "j1"},
		{ID: "j2", Title: "Engineer", FreeText: "go go go", RequiredSkills: []string{"Go", "Kafka"}},
		{ID: "j3", NiceToHaveSkills: []string{"A", "B", "C"}},
	}
	cands := []domain.CandidateProfile{
		{ID: "c1"},
		{ID: "c2", FreeText: "go kafka go", Skills: []string{"Go", "Kafka"}, ExperienceYears: ptrFloat(40)},
		{ID: "c3", Skills: []string{"a", "b", "c"}, ExperienceYears: ptrFloat(0)},
	}
	calc := NewCalculator()
	for _, j := range jobs {
		for _, c := range cands {
			res := calc.Score(j, c)
			require.GreaterOrEqual(t, res.Score, 0)
			require.LessOrEqual(t, res.Score, 100)
			require.Len(t, res.MatchedRequiredSkills, len(j.RequiredSkills)-len(res.MissingRequiredSkills))
		}
	}
}

func TestScore_SpecExampleHighAndLowRange(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{
		ID:               "job-fe",
		Title:            "Frontend Engineer",
		FreeText:         "We are building React applications with TypeScript",
		RequiredSkills:   []string{"React", "TypeScript"},
		NiceToHaveSkills: []string{"Design Systems"},
	}
	strong := domain.CandidateProfile{
		ID:              "cand-a",
		FreeText:        "Senior frontend engineer building React applications with TypeScript",
		Skills:          []string{"React", "TypeScript", "Design Systems"},
		ExperienceYears: ptrFloat(6),
	}
	weak := domain.CandidateProfile{
		ID:              "cand-b",
		FreeText:        "Experienced barista and coffee enthusiast",
		Skills:          []string{"Java"},
		ExperienceYears: ptrFloat(1),
	}

	calc := NewCalculator()
	a := calc.Score(job, strong)
	b := calc.Score(job, weak)

	assert.Equal(t, []string{"React", "TypeScript"}, a.MatchedRequiredSkills)
	assert.Empty(t, a.MissingRequiredSkills)
	assert.GreaterOrEqual(t, a.Score, 85)

	assert.Equal(t, []string{"React", "TypeScript"}, b.MissingRequiredSkills)
	assert.LessOrEqual(t, b.Score, 25)
	assert.Greater(t, a.Score, b.Score)
}

func TestScore_FullCoverageBeatsNoOverlap(t *testing.T) {
	t.Parallel()
	job := domain.JobDescriptor{
		ID:             "j1",
		FreeText:       "distributed systems in Go",
		RequiredSkills: []string{"Go", "Kafka"},
	}
	covered := domain.CandidateProfile{ID: "c1", FreeText: "distributed systems in Go", Skills: []string{"Go", "Kafka"}}
	disjoint := domain.CandidateProfile{ID: "c2", FreeText: "pastry chef", Skills: []string{"Baking"}}

	calc := NewCalculator()
	if calc.Score(job, covered).Score <= calc.Score(job, disjoint).Score {
		t.Fatalf("full skill coverage with shared vocabulary must outscore a disjoint candidate")
	}
}
