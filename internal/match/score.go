package match

import (
	"math"
	"strings"

	"github.com/novapeople/match-engine/internal/domain"
	"github.com/novapeople/match-engine/pkg/textx"
)

// Score weights. Textual relevance dominates (70-point ceiling); exact skill
// coverage and experience add up to 30 more before clamping.
const (
	textWeight        = 70.0
	skillWeight       = 20.0
	skillFloor        = 10
	niceWeight        = 10.0
	experiencePerYear = 2.5
	experienceCap     = 10.0
	experienceNeutral = 5.0
)

// Calculator combines free-text similarity, skill overlap and experience into
// one bounded integer score for a (job, candidate) pair. Stateless and safe
// for concurrent use.
type Calculator struct{}

// NewCalculator constructs a Calculator.
func NewCalculator() Calculator { return Calculator{} }

// round is half-away-from-zero, which is what math.Round implements; named so
// the rounding contract is explicit at call sites.
func round(x float64) float64 { return math.Round(x) }

func jobDocument(job domain.JobDescriptor) string {
	return textx.JoinNonEmpty(" ",
		job.Title,
		job.FreeText,
		strings.Join(job.RequiredSkills, " "),
		strings.Join(job.NiceToHaveSkills, " "),
	)
}

func candidateDocument(c domain.CandidateProfile) string {
	return textx.JoinNonEmpty(" ",
		c.FreeText,
		strings.Join(c.Skills, " "),
	)
}

// Score computes the MatchResult for one pair. Missing or empty free text and
// empty skill lists yield a valid (typically low) score, never an error; the
// caller-facing validation layer is responsible for rejecting malformed input
// such as negative experience.
func (Calculator) Score(job domain.JobDescriptor, candidate domain.CandidateProfile) domain.MatchResult {
	jobVec := Frequencies(Tokenize(jobDocument(job)))
	candVec := Frequencies(Tokenize(candidateDocument(candidate)))
	similarity := Cosine(jobVec, candVec)

	overlap := MatchSkills(job.RequiredSkills, job.NiceToHaveSkills, candidate.Skills)

	base := round(similarity * textWeight)

	var skillScore float64
	if overlap.RequiredTotal > 0 {
		skillScore = round(float64(len(overlap.MatchedRequired)) / float64(overlap.RequiredTotal) * skillWeight)
	} else {
		// absence of stated requirements must not zero out the score
		skillScore = skillFloor
	}

	var niceBonus float64
	if overlap.NiceTotal > 0 {
		niceBonus = round(float64(len(overlap.MatchedNice)) / float64(overlap.NiceTotal) * niceWeight)
	}

	experience := experienceNeutral
	if candidate.ExperienceYears != nil {
		experience = math.Min(*candidate.ExperienceYears*experiencePerYear, experienceCap)
	}

	score := int(round(base + skillScore + niceBonus + experience))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.MatchResult{
		CandidateID:           candidate.ID,
		JobID:                 job.ID,
		Score:                 score,
		Similarity:            similarity,
		MatchedRequiredSkills: overlap.MatchedRequired,
		MatchedNiceSkills:     overlap.MatchedNice,
		MissingRequiredSkills: overlap.MissingRequired,
	}
}
