package analyzer

import (
	"math"
	"strings"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

// floorTolerance absorbs float error so e.g. 69.99999999999999 floors to 70.
const floorTolerance = 1e-9

// Analyze scores resume text against a profile. It never fails: a pattern
// that does not match yields a zero finding.
func Analyze(text string, p Profile) models.AnalysisResult {
	p = p.withDefaults()
	lower := strings.ToLower(text)

	res := models.AnalysisResult{
		Role:       p.Name,
		Skills:     ExtractSkills(lower, p.RequiredSkills),
		Education:  ExtractEducation(lower, p.EducationScore),
		Experience: ExtractExperience(lower, p.Experience),
		Quality:    ExtractQuality(lower, p.Certifications, p.QualityScore),
	}
	res.FinalScore = FinalScore(res, p.Weights)
	return res
}

// FinalScore is the floor of the weighted sum of the four subscores, each
// clamped to [0,100] first. The result is always within [0,100].
func FinalScore(r models.AnalysisResult, w Weights) int {
	total := float64(clampScore(r.Skills.Score))*w.Skills +
		float64(clampScore(r.Education.Score))*w.Education +
		float64(clampScore(r.Experience.Score))*w.Experience +
		float64(clampScore(r.Quality.Score))*w.Quality
	return clampScore(int(math.Floor(total + floorTolerance)))
}
