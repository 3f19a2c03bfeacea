package analyzer

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

const sampleResume = `Jane Doe
Contact: jane@x.com, 555-123-4567
Skills: Python, SQL, Pandas, NumPy, Docker, AWS
Education: Bachelor of Science in Computer Science
5 years experience in data analysis; 3 years experience with machine learning`

func dataScientist(t *testing.T) Profile {
	t.Helper()
	p, err := DefaultRegistry().Get(RoleDataScientist)
	require.NoError(t, err)
	return p
}

func TestAnalyzeSampleResume(t *testing.T) {
	res := Analyze(sampleResume, dataScientist(t))

	assert.Equal(t, RoleDataScientist, res.Role)
	assert.Equal(t, []string{"python", "machine learning", "data analysis", "sql", "aws", "docker", "pandas", "numpy"}, res.Skills.Matched)
	assert.Equal(t, []string{"kubernetes", "tensorflow", "pytorch", "scikit-learn"}, res.Skills.Missing)
	assert.Equal(t, 66, res.Skills.Score)

	assert.Equal(t, "Bachelor of Science", res.Education.Degree)
	assert.Equal(t, 78, res.Education.Score)

	assert.Equal(t, 5, res.Experience.Years)
	assert.Equal(t, 80, res.Experience.Score)

	assert.True(t, res.Quality.Contact)
	assert.True(t, res.Quality.Certifications)
	assert.Equal(t, models.LengthTooShort, res.Quality.Length)
	assert.Equal(t, 85, res.Quality.Score)

	// 0.4*66 + 0.2*78 + 0.3*80 + 0.1*85 = 74.5
	assert.Equal(t, 74, res.FinalScore)
}

func TestAnalyzeEmptyFindings(t *testing.T) {
	res := Analyze("nothing relevant here", dataScientist(t))

	assert.Empty(t, res.Skills.Matched)
	assert.Len(t, res.Skills.Missing, 12)
	assert.Equal(t, 0, res.Skills.Score)
	assert.Equal(t, models.DegreeNotFound, res.Education.Degree)
	assert.False(t, res.Education.Found)
	assert.Equal(t, 0, res.Experience.Years)
	assert.Equal(t, 0, res.Experience.Score)
	assert.False(t, res.Quality.Contact)
	// only the fixed quality score contributes: 0.1*85
	assert.Equal(t, 8, res.FinalScore)
}

func TestExtractSkillsWholeWord(t *testing.T) {
	res := ExtractSkills("worked with sqlite and pythonic code, plus aws", []string{"sql", "python", "aws"})
	assert.Equal(t, []string{"aws"}, res.Matched)
	assert.Equal(t, []string{"sql", "python"}, res.Missing)
	assert.Equal(t, 33, res.Score)
}

func TestExtractSkillsUnicodeBoundaries(t *testing.T) {
	res := ExtractSkills("pandasé, numpy and ñsql", []string{"pandas", "numpy", "sql"})
	assert.Equal(t, []string{"numpy"}, res.Matched)
	assert.Equal(t, []string{"pandas", "sql"}, res.Missing)

	res = ExtractSkills("python", []string{"python"})
	assert.Equal(t, []string{"python"}, res.Matched)

	res = ExtractSkills("café: python/sql", []string{"python", "sql"})
	assert.Equal(t, []string{"python", "sql"}, res.Matched)
}

func TestSkillScoreMonotonic(t *testing.T) {
	skills := dataScientist(t).RequiredSkills
	text := ""
	prev := -1
	for _, s := range skills {
		text += " " + s + ","
		score := ExtractSkills(text, skills).Score
		assert.GreaterOrEqual(t, score, prev, "after adding %q", s)
		prev = score
	}
	assert.Equal(t, 100, prev)
}

func TestExtractEducation(t *testing.T) {
	tests := []struct {
		text   string
		degree string
	}{
		{"bachelor of science", "Bachelor of Science"},
		{"m.tech in computer science from iit", "M.Tech of Computer Science"},
		{"phd in computers", "Phd of Computers"},
		{"btech technology", "Btech of Technology"},
		{"master engineering and bachelor of science", "Master of Engineering"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := ExtractEducation(tt.text, DefaultEducationScore)
			assert.True(t, res.Found)
			assert.Equal(t, tt.degree, res.Degree)
			assert.Equal(t, 78, res.Score)
		})
	}

	res := ExtractEducation("high school diploma", DefaultEducationScore)
	assert.False(t, res.Found)
	assert.Equal(t, models.DegreeNotFound, res.Degree)
	assert.Equal(t, 0, res.Score)
}

func TestExtractExperienceTakesMax(t *testing.T) {
	scoring := ExperienceScoring{PointsPerYear: 20, Cap: 80}

	res := ExtractExperience("5 years experience. later 3 years experience.", scoring)
	assert.Equal(t, 5, res.Years)
	assert.Equal(t, 80, res.Score)

	res = ExtractExperience("1 year experience", scoring)
	assert.Equal(t, 1, res.Years)
	assert.Equal(t, 20, res.Score)

	res = ExtractExperience("3yrs exp", scoring)
	assert.Equal(t, 3, res.Years)
	assert.Equal(t, 60, res.Score)

	res = ExtractExperience("1000 years experience", scoring)
	assert.Equal(t, 1000, res.Years)
	assert.Equal(t, 80, res.Score)

	res = ExtractExperience("99999999999999999999 years experience", scoring)
	assert.Equal(t, math.MaxInt, res.Years)
	assert.Equal(t, 80, res.Score)

	res = ExtractExperience("2 years experience, 99999999999999999999 yrs exp", ExperienceScoring{PointsPerYear: 30, Cap: 100})
	assert.Equal(t, math.MaxInt, res.Years)
	assert.Equal(t, 100, res.Score)

	res = ExtractExperience("no claims", scoring)
	assert.Equal(t, models.ExperienceResult{}, res)
}

func TestExtractQualityContact(t *testing.T) {
	res := ExtractQuality("contact: jane@x.com, 555-123-4567", DefaultCertifications, DefaultQualityScore)
	assert.True(t, res.HasEmail)
	assert.True(t, res.HasPhone)
	assert.True(t, res.Contact)
	assert.False(t, res.Certifications)
	assert.Equal(t, 85, res.Score)

	res = ExtractQuality("call 5551234567", DefaultCertifications, DefaultQualityScore)
	assert.True(t, res.HasPhone)
	assert.False(t, res.Contact)

	res = ExtractQuality("jane@x.com", DefaultCertifications, DefaultQualityScore)
	assert.False(t, res.Contact)
}

func TestExtractQualityLength(t *testing.T) {
	tests := []struct {
		words  int
		pages  int
		length models.LengthClass
	}{
		{100, 1, models.LengthTooShort},
		{499, 1, models.LengthTooShort},
		{500, 2, models.LengthIdeal},
		{1200, 2, models.LengthIdeal},
	}
	for _, tt := range tests {
		text := strings.Repeat("word ", tt.words)
		res := ExtractQuality(text, nil, DefaultQualityScore)
		assert.Equal(t, tt.words, res.WordCount)
		assert.Equal(t, tt.pages, res.EstimatedPages)
		assert.Equal(t, tt.length, res.Length)
	}
}

func TestExtractQualityCountsUnicodeWords(t *testing.T) {
	res := ExtractQuality("résumé naïve café", nil, DefaultQualityScore)
	assert.Equal(t, 3, res.WordCount)

	res = ExtractQuality(strings.Repeat("développeur ", 500), nil, DefaultQualityScore)
	assert.Equal(t, 500, res.WordCount)
	assert.Equal(t, models.LengthIdeal, res.Length)

	res = ExtractQuality(strings.Repeat("élève ", 300), nil, DefaultQualityScore)
	assert.Equal(t, 300, res.WordCount)
	assert.Equal(t, models.LengthTooShort, res.Length)
}

func TestExtractQualityCertifications(t *testing.T) {
	res := ExtractQuality("aws certified solutions architect", DefaultCertifications, DefaultQualityScore)
	assert.True(t, res.Certifications)

	res = ExtractQuality("pmpx", DefaultCertifications, DefaultQualityScore)
	assert.False(t, res.Certifications)
}

func TestFinalScoreWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a, b, c := rng.Float64(), rng.Float64(), rng.Float64()
		sum := a + b + c + rng.Float64()
		w := Weights{Skills: a / sum, Education: b / sum, Experience: c / sum}
		w.Quality = 1 - w.Skills - w.Education - w.Experience

		r := models.AnalysisResult{
			Skills:     models.SkillsResult{Score: rng.Intn(101)},
			Education:  models.EducationResult{Score: rng.Intn(101)},
			Experience: models.ExperienceResult{Score: rng.Intn(101)},
			Quality:    models.QualityResult{Score: rng.Intn(101)},
		}
		score := FinalScore(r, w)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}

	perfect := models.AnalysisResult{
		Skills:     models.SkillsResult{Score: 100},
		Education:  models.EducationResult{Score: 100},
		Experience: models.ExperienceResult{Score: 100},
		Quality:    models.QualityResult{Score: 100},
	}
	assert.Equal(t, 100, FinalScore(perfect, DefaultWeights))
}

func TestFinalScoreFloors(t *testing.T) {
	r := models.AnalysisResult{
		Skills:     models.SkillsResult{Score: 50},
		Education:  models.EducationResult{Score: 78},
		Experience: models.ExperienceResult{Score: 80},
		Quality:    models.QualityResult{Score: 85},
	}
	// 20 + 15.6 + 24 + 8.5 = 68.1
	assert.Equal(t, 68, FinalScore(r, DefaultWeights))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "B.Sc", titleCase("b.sc"))
	assert.Equal(t, "Computer Science", titleCase("computer science"))
}
