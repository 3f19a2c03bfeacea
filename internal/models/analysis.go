package models

// LengthClass is the page-count verdict of the quality check.
type LengthClass string

const (
	LengthTooShort LengthClass = "Too short"
	LengthIdeal    LengthClass = "Ideal"
	LengthTooLong  LengthClass = "Too long"
)

// DegreeNotFound is reported when no degree pattern matches.
const DegreeNotFound = "Not Found"

type SkillsResult struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Score   int      `json:"score"`
}

type EducationResult struct {
	Degree string `json:"degree"`
	Found  bool   `json:"found"`
	Score  int    `json:"score"`
}

type ExperienceResult struct {
	Years int `json:"years"`
	Score int `json:"score"`
}

type QualityResult struct {
	HasEmail       bool        `json:"hasEmail"`
	HasPhone       bool        `json:"hasPhone"`
	Contact        bool        `json:"contact"`
	WordCount      int         `json:"wordCount"`
	EstimatedPages int         `json:"estimatedPages"`
	Length         LengthClass `json:"length"`
	Certifications bool        `json:"certifications"`
	Score          int         `json:"score"`
}

// AnalysisResult holds the subscores and evidence of one resume analysis.
type AnalysisResult struct {
	Role       string           `json:"role"`
	Skills     SkillsResult     `json:"skills"`
	Education  EducationResult  `json:"education"`
	Experience ExperienceResult `json:"experience"`
	Quality    QualityResult    `json:"quality"`
	FinalScore int              `json:"finalScore"`
}

// Category is one scored dimension, in report order.
type Category struct {
	Name  string
	Score int
}

// Categories returns the four subscores in report order.
func (r AnalysisResult) Categories() []Category {
	return []Category{
		{Name: "Skills", Score: r.Skills.Score},
		{Name: "Education", Score: r.Education.Score},
		{Name: "Experience", Score: r.Experience.Score},
		{Name: "Quality", Score: r.Quality.Score},
	}
}
