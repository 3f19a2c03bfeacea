package analyzer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRole is returned when a role has no registered profile.
var ErrUnknownRole = errors.New("unknown job role")

// Weights are the category multipliers of the final score. They must sum to 1.
type Weights struct {
	Skills     float64 `yaml:"skills" json:"skills"`
	Education  float64 `yaml:"education" json:"education"`
	Experience float64 `yaml:"experience" json:"experience"`
	Quality    float64 `yaml:"quality" json:"quality"`
}

// DefaultWeights is skills .4, education .2, experience .3, quality .1.
var DefaultWeights = Weights{Skills: 0.4, Education: 0.2, Experience: 0.3, Quality: 0.1}

const weightTolerance = 1e-6

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skills": w.Skills, "education": w.Education, "experience": w.Experience, "quality": w.Quality,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("weight %s=%v outside [0,1]", name, v)
		}
	}
	if sum := w.Skills + w.Education + w.Experience + w.Quality; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights sum to %v, want 1", sum)
	}
	return nil
}

// ExperienceScoring converts years into the experience subscore.
type ExperienceScoring struct {
	PointsPerYear int `yaml:"points_per_year" json:"pointsPerYear"`
	Cap           int `yaml:"cap" json:"cap"`
}

// Profile is the scoring configuration of one job role.
type Profile struct {
	Name           string            `yaml:"name" json:"name"`
	RequiredSkills []string          `yaml:"required_skills" json:"requiredSkills"`
	Certifications []string          `yaml:"certifications" json:"certifications"`
	Weights        Weights           `yaml:"weights" json:"weights"`
	EducationScore int               `yaml:"education_score" json:"educationScore"`
	QualityScore   int               `yaml:"quality_score" json:"qualityScore"`
	Experience     ExperienceScoring `yaml:"experience" json:"experience"`
}

// Default fixed scores. They are placeholders carried over from the first
// scoring model and are overridable per profile.
const (
	DefaultEducationScore     = 78
	DefaultQualityScore       = 85
	DefaultExperiencePerYear  = 20
	DefaultExperienceScoreCap = 80
)

// DefaultCertifications are the phrases that count as a certification.
var DefaultCertifications = []string{
	"aws certified", "microsoft certified", "google cloud",
	"oracle certified", "cisco certified", "pmp",
	"data science", "machine learning",
}

// NewProfile returns a profile for name with the default fixed scores and
// experience scoring. Weights and certifications are filled on registration.
func NewProfile(name string, requiredSkills ...string) Profile {
	return Profile{
		Name:           name,
		RequiredSkills: requiredSkills,
		EducationScore: DefaultEducationScore,
		QualityScore:   DefaultQualityScore,
		Experience: ExperienceScoring{
			PointsPerYear: DefaultExperiencePerYear,
			Cap:           DefaultExperienceScoreCap,
		},
	}
}

// UnmarshalYAML decodes onto NewProfile so that an absent score keeps its
// default while an explicit 0 stays 0.
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	type plain Profile
	out := plain(NewProfile(""))
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = Profile(out)
	return nil
}

// withDefaults fills unset weights and certifications and normalizes terms.
// All-zero weights cannot validate, so they are read as unset.
func (p Profile) withDefaults() Profile {
	if p.Weights == (Weights{}) {
		p.Weights = DefaultWeights
	}
	if p.Certifications == nil {
		p.Certifications = append([]string(nil), DefaultCertifications...)
	}
	p.RequiredSkills = normalizeTerms(p.RequiredSkills)
	p.Certifications = normalizeTerms(p.Certifications)
	return p
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if len(p.RequiredSkills) == 0 {
		return fmt.Errorf("profile %q: required_skills is empty", p.Name)
	}
	if err := p.Weights.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	for name, v := range map[string]int{
		"education_score": p.EducationScore,
		"quality_score":   p.QualityScore,
		"experience.cap":  p.Experience.Cap,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("profile %q: %s=%d outside [0,100]", p.Name, name, v)
		}
	}
	if p.Experience.PointsPerYear < 0 {
		return fmt.Errorf("profile %q: experience.points_per_year is negative", p.Name)
	}
	return nil
}

// normalizeTerms lowercases, trims and de-duplicates while keeping order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
