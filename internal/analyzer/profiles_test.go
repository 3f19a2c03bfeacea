package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{RoleDataScientist, RoleMLEngineer, RoleDataAnalyst, RoleSoftwareEngineer}, r.Roles())
	assert.Equal(t, RoleDataScientist, r.DefaultRole())

	p, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, RoleDataScientist, p.Name)
	assert.Equal(t, DefaultWeights, p.Weights)
	assert.Equal(t, 78, p.EducationScore)
	assert.Equal(t, 85, p.QualityScore)
	assert.Equal(t, ExperienceScoring{PointsPerYear: 20, Cap: 80}, p.Experience)

	p, err = r.Get("  software engineer ")
	require.NoError(t, err)
	assert.Equal(t, RoleSoftwareEngineer, p.Name)

	_, err = r.Get("Astronaut")
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestRolesChangeTheAnalysis(t *testing.T) {
	r := DefaultRegistry()
	text := "sql, excel, tableau and power bi dashboards"

	ds, _ := r.Get(RoleDataScientist)
	da, _ := r.Get(RoleDataAnalyst)

	assert.Less(t, Analyze(text, ds).Skills.Score, Analyze(text, da).Skills.Score)
}

func TestParseRegistryOverridesAndAdds(t *testing.T) {
	doc := `
default_role: DevOps Engineer
profiles:
  - name: Data Scientist
    required_skills: [Python, R, " SQL ", python]
    education_score: 90
  - name: DevOps Engineer
    required_skills: [terraform, kubernetes, docker, linux]
    certifications: [cka]
    weights: {skills: 0.5, education: 0.1, experience: 0.3, quality: 0.1}
    quality_score: 70
    experience: {points_per_year: 25, cap: 100}
`
	r, err := ParseRegistry([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "DevOps Engineer", r.DefaultRole())
	assert.Len(t, r.Roles(), 5)

	ds, err := r.Get(RoleDataScientist)
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "r", "sql"}, ds.RequiredSkills)
	assert.Equal(t, 90, ds.EducationScore)
	assert.Equal(t, DefaultWeights, ds.Weights)

	devops, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, []string{"cka"}, devops.Certifications)
	assert.Equal(t, 70, devops.QualityScore)

	res := Analyze("4 years experience with terraform and docker, cka", devops)
	assert.Equal(t, 50, res.Skills.Score)
	assert.Equal(t, 100, res.Experience.Score)
	assert.True(t, res.Quality.Certifications)
}

func TestParseRegistryKeepsZeroOverrides(t *testing.T) {
	doc := `
profiles:
  - name: Strict
    required_skills: [go]
    education_score: 0
    quality_score: 0
    experience: {points_per_year: 0, cap: 0}
  - name: Partial
    required_skills: [go]
    experience: {cap: 50}
`
	r, err := ParseRegistry([]byte(doc))
	require.NoError(t, err)

	strict, err := r.Get("strict")
	require.NoError(t, err)
	assert.Equal(t, 0, strict.EducationScore)
	assert.Equal(t, 0, strict.QualityScore)
	assert.Equal(t, ExperienceScoring{}, strict.Experience)

	res := Analyze("bachelor of science, 5 years experience", strict)
	assert.True(t, res.Education.Found)
	assert.Equal(t, 0, res.Education.Score)
	assert.Equal(t, 0, res.Experience.Score)
	assert.Equal(t, 0, res.Quality.Score)

	partial, err := r.Get("partial")
	require.NoError(t, err)
	assert.Equal(t, DefaultEducationScore, partial.EducationScore)
	assert.Equal(t, DefaultQualityScore, partial.QualityScore)
	assert.Equal(t, ExperienceScoring{PointsPerYear: DefaultExperiencePerYear, Cap: 50}, partial.Experience)
}

func TestParseRegistryRejectsInvalidProfiles(t *testing.T) {
	tests := map[string]string{
		"weights sum": `
profiles:
  - name: X
    required_skills: [go]
    weights: {skills: 0.5, education: 0.5, experience: 0.5, quality: 0.1}
`,
		"empty skills": `
profiles:
  - name: X
    required_skills: []
`,
		"score range": `
profiles:
  - name: X
    required_skills: [go]
    quality_score: 140
`,
		"unknown default": `
default_role: Nobody
`,
		"bad yaml": `profiles: [`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_role: Data Analyst\n"), 0o644))

	r, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, RoleDataAnalyst, r.DefaultRole())

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights.Validate())
	assert.Error(t, Weights{Skills: 1.2, Education: -0.2}.Validate())
	assert.Error(t, Weights{Skills: 0.3, Education: 0.3}.Validate())
	assert.NoError(t, Weights{Skills: 0.25, Education: 0.25, Experience: 0.25, Quality: 0.25}.Validate())
}
