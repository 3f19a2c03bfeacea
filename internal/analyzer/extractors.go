package analyzer

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

var (
	degreePattern = regexp.MustCompile(
		`(bachelor|master|phd|b\.?tech|m\.?tech|b\.?e|b\.?sc)\s*(?:of|in)?\s*(science|engineering|computer science|technology|computers)`)
	experiencePattern = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\s*(?:experience|exp)`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`\b\d{10}\b|\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	wordPattern       = regexp.MustCompile(wordChar + `+`)
)

const (
	wordsPerPage = 500
	maxPages     = 2
	idealPages   = 2
)

// RE2's \w and \b are ASCII only; these classes are the Unicode versions.
const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`
)

// containsTerm reports whether term occurs in text as whole words.
// text must already be lowercased.
func containsTerm(text, term string) bool {
	re, err := regexp.Compile(`(?:^|` + nonWordChar + `)` + regexp.QuoteMeta(term) + `(?:$|` + nonWordChar + `)`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// ExtractSkills splits the required skills into matched and missing.
func ExtractSkills(text string, required []string) models.SkillsResult {
	res := models.SkillsResult{Matched: []string{}, Missing: []string{}}
	for _, skill := range required {
		if containsTerm(text, skill) {
			res.Matched = append(res.Matched, skill)
		} else {
			res.Missing = append(res.Missing, skill)
		}
	}
	if len(required) > 0 {
		res.Score = 100 * len(res.Matched) / len(required)
	}
	return res
}

// ExtractEducation finds the first "<degree> [of|in] <field>" mention.
func ExtractEducation(text string, score int) models.EducationResult {
	m := degreePattern.FindStringSubmatch(text)
	if m == nil {
		return models.EducationResult{Degree: models.DegreeNotFound}
	}
	return models.EducationResult{
		Degree: titleCase(m[1]) + " of " + titleCase(m[2]),
		Found:  true,
		Score:  clampScore(score),
	}
}

// ExtractExperience takes the largest "<N> years experience" claim.
func ExtractExperience(text string, scoring ExperienceScoring) models.ExperienceResult {
	years := -1
	for _, m := range experiencePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if errors.Is(err, strconv.ErrRange) {
			// too many digits for an int; saturate
			n = math.MaxInt
		} else if err != nil {
			continue
		}
		if n > years {
			years = n
		}
	}
	if years < 0 {
		return models.ExperienceResult{}
	}

	var score int
	switch {
	case scoring.PointsPerYear <= 0:
	case years > scoring.Cap/scoring.PointsPerYear:
		// past the cap; also keeps years*PointsPerYear from overflowing
		score = scoring.Cap
	default:
		score = min(scoring.Cap, years*scoring.PointsPerYear)
	}
	return models.ExperienceResult{Years: years, Score: clampScore(score)}
}

// ExtractQuality checks contact details, length and certifications.
// The subscore is the profile's fixed quality score regardless of findings.
func ExtractQuality(text string, certifications []string, score int) models.QualityResult {
	res := models.QualityResult{
		HasEmail:  emailPattern.MatchString(text),
		HasPhone:  phonePattern.MatchString(text),
		WordCount: len(wordPattern.FindAllStringIndex(text, -1)),
		Score:     clampScore(score),
	}
	res.Contact = res.HasEmail && res.HasPhone

	res.EstimatedPages = min(maxPages, res.WordCount/wordsPerPage+1)
	switch {
	case res.EstimatedPages == idealPages:
		res.Length = models.LengthIdeal
	case res.EstimatedPages < idealPages:
		res.Length = models.LengthTooShort
	default:
		res.Length = models.LengthTooLong
	}

	for _, cert := range certifications {
		if containsTerm(text, cert) {
			res.Certifications = true
			break
		}
	}
	return res
}

// titleCase upper-cases the first letter of every letter run, e.g.
// "b.tech" -> "B.Tech", "computer science" -> "Computer Science".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
