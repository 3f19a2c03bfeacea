// Package report renders analysis results as a text report and a bar chart.
package report

import (
	"fmt"
	"strings"

	"github.com/feichai0017/resume-analyzer/internal/models"
)

// Section labels delimit the report; clients may split on them.
const (
	SectionSkills     = "1️⃣ Skills Match:"
	SectionEducation  = "2️⃣ Education Match:"
	SectionExperience = "3️⃣ Experience Match:"
	SectionQuality    = "4️⃣ Resume Quality Check:"
	SectionFinal      = "5️⃣ Final Fit Score:"
)

const title = "Resume Analysis Report"

// Band buckets the final score.
type Band string

const (
	BandStrong  Band = "strong"
	BandPartial Band = "partial"
	BandWeak    Band = "weak"
)

// Verdict returns the band of a final score: >=80 strong, >=60 partial.
func Verdict(score int) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandPartial
	default:
		return BandWeak
	}
}

// Message is the human-readable verdict line for a band.
func (b Band) Message() string {
	switch b {
	case BandStrong:
		return "You are a strong candidate!"
	case BandPartial:
		return "You meet some requirements but need improvement."
	default:
		return "The resume doesn't meet most requirements."
	}
}

// Text renders the report. Output depends only on r, so repeated calls are
// byte-identical.
func Text(r models.AnalysisResult) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("%s\n%s\n", title, strings.Repeat("=", 30))
	if r.Role != "" {
		add("Target Role: %s\n", r.Role)
	}

	add("%s", SectionSkills)
	add("Score: %d%%", r.Skills.Score)
	add("Matched Skills: %s", strings.Join(r.Skills.Matched, ", "))
	if len(r.Skills.Missing) > 0 {
		add("Missing Important Skills: %s", strings.Join(r.Skills.Missing, ", "))
	}

	add("\n%s", SectionEducation)
	add("Degree: %s", r.Education.Degree)
	add("Score: %d%%", r.Education.Score)

	add("\n%s", SectionExperience)
	add("Total Experience: %d years", r.Experience.Years)
	add("Score: %d%%", r.Experience.Score)

	add("\n%s", SectionQuality)
	add("Contact Info: %s", presence(r.Quality.Contact))
	add("Formatting: Good")
	add("Length: %s", r.Quality.Length)
	if !r.Quality.Certifications {
		add("Suggestions: Add certifications section.")
	}

	add("\n%s %d%%", SectionFinal, r.FinalScore)
	band := Verdict(r.FinalScore)
	add("%s", band.Message())
	if band == BandStrong && len(r.Skills.Missing) > 0 {
		add("Focus on %s.", strings.Join(r.Skills.Missing, ", "))
	}

	return strings.Join(lines, "\n")
}

func presence(ok bool) string {
	if ok {
		return "Present"
	}
	return "Missing"
}

// Sections splits a rendered report into its labeled sections, keyed by label.
func Sections(report string) map[string]string {
	labels := []string{SectionSkills, SectionEducation, SectionExperience, SectionQuality, SectionFinal}
	out := make(map[string]string, len(labels))
	for i, label := range labels {
		start := strings.Index(report, label)
		if start < 0 {
			continue
		}
		body := report[start+len(label):]
		if i+1 < len(labels) {
			if end := strings.Index(body, labels[i+1]); end >= 0 {
				body = body[:end]
			}
		}
		out[label] = strings.TrimSpace(body)
	}
	return out
}
