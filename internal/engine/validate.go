package engine

import (
	"strings"
)

// resumeSections are section headers and phrases that distinguish a resume
// from an arbitrary document. Each distinct hit adds confidence.
var resumeSections = []string{
	"experience", "education", "skills", "summary", "objective",
	"employment", "projects", "certifications", "work history",
	"professional", "achievements", "references",
}

// minResumeLength filters out fragments that cannot carry enough signal
// to score meaningfully.
const minResumeLength = 100

// minSectionHits is the number of distinct resume markers required
const minSectionHits = 2

// ValidateResume reports whether text plausibly is a resume, with the
// evidence found. Batch scoring uses this to skip stray documents instead
// of ranking them.
func ValidateResume(text string) (ok bool, reason string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, "document is empty"
	}
	if len(trimmed) < minResumeLength {
		return false, "document is too short to be a resume"
	}

	lower := strings.ToLower(trimmed)
	hits := 0
	for _, section := range resumeSections {
		if strings.Contains(lower, section) {
			hits++
		}
	}
	if hits < minSectionHits {
		return false, "document lacks resume sections such as experience, education or skills"
	}

	return true, ""
}
