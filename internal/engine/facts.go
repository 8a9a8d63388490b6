package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"resumescreen/internal/types"
)

// Explicit experience statements. All matching happens on lowercased text.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*years?\s+(?:of\s+)?(?:professional\s+|work\s+|industry\s+|relevant\s+)?experience`),
	regexp.MustCompile(`experience\s*(?:of|:)\s*(\d+(?:\.\d+)?)\s*\+?\s*years?`),
	regexp.MustCompile(`(?:over|more than)\s+(\d+(?:\.\d+)?)\s+years?`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*years?\s+(?:in|as|working)`),
}

// Date ranges such as "2019-2023", "2018 to present". Open-ended markers
// resolve to the current year.
var dateRangePattern = regexp.MustCompile(`\b(19[89]\d|20\d\d)\s*(?:-|–|—|to|until|through)\s*(19[89]\d|20\d\d|present|current|now|today)\b`)

const (
	maxPlausibleYears = 50.0
	minPlausibleYear  = 1980
)

// ExtractYears derives total years of experience from text. Explicit "N
// years" statements are authoritative and the largest plausible one wins;
// date ranges are consulted only when no statement exists, summing distinct
// ranges. Returns nil when neither signal is present.
func ExtractYears(text string) *float64 {
	lower := strings.ToLower(text)

	var best float64
	found := false
	for _, pat := range experiencePatterns {
		for _, m := range pat.FindAllStringSubmatch(lower, -1) {
			y, err := strconv.ParseFloat(m[1], 64)
			if err != nil || y <= 0 || y > maxPlausibleYears {
				continue
			}
			if y > best {
				best = y
			}
			found = true
		}
	}
	if found {
		return &best
	}

	return yearsFromDateRanges(lower)
}

func yearsFromDateRanges(lower string) *float64 {
	nowYear := time.Now().Year()
	seen := make(map[[2]int]bool)
	total := 0.0
	found := false

	for _, m := range dateRangePattern.FindAllStringSubmatch(lower, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := nowYear
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		if start < minPlausibleYear || start > nowYear+1 || end < minPlausibleYear || end > nowYear+1 {
			continue
		}
		span := end - start
		if span < 0 {
			continue
		}
		key := [2]int{start, end}
		if seen[key] {
			continue
		}
		seen[key] = true
		total += float64(span)
		found = true
	}

	if !found {
		return nil
	}
	if total > maxPlausibleYears {
		total = maxPlausibleYears
	}
	return &total
}

// ClassifySeniority maps years of experience to an ordinal tier. A nil
// input means no experience signal was found and yields no tier.
func ClassifySeniority(years *float64) types.SeniorityTier {
	if years == nil {
		return ""
	}
	y := *years
	switch {
	case y < 1:
		return types.SeniorityEntry
	case y < 3:
		return types.SeniorityJunior
	case y < 5:
		return types.SeniorityMid
	case y < 8:
		return types.SenioritySenior
	default:
		return types.SeniorityLead
	}
}

// degreePattern pairs a degree level with the phrases that indicate it.
// Order runs highest level first so overlapping vocabulary ("doctor of
// philosophy" vs plain "philosophy") resolves upward.
type degreePattern struct {
	level types.DegreeLevel
	re    *regexp.Regexp
}

var degreePatterns = []degreePattern{
	{types.DegreeDoctorate, regexp.MustCompile(`\bph\.?\s?d\.?\b|\bdoctorate\b|\bdoctoral\b|\bdoctor of philosophy\b`)},
	{types.DegreeMaster, regexp.MustCompile(`\bmaster(?:'s|s)?\b|\bm\.?\s?sc?\.?\b|\bmba\b|\bm\.?\s?tech\b|\bm\.?\s?eng\b|\bm\.?a\.\b`)},
	{types.DegreeBachelor, regexp.MustCompile(`\bbachelor(?:'s|s)?\b|\bb\.?\s?sc?\.?\b|\bb\.?\s?tech\b|\bb\.?\s?eng\b|\bb\.?e\.\b|\bb\.?a\.\b|\bundergraduate degree\b`)},
	{types.DegreeDiploma, regexp.MustCompile(`\bdiploma\b|\bassociate(?:'s)? degree\b`)},
	{types.DegreeCertificate, regexp.MustCompile(`\bcertificate\b|\bcertification\b|\bcertified\b`)},
}

// "in X" beats "of X" so "bachelor of science in computer science" yields
// the field, not the faculty.
var (
	specializationInPattern = regexp.MustCompile(`\bin\s+([a-z][a-z&/ ]{2,50})`)
	specializationOfPattern = regexp.MustCompile(`\bof\s+([a-z][a-z&/ ]{2,50})`)
	gradYearPattern         = regexp.MustCompile(`\b(19\d\d|20\d\d)\b`)
)

// specializationWindow bounds how far past a degree mention the extractor
// looks for its field of study and graduation year.
const specializationWindow = 150

// ExtractEducation finds degree mentions in text, one record per mention,
// ordered by first occurrence. Specialization and graduation year come from
// a bounded window after each mention.
func ExtractEducation(text string) []types.EducationRecord {
	lower := strings.ToLower(text)

	type hit struct {
		pos    int
		record types.EducationRecord
	}
	var hits []hit

	for _, dp := range degreePatterns {
		for _, loc := range dp.re.FindAllStringIndex(lower, -1) {
			end := loc[1] + specializationWindow
			if end > len(lower) {
				end = len(lower)
			}
			window := lower[loc[1]:end]

			record := types.EducationRecord{Level: dp.level}
			if m := specializationInPattern.FindStringSubmatch(window); m != nil {
				record.Specialization = strings.TrimSpace(trimAtLineBreak(m[1]))
			} else if m := specializationOfPattern.FindStringSubmatch(window); m != nil {
				record.Specialization = strings.TrimSpace(trimAtLineBreak(m[1]))
			}
			if m := gradYearPattern.FindStringSubmatch(window); m != nil {
				if y, err := strconv.Atoi(m[1]); err == nil && y >= minPlausibleYear && y <= time.Now().Year()+1 {
					record.GraduationYear = y
				}
			}

			hits = append(hits, hit{pos: loc[0], record: record})
		}
	}

	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].pos < hits[i].pos {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}

	records := make([]types.EducationRecord, len(hits))
	for i, h := range hits {
		records[i] = h.record
	}
	return records
}

func trimAtLineBreak(s string) string {
	if i := strings.IndexAny(s, "\n\r"); i >= 0 {
		return s[:i]
	}
	return s
}

// HighestDegree returns the best degree level among records, or none
func HighestDegree(records []types.EducationRecord) types.DegreeLevel {
	best := types.DegreeNone
	for _, r := range records {
		if r.Level.Rank() > best.Rank() {
			best = r.Level
		}
	}
	return best
}
