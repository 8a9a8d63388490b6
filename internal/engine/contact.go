package engine

import (
	"regexp"
	"strings"

	"resumescreen/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)

	// name lines are short, mostly alphabetic, and free of contact noise
	nameLinePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z.'\- ]{2,60}$`)
)

// nameScanLines bounds how far into the document the name heuristic looks
const nameScanLines = 5

// ExtractContact pulls candidate identity out of resume text. Email and
// phone come from pattern matches anywhere in the document; the name
// heuristic takes the first plausible line near the top. Fields the text
// does not contain stay empty.
func ExtractContact(text string) types.ContactInfo {
	var info types.ContactInfo

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		info.Phone = strings.TrimSpace(m)
	}

	lines := strings.Split(text, "\n")
	scanned := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > nameScanLines {
			break
		}
		if strings.ContainsAny(line, "@0123456789") {
			continue
		}
		if !nameLinePattern.MatchString(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		info.Name = line
		break
	}

	return info
}
