package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// Category classifies a canonical skill
type Category string

const (
	CategoryLanguage    Category = "language"
	CategoryFramework   Category = "framework"
	CategoryDatabase    Category = "database"
	CategoryCloudDevOps Category = "cloud/devops"
	CategoryDataML      Category = "data/ml"
	CategoryTesting     Category = "testing"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]bool{
	CategoryLanguage:    true,
	CategoryFramework:   true,
	CategoryDatabase:    true,
	CategoryCloudDevOps: true,
	CategoryDataML:      true,
	CategoryTesting:     true,
	CategoryOther:       true,
}

// PriorityTier is the weighting category attached to a skill
type PriorityTier string

const (
	PriorityCritical PriorityTier = "critical"
	PriorityHigh     PriorityTier = "high"
	PriorityMedium   PriorityTier = "medium"
	PriorityStandard PriorityTier = "standard"
)

var tierWeights = map[PriorityTier]float64{
	PriorityCritical: 1.5,
	PriorityHigh:     1.3,
	PriorityMedium:   1.2,
	PriorityStandard: 1.0,
}

// Weight returns the ordinal weight of the priority tier
func (p PriorityTier) Weight() float64 {
	return tierWeights[p]
}

// Entry is the declarative form of a canonical skill, as authored in the
// builtin table or a taxonomy file
type Entry struct {
	Name     string       `json:"name"`
	Category Category     `json:"category"`
	Aliases  []string     `json:"aliases,omitempty"`
	Priority PriorityTier `json:"priority"`
}

// term is a single matchable string (the canonical name or one alias) with
// its precompiled boundary-aware pattern
type term struct {
	text string
	kind types.MatchKind
	re   *regexp.Regexp
}

// Skill is a loaded, matchable canonical skill
type Skill struct {
	Name     string
	Category Category
	Aliases  []string
	Priority PriorityTier

	terms []term
}

// Match reports the first matching span of the skill's name or aliases in
// normalized text. Canonical-name hits report kind exact, alias hits report
// kind alias; both carry implicit confidence 1.0.
func (s *Skill) Match(normalized string) (span string, kind types.MatchKind, ok bool) {
	for _, t := range s.terms {
		if t.re.MatchString(normalized) {
			return t.text, t.kind, true
		}
	}
	return "", "", false
}

// Terms returns the matchable strings for fuzzy comparison: the normalized
// canonical name followed by normalized aliases.
func (s *Skill) Terms() []string {
	out := make([]string, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.text
	}
	return out
}

// Taxonomy is the immutable set of canonical skills. It is loaded once at
// process start and shared read-only by all matching operations.
type Taxonomy struct {
	skills []Skill
	byName map[string]*Skill
}

// Skills returns the loaded skills in declaration order
func (t *Taxonomy) Skills() []Skill {
	return t.skills
}

// Get returns the skill with the given canonical name, if loaded
func (t *Taxonomy) Get(name string) (*Skill, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Len returns the number of canonical skills
func (t *Taxonomy) Len() int {
	return len(t.skills)
}

// Normalize lowercases a term and collapses interior whitespace. Characters
// meaningful inside technical names (+ # . / -) are preserved.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// boundary matches any character that ends a technical token. Plain \b
// fails on names like "c++" and "c#", so matching uses an explicit class.
const boundary = `[^a-z0-9+#]`

func compileTerm(text string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?:^|` + boundary + `)` + regexp.QuoteMeta(text) + `(?:$|` + boundary + `)`)
}

// Load validates entries and builds an immutable Taxonomy. Any malformed
// entry is fatal: taxonomy errors belong to process startup, never to a
// scoring request.
func Load(entries []Entry) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy, "taxonomy has no entries", nil)
	}

	t := &Taxonomy{
		skills: make([]Skill, 0, len(entries)),
		byName: make(map[string]*Skill, len(entries)),
	}
	seenTerms := make(map[string]string)
	seenNames := make(map[string]bool, len(entries))

	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("entry %d has an empty name", i), nil)
		}
		if !validCategories[e.Category] {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("skill %q has unknown category %q", e.Name, e.Category), nil)
		}
		if _, ok := tierWeights[e.Priority]; !ok {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("skill %q has unknown priority tier %q", e.Name, e.Priority), nil)
		}
		if seenNames[e.Name] {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("duplicate canonical skill %q", e.Name), nil)
		}
		seenNames[e.Name] = true

		skill := Skill{
			Name:     e.Name,
			Category: e.Category,
			Aliases:  e.Aliases,
			Priority: e.Priority,
		}

		addTerm := func(text string, kind types.MatchKind) error {
			norm := Normalize(text)
			if norm == "" {
				return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
					fmt.Sprintf("skill %q has a blank term", e.Name), nil)
			}
			if owner, taken := seenTerms[norm]; taken && owner != e.Name {
				return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
					fmt.Sprintf("term %q maps to both %q and %q", norm, owner, e.Name), nil)
			}
			seenTerms[norm] = e.Name
			re, err := compileTerm(norm)
			if err != nil {
				return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
					fmt.Sprintf("cannot compile pattern for term %q", norm), err)
			}
			skill.terms = append(skill.terms, term{text: norm, kind: kind, re: re})
			return nil
		}

		if err := addTerm(e.Name, types.MatchExact); err != nil {
			return nil, err
		}
		for _, alias := range e.Aliases {
			if err := addTerm(alias, types.MatchAlias); err != nil {
				return nil, err
			}
		}

		t.skills = append(t.skills, skill)
	}

	for i := range t.skills {
		t.byName[t.skills[i].Name] = &t.skills[i]
	}

	return t, nil
}

// LoadFile reads a JSON taxonomy file and loads it. Used when operators
// supply their own skill table instead of the builtin one.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read taxonomy file: %s", path), err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			fmt.Sprintf("cannot parse taxonomy file: %s", path), err)
	}

	return Load(entries)
}

// Default returns the builtin taxonomy. The builtin table is validated by
// tests, so a load failure here is a programming error.
func Default() *Taxonomy {
	t, err := Load(builtinEntries)
	if err != nil {
		panic(fmt.Sprintf("builtin taxonomy is invalid: %v", err))
	}
	return t
}
