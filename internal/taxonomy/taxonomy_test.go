package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

func TestDefaultTaxonomyLoads(t *testing.T) {
	tax := Default()
	if tax.Len() == 0 {
		t.Fatal("builtin taxonomy is empty")
	}

	for _, name := range []string{"Python", "Kubernetes", "PostgreSQL", "React"} {
		if _, ok := tax.Get(name); !ok {
			t.Errorf("builtin taxonomy missing %q", name)
		}
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty table", nil},
		{"blank name", []Entry{{Name: "  ", Category: CategoryLanguage, Priority: PriorityStandard}}},
		{"unknown category", []Entry{{Name: "Zig", Category: "esoteric", Priority: PriorityStandard}}},
		{"unknown priority", []Entry{{Name: "Zig", Category: CategoryLanguage, Priority: "urgent"}}},
		{"duplicate name", []Entry{
			{Name: "Zig", Category: CategoryLanguage, Priority: PriorityStandard},
			{Name: "Zig", Category: CategoryLanguage, Priority: PriorityHigh},
		}},
		{"alias collision", []Entry{
			{Name: "Zig", Category: CategoryLanguage, Aliases: []string{"z"}, Priority: PriorityStandard},
			{Name: "Z3", Category: CategoryOther, Aliases: []string{"z"}, Priority: PriorityStandard},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.entries)
			if err == nil {
				t.Fatal("expected load error, got nil")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidTaxonomy {
				t.Errorf("expected code %s, got %s", errors.ErrCodeInvalidTaxonomy, appErr.Code)
			}
		})
	}
}

func TestSkillMatchBoundaries(t *testing.T) {
	tax := Default()

	tests := []struct {
		skill    string
		text     string
		wantHit  bool
		wantKind types.MatchKind
	}{
		{"Java", "5 years of java development", true, types.MatchExact},
		{"Java", "expert in javascript only", false, ""},
		{"JavaScript", "shipped js widgets", true, types.MatchAlias},
		{"Kubernetes", "managed k8s clusters", true, types.MatchAlias},
		{"PostgreSQL", "strong sql background", true, types.MatchAlias},
		{"PostgreSQL", "tuned mysql instances", false, ""},
		{"C++", "c++ systems programming", true, types.MatchExact},
		{"Go", "built services in go", true, types.MatchExact},
	}

	for _, tt := range tests {
		t.Run(tt.skill+"/"+tt.text, func(t *testing.T) {
			skill, ok := tax.Get(tt.skill)
			if !ok {
				t.Fatalf("skill %q not in taxonomy", tt.skill)
			}
			_, kind, hit := skill.Match(Normalize(tt.text))
			if hit != tt.wantHit {
				t.Fatalf("Match(%q) hit = %v, want %v", tt.text, hit, tt.wantHit)
			}
			if hit && kind != tt.wantKind {
				t.Errorf("Match(%q) kind = %s, want %s", tt.text, kind, tt.wantKind)
			}
		})
	}
}

func TestPriorityWeights(t *testing.T) {
	tests := []struct {
		tier PriorityTier
		want float64
	}{
		{PriorityCritical, 1.5},
		{PriorityHigh, 1.3},
		{PriorityMedium, 1.2},
		{PriorityStandard, 1.0},
	}
	for _, tt := range tests {
		if got := tt.tier.Weight(); got != tt.want {
			t.Errorf("%s weight = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Machine   Learning  ", "machine learning"},
		{"Node.JS", "node.js"},
		{"C++", "c++"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.json")
	data := `[{"name":"Zig","category":"language","aliases":["ziglang"],"priority":"high"}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	tax, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	skill, ok := tax.Get("Zig")
	if !ok {
		t.Fatal("loaded taxonomy missing Zig")
	}
	if skill.Priority != PriorityHigh {
		t.Errorf("priority = %s, want high", skill.Priority)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
