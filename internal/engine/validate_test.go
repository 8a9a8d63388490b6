package engine

import (
	"strings"
	"testing"
)

func TestValidateResume(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			"real resume",
			"Jane Doe\n\nSummary\nBackend engineer.\n\nExperience\nAcme Corp, five years.\n\nSkills\nPython, Django.\n\nEducation\nBSc 2015.",
			true,
		},
		{"empty", "", false},
		{"whitespace only", "   \n\t ", false},
		{"too short", "Experience and education", false},
		{
			"long but not a resume",
			strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ValidateResume(tt.text)
			if ok != tt.want {
				t.Fatalf("ValidateResume = %v, want %v (reason %q)", ok, tt.want, reason)
			}
			if !ok && reason == "" {
				t.Error("rejection carries no reason")
			}
			if ok && reason != "" {
				t.Errorf("acceptance carries reason %q", reason)
			}
		})
	}
}
