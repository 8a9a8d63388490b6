package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	standard := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   string
	}{
		{
			name:      "json is accepted",
			format:    "json",
			supported: standard,
		},
		{
			name:      "markdown is accepted",
			format:    "markdown",
			supported: standard,
		},
		{
			name:      "xml is rejected",
			format:    "xml",
			supported: standard,
			wantErr:   `unknown output format "xml" (supported: json, text, markdown)`,
		},
		{
			name:      "matching is case sensitive",
			format:    "JSON",
			supported: standard,
			wantErr:   `unknown output format "JSON" (supported: json, text, markdown)`,
		},
		{
			name:      "empty format is rejected",
			format:    "",
			supported: standard,
			wantErr:   `unknown output format "" (supported: json, text, markdown)`,
		},
		{
			name:      "empty allow-list accepts anything",
			format:    "csv",
			supported: nil,
		},
		{
			name:      "single-entry allow-list",
			format:    "text",
			supported: []string{"json"},
			wantErr:   `unknown output format "text" (supported: json)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := []string{"json", "text"}
	got := GetSupportedFormats(formats)
	if len(got) != 2 || got[0] != "json" || got[1] != "text" {
		t.Errorf("GetSupportedFormats returned %v, want %v", got, formats)
	}
	if got := GetSupportedFormats(nil); len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %v", got)
	}
}
