package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClassifyExpiry(t *testing.T) {
	tests := []struct {
		name        string
		timeLeft    time.Duration
		wantStatus  string
		wantHealthy bool
	}{
		{"already expired", -time.Hour, "expired", false},
		{"inside critical window", 12 * time.Hour, "critical", false},
		{"inside warning window", 3 * 24 * time.Hour, "warning", true},
		{"plenty of time", 30 * 24 * time.Hour, "ok", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, healthy := classifyExpiry(tt.timeLeft)
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if healthy != tt.wantHealthy {
				t.Errorf("healthy = %v, want %v", healthy, tt.wantHealthy)
			}
		})
	}
}

func TestExtractAPIKey(t *testing.T) {
	t.Run("header key", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", nil)
		r.Header.Set("X-API-Key", "header-key")
		if got := extractAPIKey(r); got != "header-key" {
			t.Errorf("extractAPIKey = %q, want %q", got, "header-key")
		}
	})

	t.Run("bearer fallback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", nil)
		r.Header.Set("Authorization", "Bearer bearer-key")
		if got := extractAPIKey(r); got != "bearer-key" {
			t.Errorf("extractAPIKey = %q, want %q", got, "bearer-key")
		}
	})

	t.Run("header wins over bearer", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", nil)
		r.Header.Set("X-API-Key", "header-key")
		r.Header.Set("Authorization", "Bearer bearer-key")
		if got := extractAPIKey(r); got != "header-key" {
			t.Errorf("extractAPIKey = %q, want %q", got, "header-key")
		}
	})

	t.Run("no credentials", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", nil)
		if got := extractAPIKey(r); got != "" {
			t.Errorf("extractAPIKey = %q, want empty", got)
		}
	})
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("short key mask = %q, want ****", got)
	}
	if got := maskAPIKey("abcdefgh12345678"); got != "abcdefgh****" {
		t.Errorf("long key mask = %q, want abcdefgh****", got)
	}
}

func TestParseJSONRequest(t *testing.T) {
	t.Run("rejects wrong content type", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")

		var req ScoreRequest
		err := parseJSONRequest(r, &req)
		if err == nil || !strings.Contains(err.Error(), "application/json") {
			t.Errorf("expected content-type error, got %v", err)
		}
	})

	t.Run("decodes valid body", func(t *testing.T) {
		body := `{"resumeText":"resume","jobDescription":"job"}`
		r := httptest.NewRequest("POST", "/score", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			t.Fatalf("parseJSONRequest failed: %v", err)
		}
		if req.ResumeText != "resume" || req.JobDescription != "job" {
			t.Errorf("decoded %+v, want resume/job fields set", req)
		}
	})

	t.Run("reports malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/score", strings.NewReader(`{"resumeText":`))
		r.Header.Set("Content-Type", "application/json")

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err == nil {
			t.Error("expected parse error for truncated JSON")
		}
	})
}

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	writeErrorResponse(w, "Bad input", "field missing", 400)

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	if !strings.Contains(w.Body.String(), `"Bad input"`) {
		t.Errorf("body %q missing error text", w.Body.String())
	}
}
