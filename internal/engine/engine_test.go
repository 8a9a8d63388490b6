package engine

import (
	"context"
	"strings"
	"testing"

	"resumescreen/internal/types"
)

const sampleJob = `Backend Engineer

We need a backend engineer with 3 years of experience.
Required skills: Python, Django, PostgreSQL, Docker, AWS.
Bachelor's degree in computer science preferred.`

const sampleResume = `Jane Doe
jane.doe@example.com
+1 (555) 123-4567

Summary
Backend engineer with 4 years of experience building web services.

Skills
Python, Django, strong sql background, Docker.

Experience
Acme Corp, Software Engineer, 2020 - present

Education
Bachelor of Science in Computer Science, 2019`

func newTestEngine() *Engine {
	return NewEngine(nil, &fakeEmbedder{}, balancedWeights, Options{})
}

func TestEngineScore(t *testing.T) {
	e := newTestEngine()

	out, err := e.Score(context.Background(), sampleResume, sampleJob)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// 4 of the 5 required skills are present, with sql counting toward
	// PostgreSQL through the alias table
	if out.Breakdown.SkillScore != 80 {
		t.Errorf("skill score = %v, want 80", out.Breakdown.SkillScore)
	}
	if got := out.Breakdown.MissingSkills.All(); len(got) != 1 || got[0] != "AWS" {
		t.Errorf("missing = %v, want [AWS]", got)
	}

	// 4 years against a 3 year requirement sits between the checkpoints
	if out.Breakdown.ExperienceScore <= 80 || out.Breakdown.ExperienceScore >= 100 {
		t.Errorf("experience score = %v, want in (80, 100)", out.Breakdown.ExperienceScore)
	}

	if out.Breakdown.EducationScore != 75 {
		t.Errorf("education score = %v, want 75 for a bachelor", out.Breakdown.EducationScore)
	}

	if out.Breakdown.FinalScore < 0 || out.Breakdown.FinalScore > 100 {
		t.Errorf("final score = %v, out of range", out.Breakdown.FinalScore)
	}
	if out.Report.Assessment == "" {
		t.Error("report has no assessment")
	}

	if out.Profile.Seniority != types.SeniorityMid {
		t.Errorf("seniority = %s, want mid for 4 years", out.Profile.Seniority)
	}
	if out.Job.YearsOfExperience == nil || *out.Job.YearsOfExperience != 3 {
		t.Errorf("required years = %v, want 3 from the job text", out.Job.YearsOfExperience)
	}
}

func TestEngineScoreEmptyResume(t *testing.T) {
	e := newTestEngine()

	out, err := e.Score(context.Background(), "", sampleJob)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if len(out.Profile.Skills) != 0 {
		t.Errorf("empty resume produced %d skills", len(out.Profile.Skills))
	}
	if out.Breakdown.SkillScore != 0 {
		t.Errorf("skill score = %v, want 0", out.Breakdown.SkillScore)
	}
	if out.Breakdown.ExperienceScore != DefaultNeutralExperienceScore {
		t.Errorf("experience score = %v, want neutral %v", out.Breakdown.ExperienceScore, DefaultNeutralExperienceScore)
	}
	if out.Breakdown.EducationScore != 50 {
		t.Errorf("education score = %v, want 50", out.Breakdown.EducationScore)
	}
}

func TestEngineRequiredYearsDefault(t *testing.T) {
	e := newTestEngine()

	job := e.ExtractRequirements("Looking for a Python engineer. No experience requirement stated.")
	if job.YearsOfExperience == nil || *job.YearsOfExperience != DefaultRequiredYears {
		t.Errorf("required years = %v, want default %v", job.YearsOfExperience, DefaultRequiredYears)
	}
}

func TestEngineScoreEmbeddingFailure(t *testing.T) {
	e := NewEngine(nil, &fakeEmbedder{fail: true}, balancedWeights, Options{})

	if _, err := e.Score(context.Background(), sampleResume, sampleJob); err == nil {
		t.Fatal("expected embedding failure to fail the call")
	}
}

func TestEngineScoreBatchRanksDescending(t *testing.T) {
	e := newTestEngine()

	strong := sampleResume
	weak := `John Roe

Summary
Marketing coordinator with experience in event planning.

Skills
Budgeting, vendor management.

Education
Diploma in communications, 2018`

	out, err := e.ScoreBatch(context.Background(), sampleJob, []types.BatchResume{
		{Name: "weak.txt", Text: weak},
		{Name: "strong.txt", Text: strong},
	})
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}

	if len(out.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out.Candidates))
	}
	if out.Candidates[0].Name != "strong.txt" {
		t.Errorf("first candidate = %s, want strong.txt", out.Candidates[0].Name)
	}
	if out.Candidates[0].Breakdown.FinalScore < out.Candidates[1].Breakdown.FinalScore {
		t.Error("candidates not ranked by descending score")
	}
	if out.Candidates[0].Contact.Email != "jane.doe@example.com" {
		t.Errorf("contact email = %q", out.Candidates[0].Contact.Email)
	}
}

func TestEngineScoreBatchSkipsNonResumes(t *testing.T) {
	e := newTestEngine()

	out, err := e.ScoreBatch(context.Background(), sampleJob, []types.BatchResume{
		{Name: "real.txt", Text: sampleResume},
		{Name: "note.txt", Text: "remember to buy milk"},
		{Name: "empty.txt", Text: ""},
	})
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}

	if len(out.Candidates) != 1 || out.Candidates[0].Name != "real.txt" {
		t.Errorf("candidates = %+v, want only real.txt", out.Candidates)
	}
	if len(out.Skipped) != 2 {
		t.Fatalf("got %d skipped, want 2", len(out.Skipped))
	}
	for _, s := range out.Skipped {
		if s.Reason == "" {
			t.Errorf("skipped %s has no reason", s.Name)
		}
	}
}

func TestEngineScoreBatchTieBreakByName(t *testing.T) {
	e := newTestEngine()

	out, err := e.ScoreBatch(context.Background(), sampleJob, []types.BatchResume{
		{Name: "bbb.txt", Text: sampleResume},
		{Name: "aaa.txt", Text: sampleResume},
	})
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out.Candidates))
	}
	if out.Candidates[0].Name != "aaa.txt" {
		t.Errorf("tie not broken by name: %s first", out.Candidates[0].Name)
	}
}

func TestEngineExtract(t *testing.T) {
	e := newTestEngine()

	out := e.Extract(sampleResume)
	if _, ok := findSkill(out.Skills, "Python"); !ok {
		t.Error("extract missing Python")
	}
	if out.Years == nil || *out.Years != 4 {
		t.Errorf("years = %v, want 4", out.Years)
	}
	if out.Contact.Name == "" || !strings.Contains(out.Contact.Name, "Jane") {
		t.Errorf("contact name = %q, want Jane Doe", out.Contact.Name)
	}
	if len(out.Education) == 0 {
		t.Error("extract missing education")
	}
}
