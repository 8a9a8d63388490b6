package engine

import (
	"math"
	"testing"

	"resumescreen/internal/types"
)

var balancedWeights = Weights{Semantic: 0.40, Skill: 0.35, Experience: 0.15, Education: 0.10}

func mkSkill(name, priority string) types.MatchedSkill {
	return types.MatchedSkill{Name: name, Priority: priority, Kind: types.MatchExact, Confidence: 1.0}
}

func TestScoreSkillsRatio(t *testing.T) {
	required := []types.MatchedSkill{
		mkSkill("Python", "critical"),
		mkSkill("Django", "critical"),
		mkSkill("PostgreSQL", "high"),
		mkSkill("Docker", "critical"),
		mkSkill("AWS", "critical"),
	}
	have := []types.MatchedSkill{
		mkSkill("Python", "critical"),
		mkSkill("Django", "critical"),
		mkSkill("PostgreSQL", "high"),
		mkSkill("Docker", "critical"),
	}

	score, matched, missing := scoreSkills(have, required)
	if score != 80 {
		t.Errorf("score = %v, want 80 for 4 of 5", score)
	}
	if len(matched) != 4 {
		t.Errorf("matched %d skills, want 4", len(matched))
	}
	if missing.Total() != 1 || len(missing.Critical) != 1 || missing.Critical[0] != "AWS" {
		t.Errorf("missing = %+v, want AWS in critical", missing)
	}
}

func TestScoreSkillsPartition(t *testing.T) {
	required := []types.MatchedSkill{
		mkSkill("Python", "critical"),
		mkSkill("Redis", "high"),
		mkSkill("GraphQL", "medium"),
		mkSkill("Git", "standard"),
	}
	have := []types.MatchedSkill{mkSkill("Python", "critical")}

	_, matched, missing := scoreSkills(have, required)

	// matched and missing together cover the required set exactly once
	all := append([]string{}, matched...)
	all = append(all, missing.All()...)
	if len(all) != len(required) {
		t.Fatalf("matched+missing = %d entries, want %d", len(all), len(required))
	}
	seen := map[string]bool{}
	for _, name := range all {
		if seen[name] {
			t.Errorf("%s appears in both matched and missing", name)
		}
		seen[name] = true
	}
	for _, req := range required {
		if !seen[req.Name] {
			t.Errorf("%s missing from the partition", req.Name)
		}
	}
}

func TestScoreSkillsMissingBuckets(t *testing.T) {
	required := []types.MatchedSkill{
		mkSkill("Kubernetes", "critical"),
		mkSkill("Redis", "high"),
		mkSkill("GraphQL", "medium"),
		mkSkill("Git", "standard"),
	}

	_, _, missing := scoreSkills(nil, required)
	if len(missing.Critical) != 1 || missing.Critical[0] != "Kubernetes" {
		t.Errorf("critical = %v", missing.Critical)
	}
	if len(missing.High) != 1 || missing.High[0] != "Redis" {
		t.Errorf("high = %v", missing.High)
	}
	if len(missing.Medium) != 1 || missing.Medium[0] != "GraphQL" {
		t.Errorf("medium = %v", missing.Medium)
	}
	if len(missing.Standard) != 1 || missing.Standard[0] != "Git" {
		t.Errorf("standard = %v", missing.Standard)
	}
}

func TestScoreSkillsVacuousRequirement(t *testing.T) {
	score, matched, missing := scoreSkills([]types.MatchedSkill{mkSkill("Python", "critical")}, nil)
	if score != 100 {
		t.Errorf("score = %v, want 100 when the job requires nothing", score)
	}
	if len(matched) != 0 || missing.Total() != 0 {
		t.Errorf("matched = %v, missing = %+v, want both empty", matched, missing)
	}
}

func TestScoreExperienceCheckpoints(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		have     *float64
		required float64
		want     float64
	}{
		{"no signal uses neutral", nil, 3, 50},
		{"zero years", f(0), 3, 0},
		{"exactly met", f(3), 3, 80},
		{"half met", f(1.5), 3, 40},
		{"fifty percent over", f(4.5), 3, 100},
		{"far over caps at 100", f(30), 3, 100},
		{"between checkpoints", f(3.75), 3, 90},
		{"zero requirement", f(0.5), 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreExperience(tt.have, tt.required, 50)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreExperience = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEducationScores(t *testing.T) {
	tests := []struct {
		level types.DegreeLevel
		want  float64
	}{
		{types.DegreeDoctorate, 100},
		{types.DegreeMaster, 90},
		{types.DegreeBachelor, 75},
		{types.DegreeDiploma, 60},
		{types.DegreeCertificate, 50},
		{types.DegreeNone, 50},
	}
	for _, tt := range tests {
		if got := educationScores[tt.level]; got != tt.want {
			t.Errorf("educationScores[%s] = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCombineWeightedSum(t *testing.T) {
	years := 4.5
	profile := types.ExtractedProfile{
		Skills:            []types.MatchedSkill{mkSkill("Python", "critical")},
		YearsOfExperience: &years,
		Education:         []types.EducationRecord{{Level: types.DegreeMaster}},
	}
	job := types.JobRequirement{
		Skills: []types.MatchedSkill{mkSkill("Python", "critical"), mkSkill("Go", "critical")},
	}

	b := Combine(balancedWeights, 70, profile, job, 3, 50)

	if b.SkillScore != 50 {
		t.Errorf("skill = %v, want 50", b.SkillScore)
	}
	if b.ExperienceScore != 100 {
		t.Errorf("experience = %v, want 100", b.ExperienceScore)
	}
	if b.EducationScore != 90 {
		t.Errorf("education = %v, want 90", b.EducationScore)
	}

	want := 0.40*70 + 0.35*50 + 0.15*100 + 0.10*90
	if math.Abs(b.FinalScore-want) > 1e-9 {
		t.Errorf("final = %v, want %v", b.FinalScore, want)
	}
}

func TestCombineEmptyResume(t *testing.T) {
	job := types.JobRequirement{
		Skills: []types.MatchedSkill{mkSkill("Python", "critical")},
	}

	b := Combine(balancedWeights, 0, types.ExtractedProfile{}, job, 3, 50)

	if b.SkillScore != 0 {
		t.Errorf("skill = %v, want 0", b.SkillScore)
	}
	if b.ExperienceScore != 50 {
		t.Errorf("experience = %v, want neutral 50", b.ExperienceScore)
	}
	if b.EducationScore != 50 {
		t.Errorf("education = %v, want 50 for no degree", b.EducationScore)
	}
	if b.FinalScore < 0 || b.FinalScore > 100 {
		t.Errorf("final = %v, out of range", b.FinalScore)
	}
}
