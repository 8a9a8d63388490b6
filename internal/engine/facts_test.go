package engine

import (
	"testing"
	"time"

	"resumescreen/internal/types"
)

func TestExtractYearsExplicit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plain statement", "I have 5 years of experience in backend development", 5},
		{"decimal", "2.5 years of professional experience", 2.5},
		{"plus suffix", "7+ years of experience with distributed systems", 7},
		{"over phrasing", "over 10 years building data platforms", 10},
		{"max of matches", "3 years of experience in Go and 6 years of experience in Java", 6},
		{"in role phrasing", "4 years as a site reliability engineer", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYears(tt.text)
			if got == nil {
				t.Fatal("expected a value, got nil")
			}
			if *got != tt.want {
				t.Errorf("years = %v, want %v", *got, tt.want)
			}
		})
	}
}

func TestExtractYearsExplicitBeatsDateRanges(t *testing.T) {
	text := "3 years of experience. Acme Corp 2010-2020."
	got := ExtractYears(text)
	if got == nil || *got != 3 {
		t.Fatalf("years = %v, want explicit statement to win with 3", got)
	}
}

func TestExtractYearsFromDateRanges(t *testing.T) {
	nowYear := time.Now().Year()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"single range", "Software Engineer, Acme 2018-2022", 4},
		{"sum of distinct ranges", "Acme 2015-2018. Globex 2019 to 2023.", 7},
		{"duplicate range counted once", "Acme 2015-2018 and again 2015-2018", 3},
		{"present resolves to now", "Initech 2020 - present", float64(nowYear - 2020)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYears(tt.text)
			if got == nil {
				t.Fatal("expected a value, got nil")
			}
			if *got != tt.want {
				t.Errorf("years = %v, want %v", *got, tt.want)
			}
		})
	}
}

func TestExtractYearsRejectsImplausible(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no signal", "Passionate engineer who loves clean code"},
		{"absurd count", "99 years of experience"},
		{"prehistoric range", "1875-1880 served as a blacksmith"},
		{"reversed range", "2022-2019 something odd"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYears(tt.text); got != nil {
				t.Errorf("years = %v, want nil", *got)
			}
		})
	}
}

func TestClassifySeniority(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		years *float64
		want  types.SeniorityTier
	}{
		{nil, ""},
		{f(0), types.SeniorityEntry},
		{f(0.9), types.SeniorityEntry},
		{f(1), types.SeniorityJunior},
		{f(2.9), types.SeniorityJunior},
		{f(3), types.SeniorityMid},
		{f(4.9), types.SeniorityMid},
		{f(5), types.SenioritySenior},
		{f(7.9), types.SenioritySenior},
		{f(8), types.SeniorityLead},
		{f(20), types.SeniorityLead},
	}
	for _, tt := range tests {
		if got := ClassifySeniority(tt.years); got != tt.want {
			t.Errorf("ClassifySeniority(%v) = %s, want %s", tt.years, got, tt.want)
		}
	}
}

func TestExtractEducation(t *testing.T) {
	text := `John Smith
Bachelor of Science in Computer Science, State University, 2015
Master's in Data Science, Tech Institute, 2018`

	records := ExtractEducation(text)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// ordered by first occurrence
	if records[0].Level != types.DegreeBachelor {
		t.Errorf("first record level = %s, want bachelor", records[0].Level)
	}
	if records[0].Specialization != "computer science" {
		t.Errorf("bachelor specialization = %q, want %q", records[0].Specialization, "computer science")
	}
	if records[0].GraduationYear != 2015 {
		t.Errorf("bachelor year = %d, want 2015", records[0].GraduationYear)
	}
	if records[1].Level != types.DegreeMaster {
		t.Errorf("second record level = %s, want master", records[1].Level)
	}
}

func TestExtractEducationRepeatedLevel(t *testing.T) {
	text := `B.Sc in Physics, Northern University, 2012
B.Tech in Computer Engineering, City College, 2016`

	records := ExtractEducation(text)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, r := range records {
		if r.Level != types.DegreeBachelor {
			t.Errorf("record %d level = %s, want bachelor", i, r.Level)
		}
	}
	if records[0].Specialization != "physics" || records[0].GraduationYear != 2012 {
		t.Errorf("first record = %q/%d, want physics/2012",
			records[0].Specialization, records[0].GraduationYear)
	}
	if records[1].Specialization != "computer engineering" || records[1].GraduationYear != 2016 {
		t.Errorf("second record = %q/%d, want computer engineering/2016",
			records[1].Specialization, records[1].GraduationYear)
	}
}

func TestExtractEducationPhD(t *testing.T) {
	records := ExtractEducation("Ph.D. in Machine Learning, 2021")
	if len(records) == 0 {
		t.Fatal("expected a doctorate record")
	}
	if records[0].Level != types.DegreeDoctorate {
		t.Errorf("level = %s, want doctorate", records[0].Level)
	}
}

func TestExtractEducationNone(t *testing.T) {
	if records := ExtractEducation("Self-taught engineer, ten years shipping software"); len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestHighestDegree(t *testing.T) {
	records := []types.EducationRecord{
		{Level: types.DegreeBachelor},
		{Level: types.DegreeDoctorate},
		{Level: types.DegreeDiploma},
	}
	if got := HighestDegree(records); got != types.DegreeDoctorate {
		t.Errorf("HighestDegree = %s, want doctorate", got)
	}
	if got := HighestDegree(nil); got != types.DegreeNone {
		t.Errorf("HighestDegree(nil) = %s, want none", got)
	}
}
