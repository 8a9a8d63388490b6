package types

// MatchKind describes how a skill was matched against the taxonomy
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchAlias MatchKind = "alias"
	MatchFuzzy MatchKind = "fuzzy"
)

// SeniorityTier is an ordinal classification derived from years of experience
type SeniorityTier string

const (
	SeniorityEntry  SeniorityTier = "entry"
	SeniorityJunior SeniorityTier = "junior"
	SeniorityMid    SeniorityTier = "mid"
	SenioritySenior SeniorityTier = "senior"
	SeniorityLead   SeniorityTier = "lead"
)

// DegreeLevel is an ordered education level
type DegreeLevel string

const (
	DegreeNone        DegreeLevel = "none"
	DegreeCertificate DegreeLevel = "certificate"
	DegreeDiploma     DegreeLevel = "diploma"
	DegreeBachelor    DegreeLevel = "bachelor"
	DegreeMaster      DegreeLevel = "master"
	DegreeDoctorate   DegreeLevel = "doctorate"
)

// degreeRanks orders degree levels for highest-degree selection
var degreeRanks = map[DegreeLevel]int{
	DegreeNone:        0,
	DegreeCertificate: 1,
	DegreeDiploma:     2,
	DegreeBachelor:    3,
	DegreeMaster:      4,
	DegreeDoctorate:   5,
}

// Rank returns the ordinal position of the degree level
func (d DegreeLevel) Rank() int {
	return degreeRanks[d]
}

// MatchedSkill is a taxonomy skill found in a piece of text
type MatchedSkill struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	MatchedSpan string    `json:"matchedSpan"`
	Kind        MatchKind `json:"kind"`
	Confidence  float64   `json:"confidence"`
}

// EducationRecord is a degree mention extracted from text
type EducationRecord struct {
	Level          DegreeLevel `json:"level"`
	Specialization string      `json:"specialization,omitempty"`
	GraduationYear int         `json:"graduationYear,omitempty"`
}

// ExtractedProfile holds the structured facts derived from a resume.
// YearsOfExperience is nil when no experience signal was found, which is
// distinct from an explicit zero.
type ExtractedProfile struct {
	Skills            []MatchedSkill    `json:"skills"`
	YearsOfExperience *float64          `json:"yearsOfExperience,omitempty"`
	Seniority         SeniorityTier     `json:"seniority,omitempty"`
	Education         []EducationRecord `json:"education"`
}

// JobRequirement holds the same shape as ExtractedProfile but interpreted
// as minimums derived from a job description.
type JobRequirement struct {
	Skills            []MatchedSkill    `json:"skills"`
	YearsOfExperience *float64          `json:"yearsOfExperience,omitempty"`
	Education         []EducationRecord `json:"education"`
}

// MissingSkills groups unmatched required skills by their priority tier
type MissingSkills struct {
	Critical []string `json:"critical"`
	High     []string `json:"high"`
	Medium   []string `json:"medium"`
	Standard []string `json:"standard"`
}

// Total returns the number of missing skills across all tiers
func (m MissingSkills) Total() int {
	return len(m.Critical) + len(m.High) + len(m.Medium) + len(m.Standard)
}

// All returns the missing skills flattened in tier order, critical first
func (m MissingSkills) All() []string {
	out := make([]string, 0, m.Total())
	out = append(out, m.Critical...)
	out = append(out, m.High...)
	out = append(out, m.Medium...)
	out = append(out, m.Standard...)
	return out
}

// ScoreBreakdown is the immutable result of combining the four signals.
// All score fields are in [0,100].
type ScoreBreakdown struct {
	SemanticScore   float64       `json:"semanticScore"`
	SkillScore      float64       `json:"skillScore"`
	ExperienceScore float64       `json:"experienceScore"`
	EducationScore  float64       `json:"educationScore"`
	FinalScore      float64       `json:"finalScore"`
	MatchedSkills   []string      `json:"matchedSkills"`
	MissingSkills   MissingSkills `json:"missingSkills"`
}

// AssessmentTier classifies a final score into a human-readable band
type AssessmentTier string

const (
	AssessmentExcellent AssessmentTier = "excellent"
	AssessmentGood      AssessmentTier = "good"
	AssessmentModerate  AssessmentTier = "moderate"
	AssessmentWeak      AssessmentTier = "weak"
	AssessmentPoor      AssessmentTier = "poor"
)

// FeedbackReport is the actionable report derived from a ScoreBreakdown
type FeedbackReport struct {
	Assessment  AssessmentTier `json:"assessment"`
	Strengths   []string       `json:"strengths"`
	Gaps        []string       `json:"gaps"`
	Suggestions []string       `json:"suggestions"`
}

// ContactInfo holds candidate identity extracted from a resume
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ScreenResumeInput represents the input for scoring a single resume
type ScreenResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// ScreenResumeOutput represents the output from scoring a single resume
type ScreenResumeOutput struct {
	Breakdown ScoreBreakdown   `json:"breakdown"`
	Report    FeedbackReport   `json:"report"`
	Profile   ExtractedProfile `json:"profile"`
	Job       JobRequirement   `json:"job"`
}

// BatchResume is one named resume in a batch scoring request
type BatchResume struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// CandidateResult is one ranked entry in a batch scoring response
type CandidateResult struct {
	Name      string         `json:"name"`
	Contact   ContactInfo    `json:"contact"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Report    FeedbackReport `json:"report"`
}

// SkippedResume records a batch entry rejected before scoring
type SkippedResume struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchScreenOutput represents the ranked output of a batch scoring run
type BatchScreenOutput struct {
	Candidates []CandidateResult `json:"candidates"`
	Skipped    []SkippedResume   `json:"skipped,omitempty"`
}

// ExtractSkillsOutput represents the output of a standalone extraction call
type ExtractSkillsOutput struct {
	Skills    []MatchedSkill    `json:"skills"`
	Years     *float64          `json:"yearsOfExperience,omitempty"`
	Seniority SeniorityTier     `json:"seniority,omitempty"`
	Education []EducationRecord `json:"education"`
	Contact   ContactInfo       `json:"contact"`
}
