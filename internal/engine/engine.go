package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"resumescreen/internal/taxonomy"
	"resumescreen/internal/types"
)

// Options are the tunable knobs of the scoring engine. Zero values are
// replaced by defaults in NewEngine so a partially filled struct is safe.
type Options struct {
	FuzzyThreshold         float64
	ChunkSize              int
	FeedbackTopN           int
	NeutralExperienceScore float64
	DefaultRequiredYears   float64
	MaxConcurrentEmbeds    int64
	BatchWorkers           int
}

// Default engine option values
const (
	DefaultFuzzyThreshold         = 0.85
	DefaultChunkSize              = 200
	DefaultFeedbackTopN           = 5
	DefaultNeutralExperienceScore = 50.0
	DefaultRequiredYears          = 3.0
	DefaultBatchWorkers           = 4
)

func (o Options) withDefaults() Options {
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.FeedbackTopN <= 0 {
		o.FeedbackTopN = DefaultFeedbackTopN
	}
	if o.NeutralExperienceScore <= 0 {
		o.NeutralExperienceScore = DefaultNeutralExperienceScore
	}
	if o.DefaultRequiredYears <= 0 {
		o.DefaultRequiredYears = DefaultRequiredYears
	}
	if o.BatchWorkers <= 0 {
		o.BatchWorkers = DefaultBatchWorkers
	}
	return o
}

// Engine ties the taxonomy, the semantic scorer, the weight set and the
// options into the scoring entry points. It is safe for concurrent use.
type Engine struct {
	tax      *taxonomy.Taxonomy
	semantic *SemanticScorer
	weights  Weights
	opts     Options
}

// NewEngine builds an Engine. The embedder is required; taxonomy falls
// back to the builtin table when nil.
func NewEngine(tax *taxonomy.Taxonomy, embedder Embedder, weights Weights, opts Options) *Engine {
	if tax == nil {
		tax = taxonomy.Default()
	}
	opts = opts.withDefaults()
	return &Engine{
		tax:      tax,
		semantic: NewSemanticScorer(embedder, opts.ChunkSize, opts.MaxConcurrentEmbeds),
		weights:  weights,
		opts:     opts,
	}
}

// Taxonomy exposes the loaded skill table
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// ExtractProfile runs the full fact extraction pipeline over resume text
func (e *Engine) ExtractProfile(text string) types.ExtractedProfile {
	years := ExtractYears(text)
	return types.ExtractedProfile{
		Skills:            ExtractSkills(e.tax, text, e.opts.FuzzyThreshold),
		YearsOfExperience: years,
		Seniority:         ClassifySeniority(years),
		Education:         ExtractEducation(text),
	}
}

// ExtractRequirements derives job requirements from a job description.
// A job that states no experience requirement gets the configured default.
func (e *Engine) ExtractRequirements(text string) types.JobRequirement {
	years := ExtractYears(text)
	if years == nil {
		def := e.opts.DefaultRequiredYears
		years = &def
	}
	return types.JobRequirement{
		Skills:            ExtractSkills(e.tax, text, e.opts.FuzzyThreshold),
		YearsOfExperience: years,
		Education:         ExtractEducation(text),
	}
}

// Score evaluates one resume against one job description and produces the
// full breakdown, report and extracted facts. Embedding failure fails the
// call; everything else degrades to documented defaults.
func (e *Engine) Score(ctx context.Context, resumeText, jobText string) (*types.ScreenResumeOutput, error) {
	profile := e.ExtractProfile(resumeText)
	job := e.ExtractRequirements(jobText)

	semantic, err := e.semantic.Score(ctx, resumeText, jobText)
	if err != nil {
		return nil, err
	}

	requiredYears := *job.YearsOfExperience
	breakdown := Combine(e.weights, semantic, profile, job, requiredYears, e.opts.NeutralExperienceScore)
	report := GenerateFeedback(breakdown, profile, requiredYears, e.opts.FeedbackTopN)

	return &types.ScreenResumeOutput{
		Breakdown: breakdown,
		Report:    report,
		Profile:   profile,
		Job:       job,
	}, nil
}

// ScoreBatch evaluates many resumes against one job description
// concurrently and returns candidates ranked by final score, highest
// first, with name as the deterministic tie-break. Documents that fail
// resume validation are skipped and reported, not scored. Any scoring
// error aborts the batch.
func (e *Engine) ScoreBatch(ctx context.Context, jobText string, resumes []types.BatchResume) (*types.BatchScreenOutput, error) {
	out := &types.BatchScreenOutput{}

	var toScore []types.BatchResume
	for _, r := range resumes {
		if ok, reason := ValidateResume(r.Text); !ok {
			out.Skipped = append(out.Skipped, types.SkippedResume{Name: r.Name, Reason: reason})
			continue
		}
		toScore = append(toScore, r)
	}

	results := make([]types.CandidateResult, len(toScore))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.BatchWorkers)

	for i, r := range toScore {
		g.Go(func() error {
			scored, err := e.Score(gctx, r.Text, jobText)
			if err != nil {
				return err
			}
			results[i] = types.CandidateResult{
				Name:      r.Name,
				Contact:   ExtractContact(r.Text),
				Breakdown: scored.Breakdown,
				Report:    scored.Report,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Breakdown.FinalScore != results[b].Breakdown.FinalScore {
			return results[a].Breakdown.FinalScore > results[b].Breakdown.FinalScore
		}
		return results[a].Name < results[b].Name
	})

	out.Candidates = results
	return out, nil
}

// Extract runs extraction only, with no job description and no scoring
func (e *Engine) Extract(text string) *types.ExtractSkillsOutput {
	profile := e.ExtractProfile(text)
	return &types.ExtractSkillsOutput{
		Skills:    profile.Skills,
		Years:     profile.YearsOfExperience,
		Seniority: profile.Seniority,
		Education: profile.Education,
		Contact:   ExtractContact(text),
	}
}
