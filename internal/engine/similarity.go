package engine

import (
	"context"
	"math"
	"regexp"
	"strings"

	"golang.org/x/sync/semaphore"

	"resumescreen/internal/errors"
)

// Embedder produces a dense vector for a piece of text. Implementations
// live in internal/ai; engine tests use a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Semantic sub-score weights. The three signals always sum to 1.
const (
	fullDocWeight = 0.60
	chunkWeight   = 0.25
	keywordWeight = 0.15
)

// SemanticScorer combines document-level embedding similarity, chunk-level
// best-match similarity, and keyword overlap into one [0,100] score.
type SemanticScorer struct {
	embedder  Embedder
	chunkSize int
	sem       *semaphore.Weighted
}

// NewSemanticScorer builds a scorer around an embedder. chunkSize is the
// word count per chunk; maxConcurrent bounds in-flight embedding calls when
// positive.
func NewSemanticScorer(embedder Embedder, chunkSize int, maxConcurrent int64) *SemanticScorer {
	s := &SemanticScorer{embedder: embedder, chunkSize: chunkSize}
	if maxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(maxConcurrent)
	}
	return s
}

// Score computes the semantic similarity between a resume and a job
// description. Embedding failure fails the whole call: a partial semantic
// signal would silently skew the final score.
func (s *SemanticScorer) Score(ctx context.Context, resume, job string) (float64, error) {
	cache := map[string][]float32{}

	fullResume, err := s.embed(ctx, cache, resume)
	if err != nil {
		return 0, err
	}
	fullJob, err := s.embed(ctx, cache, job)
	if err != nil {
		return 0, err
	}
	fullScore := clampScore(cosine(fullResume, fullJob) * 100)

	chunkScore, err := s.chunkScore(ctx, cache, resume, job)
	if err != nil {
		return 0, err
	}

	keywordScore := clampScore(keywordOverlap(resume, job) * 100)

	return clampScore(fullDocWeight*fullScore + chunkWeight*chunkScore + keywordWeight*keywordScore), nil
}

// chunkScore averages, over the job chunks, each job chunk's best cosine
// against the resume chunks. Averaging on the job side makes this a coverage
// signal: a resume matching one section of a long job description earns only
// that section's share. Texts shorter than one chunk degrade to the
// full-document comparison, which the cache makes free.
func (s *SemanticScorer) chunkScore(ctx context.Context, cache map[string][]float32, resume, job string) (float64, error) {
	resumeChunks := chunkWords(resume, s.chunkSize)
	jobChunks := chunkWords(job, s.chunkSize)
	if len(resumeChunks) == 0 || len(jobChunks) == 0 {
		return 0, nil
	}

	resumeVecs := make([][]float32, len(resumeChunks))
	for i, c := range resumeChunks {
		v, err := s.embed(ctx, cache, c)
		if err != nil {
			return 0, err
		}
		resumeVecs[i] = v
	}

	total := 0.0
	for _, c := range jobChunks {
		jv, err := s.embed(ctx, cache, c)
		if err != nil {
			return 0, err
		}
		best := 0.0
		for _, rv := range resumeVecs {
			if sim := cosine(rv, jv); sim > best {
				best = sim
			}
		}
		total += best
	}

	return clampScore(total / float64(len(jobChunks)) * 100), nil
}

// embed resolves a text to its vector, deduplicating identical texts within
// one scoring call.
func (s *SemanticScorer) embed(ctx context.Context, cache map[string][]float32, text string) ([]float32, error) {
	if v, ok := cache[text]; ok {
		return v, nil
	}

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingTimeout, "embedding slot wait cancelled", err)
		}
		defer s.sem.Release(1)
	}

	v, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	cache[text] = v
	return v, nil
}

// chunkWords splits text into non-overlapping windows of size words
func chunkWords(text string, size int) []string {
	if size <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// cosine computes cosine similarity between two vectors, clamped to [0,1].
// Mismatched or zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Technical keyword shapes: capitalized words, acronyms, and names like
// C++ or Node.js that plain word patterns miss.
var keywordPattern = regexp.MustCompile(`\b[A-Z][a-z]+\b|\b[A-Z]{2,}\b|[a-zA-Z]+\+\+|[a-zA-Z]+\.js\b`)

// lowercaseTechTerms are keywords that resumes routinely write lowercase,
// so the capitalization heuristic alone would miss them.
var lowercaseTechTerms = []string{
	"python", "java", "javascript", "typescript", "golang", "docker",
	"kubernetes", "terraform", "microservices", "postgresql", "mysql",
	"mongodb", "redis", "kafka", "graphql", "grpc", "linux", "aws",
}

// keywordOverlap returns the fraction of the job's technical keywords that
// also appear in the resume. No job keywords means no signal, scored 0.
func keywordOverlap(resume, job string) float64 {
	jobKW := extractKeywords(job)
	if len(jobKW) == 0 {
		return 0
	}
	resumeKW := extractKeywords(resume)

	hits := 0
	for kw := range jobKW {
		if resumeKW[kw] {
			hits++
		}
	}
	return float64(hits) / float64(len(jobKW))
}

func extractKeywords(text string) map[string]bool {
	kw := make(map[string]bool)
	for _, m := range keywordPattern.FindAllString(text, -1) {
		kw[strings.ToLower(m)] = true
	}
	lower := strings.ToLower(text)
	for _, term := range lowercaseTechTerms {
		if strings.Contains(lower, term) {
			kw[term] = true
		}
	}
	return kw
}

// clampScore bounds a score to [0,100]
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
