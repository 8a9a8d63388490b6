package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
)

// fakeEmbedder returns a deterministic bag-of-words vector so cosine
// similarity reflects word overlap.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return nil, fmt.Errorf("embedding backend unavailable")
	}

	vec := make([]float32, 64)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range w {
			h = h*31 + int(r)
		}
		vec[((h%64)+64)%64]++
	}
	return vec, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite clamped", []float32{1, 0}, []float32{-1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkWords(t *testing.T) {
	text := "one two three four five"

	chunks := chunkWords(text, 2)
	want := []string{"one two", "three four", "five"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}

	if got := chunkWords("", 2); got != nil {
		t.Errorf("empty text produced chunks: %v", got)
	}
	if got := chunkWords(text, 0); got != nil {
		t.Errorf("zero chunk size produced chunks: %v", got)
	}
}

func TestSemanticScoreIdenticalText(t *testing.T) {
	s := NewSemanticScorer(&fakeEmbedder{}, 200, 0)

	text := "experienced python developer building django services on aws"
	score, err := s.Score(context.Background(), text, text)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	// full-doc and chunk signals are perfect; keyword overlap is perfect
	// too since both sides share all keywords
	if score < 99.9 {
		t.Errorf("identical texts scored %v, want ~100", score)
	}
}

func TestSemanticScoreDisjointText(t *testing.T) {
	s := NewSemanticScorer(&fakeEmbedder{}, 200, 0)

	score, err := s.Score(context.Background(),
		"sculptor specializing in marble statues",
		"Python engineer with Kubernetes expertise")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score > 40 {
		t.Errorf("disjoint texts scored %v, want low", score)
	}
}

func TestSemanticScoreEmbeddingFailureIsFatal(t *testing.T) {
	s := NewSemanticScorer(&fakeEmbedder{fail: true}, 200, 0)

	if _, err := s.Score(context.Background(), "resume text", "job text"); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestSemanticScoreCachesIdenticalTexts(t *testing.T) {
	fe := &fakeEmbedder{}
	s := NewSemanticScorer(fe, 200, 0)

	text := "short document"
	if _, err := s.Score(context.Background(), text, text); err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	// both sides and both chunk passes resolve to one unique text
	if fe.calls != 1 {
		t.Errorf("embedder called %d times, want 1", fe.calls)
	}
}

func TestChunkScoreAveragesOverJobChunks(t *testing.T) {
	s := NewSemanticScorer(&fakeEmbedder{}, 1, 0)

	// One resume chunk covering half the job: each job chunk contributes
	// its own best match, so "alpha" earns 1 and "zulu" earns 0.
	got, err := s.chunkScore(context.Background(), map[string][]float32{}, "alpha", "alpha zulu")
	if err != nil {
		t.Fatalf("chunkScore failed: %v", err)
	}
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("half-covered job scored %v, want 50", got)
	}

	// The reverse is full coverage: the single job chunk finds a perfect
	// resume match, and the unmatched resume chunk costs nothing.
	got, err = s.chunkScore(context.Background(), map[string][]float32{}, "alpha zulu", "alpha")
	if err != nil {
		t.Fatalf("chunkScore failed: %v", err)
	}
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("fully covered job scored %v, want 100", got)
	}
}

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name        string
		resume, job string
		min, max    float64
	}{
		{"full overlap", "Python and Docker expert", "Python Docker", 1, 1},
		{"no overlap", "marble statues", "Python Docker", 0, 0},
		{"partial", "Python developer", "Python Docker", 0.4, 0.6},
		{"no job keywords", "Python developer", "just lowercase words here", 0, 0},
		{"lowercase tech terms", "deployed kubernetes daily", "kubernetes required", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordOverlap(tt.resume, tt.job)
			if got < tt.min-1e-9 || got > tt.max+1e-9 {
				t.Errorf("keywordOverlap = %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-5, 0}, {0, 0}, {50, 50}, {100, 100}, {130, 100},
	}
	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.want {
			t.Errorf("clampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
