package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/volna-cloud/kontext/internal/domain"
	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

type stubEmbedder struct {
	vector  []float32
	err     error
	gotText string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.gotText = text
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: s.vector}, nil
}

type stubIndex struct {
	candidates []dretr.Candidate
	err        error
	gotVector  []float32
	gotLangs   []string
	gotLimit   int
}

func (s *stubIndex) Query(_ context.Context, vector []float32, langs []string, limit int) ([]dretr.Candidate, error) {
	s.gotVector = vector
	s.gotLangs = langs
	s.gotLimit = limit
	return s.candidates, s.err
}

func mustQuery(t *testing.T, text string, langs []string, topK int) dretr.Query {
	t.Helper()
	q, err := dretr.NewQuery(text, langs, topK)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	return q
}

func TestSearchHappyPath(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	index := &stubIndex{candidates: []dretr.Candidate{
		dretr.NewCandidate("a", 0.95, []float32{1, 0}, dretr.NewPayload("alpha", "doc1", "en", nil)),
		dretr.NewCandidate("b", 0.90, []float32{0.9, 0.1}, dretr.NewPayload("beta", "doc2", "en", nil)),
		dretr.NewCandidate("c", 0.10, []float32{-1, 0}, dretr.NewPayload("gamma", "doc3", "en", nil)),
	}}
	svc := NewService(embedder, index, Config{FetchLimit: 10, Lambda: 0.4})

	got, err := svc.Search(context.Background(), mustQuery(t, "what is alpha", []string{"en"}, 2))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if embedder.gotText != "what is alpha" {
		t.Errorf("embedder received %q", embedder.gotText)
	}
	if index.gotLimit != 10 {
		t.Errorf("index limit = %d, want fetch limit 10", index.gotLimit)
	}
	if len(index.gotLangs) != 1 || index.gotLangs[0] != "en" {
		t.Errorf("index langs = %v, want [en]", index.gotLangs)
	}
	// Diversity pick: the near-duplicate of the first result loses to the
	// dissimilar third candidate.
	if len(got) != 2 || got[0].ID() != "a" || got[1].ID() != "c" {
		t.Fatalf("got %v, want [a c]", ids(got))
	}
	if got[0].Payload().Text() != "alpha" {
		t.Errorf("payload not carried through, got %q", got[0].Payload().Text())
	}
	if got[0].Score() != 0.95 {
		t.Errorf("index score not carried through, got %v", got[0].Score())
	}
}

func TestSearchPoolGrowsWithTopK(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	index := &stubIndex{}
	svc := NewService(embedder, index, Config{FetchLimit: 10, Lambda: 0.4})

	if _, err := svc.Search(context.Background(), mustQuery(t, "q", nil, 50)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if index.gotLimit != 50 {
		t.Errorf("index limit = %d, want topK 50", index.gotLimit)
	}
}

func TestSearchEmptyIndexIsNotAnError(t *testing.T) {
	svc := NewService(&stubEmbedder{vector: []float32{1, 0}}, &stubIndex{}, Config{})
	got, err := svc.Search(context.Background(), mustQuery(t, "q", nil, 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
}

func TestSearchSkipsMalformedCandidates(t *testing.T) {
	index := &stubIndex{candidates: []dretr.Candidate{
		dretr.NewCandidate("", 0.99, []float32{1, 0}, dretr.Payload{}),
		dretr.NewCandidate("novec", 0.98, nil, dretr.Payload{}),
		dretr.NewCandidate("ok", 0.5, []float32{1, 0}, dretr.Payload{}),
	}}
	svc := NewService(&stubEmbedder{vector: []float32{1, 0}}, index, Config{})

	got, err := svc.Search(context.Background(), mustQuery(t, "q", nil, 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "ok" {
		t.Errorf("expected only the well-formed candidate, got %v", ids(got))
	}
}

func TestSearchEmbedderErrorPropagates(t *testing.T) {
	embedErr := fmt.Errorf("provider down: %w", domain.ErrEmbeddingFailure)
	svc := NewService(&stubEmbedder{err: embedErr}, &stubIndex{}, Config{})

	_, err := svc.Search(context.Background(), mustQuery(t, "q", nil, 5))
	if !errors.Is(err, domain.ErrEmbeddingFailure) {
		t.Errorf("expected ErrEmbeddingFailure, got %v", err)
	}
}

func TestSearchIndexErrorPropagates(t *testing.T) {
	indexErr := fmt.Errorf("connection refused: %w", domain.ErrIndexUnavailable)
	svc := NewService(&stubEmbedder{vector: []float32{1, 0}}, &stubIndex{err: indexErr}, Config{})

	_, err := svc.Search(context.Background(), mustQuery(t, "q", nil, 5))
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}
