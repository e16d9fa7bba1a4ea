// Package retrieval implements dense vector search with maximal marginal
// relevance re-ranking, plus fusion of independently retrieved result lists.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
	"github.com/volna-cloud/kontext/internal/logger"
)

// Retrieval tuning defaults.
const (
	// DefaultFetchLimit is the candidate pool size fetched from the index
	// before re-ranking when the config does not set one.
	DefaultFetchLimit = 20

	// DefaultLambda is the MMR relevance/diversity trade-off.
	DefaultLambda = 0.4
)

// Config carries the retrieval tuning knobs.
type Config struct {
	// FetchLimit is the candidate pool size requested from the index.
	// The effective pool is max(FetchLimit, query topK).
	FetchLimit int

	// Lambda is the MMR trade-off in [0, 1]; 1 is pure relevance.
	Lambda float64
}

// Service runs the search pipeline: embed the query, fetch a candidate pool
// from the vector index, then select a diverse top-k subset with MMR.
type Service struct {
	embedder   Embedder
	index      Index
	fetchLimit int
	lambda     float64
}

// NewService creates the search service. Zero config fields fall back to the
// package defaults.
func NewService(embedder Embedder, index Index, cfg Config) *Service {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultFetchLimit
	}
	if cfg.Lambda < 0 || cfg.Lambda > 1 {
		cfg.Lambda = DefaultLambda
	}
	return &Service{
		embedder:   embedder,
		index:      index,
		fetchLimit: cfg.FetchLimit,
		lambda:     cfg.Lambda,
	}
}

// Search retrieves the topK most relevant, mutually diverse passages for the
// query. An empty index result yields an empty slice and no error; malformed
// index records are skipped. Errors from the embedder and the index propagate
// wrapped, carrying their domain sentinels.
func (s *Service) Search(ctx context.Context, q dretr.Query) ([]dretr.Passage, error) {
	res, err := s.embedder.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	limit := s.fetchLimit
	if q.TopK() > limit {
		limit = q.TopK()
	}

	candidates, err := s.index.Query(ctx, res.Embedding, q.Langs(), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	pool := candidates[:0:0]
	for i := range candidates {
		if candidates[i].Malformed() {
			logger.FromContext(ctx).Warn("skipping malformed index record",
				zap.String("id", candidates[i].ID()))
			continue
		}
		pool = append(pool, candidates[i])
	}
	if len(pool) == 0 {
		return []dretr.Passage{}, nil
	}

	matrix := make([][]float32, len(pool))
	for i := range pool {
		matrix[i] = pool[i].Vector()
	}

	order := selectMMR(res.Embedding, matrix, q.TopK(), s.lambda)
	passages := make([]dretr.Passage, 0, len(order))
	for _, i := range order {
		passages = append(passages, dretr.PassageFromCandidate(&pool[i]))
	}
	return passages, nil
}
