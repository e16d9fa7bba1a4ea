package retrieval

import (
	"context"

	"github.com/volna-cloud/kontext/internal/domain"
	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

// Index is the vector index contract for candidate fetching.
// langs is an optional conjunctive language pre-filter; limit caps the pool size.
// Implementations fail with domain.ErrIndexUnavailable on transport or backend error.
type Index interface {
	Query(ctx context.Context, vector []float32, langs []string, limit int) ([]dretr.Candidate, error)
}

// Embedder vectorizes query text into a unit-norm vector.
// Implementations fail with domain.ErrEmbeddingFailure on transport or model error.
type Embedder = domain.Embedder
