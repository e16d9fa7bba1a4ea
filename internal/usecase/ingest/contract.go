package ingest

import (
	"context"

	"github.com/volna-cloud/kontext/internal/domain"
)

// Repository persists embedded passages and tracks ingested content.
type Repository interface {
	EnsureIndex(ctx context.Context, dim int) error
	StorePassages(ctx context.Context, records []domain.PassageRecord) error
	ContentHash(ctx context.Context, source string) (string, error)
	SetContentHash(ctx context.Context, source, hash string) error
}

// Embedder vectorizes chunk batches.
type Embedder = domain.BatchEmbedder
