package answer

import (
	"context"

	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

// Retriever runs one dense search for one query variant.
type Retriever interface {
	Search(ctx context.Context, q dretr.Query) ([]dretr.Passage, error)
}

// Translator renders a query in another language for cross-lingual recall.
// Translation is best-effort; the pipeline falls back to the original query
// when it fails.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Generator produces a grounded completion from a system+user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
