package retrieval

import (
	"fmt"
	"strings"

	"github.com/volna-cloud/kontext/internal/domain"
)

// Query parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 4096
	DefaultTopK    = 8
	MaxTopK        = 100
)

// Query is a validated retrieval request.
type Query struct {
	text  string
	langs []string
	topK  int
}

// NewQuery validates and normalizes retrieval parameters.
// langs is an optional conjunctive language filter (order preserved);
// topK defaults to DefaultTopK and is clamped to MaxTopK.
func NewQuery(text string, langs []string, topK int) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Query{text: text, langs: langs, topK: topK}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// Langs returns the allowed language codes (empty means no filter).
func (q *Query) Langs() []string { return q.langs }

// TopK returns the number of passages to select.
func (q *Query) TopK() int { return q.topK }

// WithText returns a copy of the query with different text.
// Used for the translated variant, which inherits filter and topK.
func (q *Query) WithText(text string) Query {
	return Query{text: text, langs: q.langs, topK: q.topK}
}
