// Package index adapts the FT vector index into the retrieval use case's
// candidate source.
package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/volna-cloud/kontext/internal/db"
	"github.com/volna-cloud/kontext/internal/domain"
	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

// store is the consumer interface for KNN search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/retrieval.Index over the passage FT index.
type Repo struct {
	store     store
	indexName string
}

// New creates an index repository over the default passage index.
func New(s store) *Repo {
	return &Repo{store: s, indexName: domain.PassageIndexName}
}

// Query fetches up to limit nearest candidates for the vector, optionally
// pre-filtered by language. Failures map to domain.ErrIndexUnavailable.
func (r *Repo) Query(ctx context.Context, vector []float32, langs []string, limit int) ([]dretr.Candidate, error) {
	q := &db.KNNQuery{
		IndexName: r.indexName,
		Vector:    vector,
		K:         limit,
		ReturnFields: []string{
			domain.FieldText,
			domain.FieldSource,
			domain.FieldLang,
			domain.FieldVector,
			"__vector_score",
		},
	}
	if len(langs) > 0 {
		q.TagFilters = map[string][]string{"lang": langs}
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: knn search %s: %v", domain.ErrIndexUnavailable, r.indexName, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	candidates := make([]dretr.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		candidates = append(candidates, parseEntry(entry))
	}
	return candidates, nil
}

// parseEntry converts flat hash fields into a candidate. Known fields feed
// the payload; anything else is carried as a tag.
func parseEntry(entry db.SearchEntry) dretr.Candidate {
	id := strings.TrimPrefix(entry.Key, domain.PassageKeyPrefix)

	var text, source, lang string
	var vector []float32
	var tags map[string]string

	for k, v := range entry.Fields {
		switch k {
		case domain.FieldText:
			text = v
		case domain.FieldSource:
			source = v
		case domain.FieldLang:
			lang = v
		case domain.FieldVector:
			vector = bytesToVector(v)
		default:
			if tags == nil {
				tags = make(map[string]string)
			}
			tags[k] = v
		}
	}

	payload := dretr.NewPayload(text, source, lang, tags)
	return dretr.NewCandidate(id, entry.Score, vector, payload)
}

// bytesToVector deserializes a little-endian float32 binary string.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
