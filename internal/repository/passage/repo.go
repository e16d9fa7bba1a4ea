// Package passage persists embedded passages as Redis hashes and manages
// the FT index over them.
package passage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/volna-cloud/kontext/internal/db"
	"github.com/volna-cloud/kontext/internal/domain"
)

// store is the consumer interface for passage storage (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store store
}

// New creates a passage repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// StorePassages writes the records as hashes in one pipelined round-trip.
func (r *Repo) StorePassages(ctx context.Context, records []domain.PassageRecord) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		items[i] = db.HashSetItem{
			Key: domain.PassageKeyPrefix + rec.ID,
			Fields: map[string]string{
				domain.FieldText:   rec.Text,
				domain.FieldSource: rec.Source,
				domain.FieldLang:   rec.Lang,
				domain.FieldVector: vectorToBytes(rec.Vector),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store passages: %w", err)
	}
	return nil
}

// EnsureIndex creates the passage FT index if it does not exist yet.
// Safe to call on every startup and before every ingest run.
func (r *Repo) EnsureIndex(ctx context.Context, dim int) error {
	exists, err := r.store.IndexExists(ctx, domain.PassageIndexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(domain.PassageIndexName).
		Prefix(domain.PassageKeyPrefix).
		Text(domain.FieldText).
		Tag(domain.FieldLang).
		VectorHNSW(domain.FieldVector, dim, db.DistanceCosine, 16, 200).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	aliasFields(def)

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost the creation race to a concurrent ingester.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// aliasFields exposes the dunder-prefixed hash fields under their query
// names (@text, @lang, @vector).
func aliasFields(def *db.IndexDefinition) {
	for i := range def.Fields {
		switch def.Fields[i].Name {
		case domain.FieldText:
			def.Fields[i].Alias = "text"
		case domain.FieldLang:
			def.Fields[i].Alias = "lang"
		case domain.FieldVector:
			def.Fields[i].Alias = "vector"
		}
	}
}

// ContentHash returns the stored content hash for a source, or "" if the
// source was never ingested.
func (r *Repo) ContentHash(ctx context.Context, source string) (string, error) {
	data, err := r.store.Get(ctx, domain.DocHashKeyPrefix+source)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get content hash: %w", err)
	}
	return string(data), nil
}

// SetContentHash records the content hash of an ingested source.
func (r *Repo) SetContentHash(ctx context.Context, source, hash string) error {
	if err := r.store.Set(ctx, domain.DocHashKeyPrefix+source, []byte(hash)); err != nil {
		return fmt.Errorf("set content hash: %w", err)
	}
	return nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
