package passage

import (
	"context"
	"errors"
	"testing"

	"github.com/volna-cloud/kontext/internal/db"
	"github.com/volna-cloud/kontext/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	getFn         func(ctx context.Context, key string) ([]byte, error)
	setFn         func(ctx context.Context, key string, value []byte) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func TestStorePassages(t *testing.T) {
	ms := &mockStore{}
	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	repo := New(ms)
	err := repo.StorePassages(context.Background(), []domain.PassageRecord{
		{ID: "faq.md:0", Text: "hello", Source: "faq.md", Lang: "en", Vector: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Key != "kontext:passage:faq.md:0" {
		t.Errorf("key = %q", got[0].Key)
	}
	f := got[0].Fields
	if f["__text"] != "hello" || f["__source"] != "faq.md" || f["__lang"] != "en" {
		t.Errorf("unexpected fields: %v", f)
	}
	if len(f["__vector"]) != 8 {
		t.Errorf("vector field should be 8 bytes, got %d", len(f["__vector"]))
	}
}

func TestStorePassagesEmpty(t *testing.T) {
	ms := &mockStore{hsetMultiFn: func(context.Context, []db.HashSetItem) error {
		t.Fatal("store should not be called for empty input")
		return nil
	}}
	if err := New(ms).StorePassages(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndexCreates(t *testing.T) {
	ms := &mockStore{}
	var created *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	if err := New(ms).EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected CreateIndex call")
	}
	if created.Name != "kontext:passages:idx" {
		t.Errorf("index name = %q", created.Name)
	}
	var vec *db.IndexField
	for i := range created.Fields {
		if created.Fields[i].Type == db.IndexFieldVector {
			vec = &created.Fields[i]
		}
	}
	if vec == nil {
		t.Fatal("expected a vector field")
	}
	if vec.VectorDim != 1536 || vec.VectorDistance != db.DistanceCosine || vec.Alias != "vector" {
		t.Errorf("unexpected vector field: %+v", vec)
	}
}

func TestEnsureIndexSkipsExisting(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(context.Context, string) (bool, error) { return true, nil },
		createIndexFn: func(context.Context, *db.IndexDefinition) error {
			t.Fatal("CreateIndex should not be called")
			return nil
		},
	}
	if err := New(ms).EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndexToleratesCreationRace(t *testing.T) {
	ms := &mockStore{
		createIndexFn: func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists },
	}
	if err := New(ms).EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("expected nil on ErrIndexExists, got %v", err)
	}
}

func TestContentHashRoundTrip(t *testing.T) {
	stored := map[string][]byte{}
	ms := &mockStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := stored[key]; ok {
				return v, nil
			}
			return nil, db.ErrKeyNotFound
		},
		setFn: func(_ context.Context, key string, value []byte) error {
			stored[key] = value
			return nil
		},
	}
	repo := New(ms)
	ctx := context.Background()

	h, err := repo.ContentHash(ctx, "faq.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != "" {
		t.Errorf("expected empty hash for unknown source, got %q", h)
	}

	if err := repo.SetContentHash(ctx, "faq.md", "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err = repo.ContentHash(ctx, "faq.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != "abc123" {
		t.Errorf("hash = %q, want abc123", h)
	}
	if _, ok := stored["kontext:doc_hash:faq.md"]; !ok {
		t.Errorf("unexpected key layout: %v", stored)
	}
}

func TestContentHashStoreError(t *testing.T) {
	ms := &mockStore{
		getFn: func(context.Context, string) ([]byte, error) {
			return nil, &db.Error{Op: db.OpGet, Err: errors.New("boom")}
		},
	}
	if _, err := New(ms).ContentHash(context.Background(), "faq.md"); err == nil {
		t.Fatal("expected error")
	}
}
