// Package ingest turns documents into embedded, indexed passages: chunk by
// overlapping word windows, batch-embed, store as hashes behind the FT index.
// Re-ingesting an unchanged document is a no-op via content hashing.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/volna-cloud/kontext/internal/domain"
	"github.com/volna-cloud/kontext/internal/logger"
)

// Document is one unit of ingestable content.
type Document struct {
	Source string // origin identifier (file path or URL), also the dedup key
	Lang   string // language code stored on every chunk
	Text   string
}

// Config carries the ingestion knobs.
type Config struct {
	ChunkWords   int
	OverlapWords int
	Dimensions   int // embedding dimension, used for index creation
}

// Report summarizes one ingest run.
type Report struct {
	Documents int // documents processed
	Skipped   int // documents unchanged since last run
	Passages  int // passages written
	Tokens    int // embedding tokens consumed
}

// Service runs the ingestion pipeline.
type Service struct {
	repo     Repository
	embedder Embedder
	chunk    int
	overlap  int
	dim      int
}

// NewService creates the ingest service.
func NewService(repo Repository, embedder Embedder, cfg Config) *Service {
	if cfg.ChunkWords <= 0 {
		cfg.ChunkWords = DefaultChunkWords
	}
	if cfg.OverlapWords < 0 || cfg.OverlapWords >= cfg.ChunkWords {
		cfg.OverlapWords = DefaultOverlapWords
	}
	return &Service{
		repo:     repo,
		embedder: embedder,
		chunk:    cfg.ChunkWords,
		overlap:  cfg.OverlapWords,
		dim:      cfg.Dimensions,
	}
}

// Ingest processes the documents in order. Unchanged documents (same content
// hash as the last run) are skipped. The index is created on first use.
func (s *Service) Ingest(ctx context.Context, docs []Document) (Report, error) {
	var report Report

	if err := s.repo.EnsureIndex(ctx, s.dim); err != nil {
		return report, fmt.Errorf("ensure index: %w", err)
	}

	for _, doc := range docs {
		text := strings.TrimSpace(doc.Text)
		if doc.Source == "" || text == "" {
			report.Skipped++
			continue
		}

		hash := contentHash(text)
		stored, err := s.repo.ContentHash(ctx, doc.Source)
		if err != nil {
			return report, fmt.Errorf("check content hash %s: %w", doc.Source, err)
		}
		if stored == hash {
			report.Skipped++
			continue
		}

		n, tokens, err := s.ingestOne(ctx, doc, text)
		if err != nil {
			return report, err
		}

		if err := s.repo.SetContentHash(ctx, doc.Source, hash); err != nil {
			return report, fmt.Errorf("record content hash %s: %w", doc.Source, err)
		}

		report.Documents++
		report.Passages += n
		report.Tokens += tokens

		logger.FromContext(ctx).Info("document ingested",
			zap.String("source", doc.Source),
			zap.Int("passages", n))
	}

	return report, nil
}

func (s *Service) ingestOne(ctx context.Context, doc Document, text string) (int, int, error) {
	chunks := chunkWords(text, s.chunk, s.overlap)
	if len(chunks) == 0 {
		return 0, 0, nil
	}

	br, err := s.embedder.BatchEmbed(ctx, chunks)
	if err != nil {
		return 0, 0, fmt.Errorf("embed chunks %s: %w", doc.Source, err)
	}
	if len(br.Embeddings) != len(chunks) {
		return 0, 0, fmt.Errorf("embed chunks %s: got %d vectors for %d chunks",
			doc.Source, len(br.Embeddings), len(chunks))
	}

	records := make([]domain.PassageRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.PassageRecord{
			ID:     fmt.Sprintf("%s:%d", doc.Source, i),
			Text:   chunk,
			Source: doc.Source,
			Lang:   doc.Lang,
			Vector: br.Embeddings[i],
		}
	}

	if err := s.repo.StorePassages(ctx, records); err != nil {
		return 0, 0, fmt.Errorf("store passages %s: %w", doc.Source, err)
	}
	return len(records), br.TotalTokens, nil
}

func contentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
