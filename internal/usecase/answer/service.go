// Package answer implements the grounded question answering pipeline:
// translate the query, retrieve passages for both variants concurrently,
// fuse the result lists, and generate an answer over the fused context.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/volna-cloud/kontext/internal/domain"
	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
	"github.com/volna-cloud/kontext/internal/logger"
	"github.com/volna-cloud/kontext/internal/metrics"
	"github.com/volna-cloud/kontext/internal/usecase/retrieval"
)

// Pipeline defaults.
const (
	// DefaultContexts is the number of fused passages handed to the generator.
	DefaultContexts = 4

	// DefaultMaxExcerptRunes caps a single excerpt in the prompt.
	DefaultMaxExcerptRunes = 1000
)

// Config carries the answer pipeline knobs.
type Config struct {
	// Contexts is the number of fused passages kept for the prompt.
	Contexts int

	// MaxExcerptRunes caps each excerpt's length in the prompt.
	MaxExcerptRunes int

	// TranslateTo is the language for the secondary query variant
	// ("English", "Kazakh", ...). Empty disables translation.
	TranslateTo string
}

// Source describes where one excerpt of the answer context came from.
type Source struct {
	Rank   int     `json:"rank"`
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
	Lang   string  `json:"lang,omitempty"`
}

// Result is a generated answer with its context provenance.
type Result struct {
	Answer  string
	Sources []Source
}

// Service runs the answer pipeline.
type Service struct {
	retriever       Retriever
	translator      Translator
	generator       Generator
	contexts        int
	maxExcerptRunes int
	translateTo     string
}

// NewService creates the answer service. translator may be nil to disable
// the cross-lingual second search.
func NewService(retriever Retriever, translator Translator, generator Generator, cfg Config) *Service {
	if cfg.Contexts <= 0 {
		cfg.Contexts = DefaultContexts
	}
	if cfg.MaxExcerptRunes <= 0 {
		cfg.MaxExcerptRunes = DefaultMaxExcerptRunes
	}
	return &Service{
		retriever:       retriever,
		translator:      translator,
		generator:       generator,
		contexts:        cfg.Contexts,
		maxExcerptRunes: cfg.MaxExcerptRunes,
		translateTo:     cfg.TranslateTo,
	}
}

// Answer retrieves context for the query (and its translation, when one is
// configured and differs from the original), fuses the result lists with the
// original query's list first, and generates a grounded answer.
// Returns domain.ErrNoContext when retrieval produced nothing usable.
func (s *Service) Answer(ctx context.Context, q dretr.Query) (Result, error) {
	queries := s.queryVariants(ctx, q)

	lists := make([][]dretr.Passage, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			passages, err := s.retriever.Search(gctx, query)
			if err != nil {
				return err
			}
			lists[i] = passages
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("retrieve context: %w", err)
	}

	fused := retrieval.Merge(lists, s.contexts)
	if len(fused) == 0 {
		return Result{}, fmt.Errorf("%w: query %q matched nothing", domain.ErrNoContext, q.Text())
	}

	system := buildSystemPrompt(fused, s.maxExcerptRunes)
	text, err := s.generator.Generate(ctx, system, q.Text())
	if err != nil {
		return Result{}, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]Source, len(fused))
	for i := range fused {
		p := &fused[i]
		sources[i] = Source{
			Rank:   i + 1,
			ID:     p.ID(),
			Score:  p.Score(),
			Source: p.Payload().Source(),
			Lang:   p.Payload().Lang(),
		}
	}

	return Result{Answer: text, Sources: sources}, nil
}

// queryVariants returns the original query, plus the translated variant when
// translation is configured, succeeds, and actually changes the text. The
// original is always first; fusion relies on that order.
func (s *Service) queryVariants(ctx context.Context, q dretr.Query) []dretr.Query {
	queries := []dretr.Query{q}
	if s.translator == nil || s.translateTo == "" {
		return queries
	}

	translated, err := s.translator.Translate(ctx, q.Text(), s.translateTo)
	if err != nil {
		metrics.TranslationFallbacksTotal.Inc()
		logger.FromContext(ctx).Warn("translation failed, using original query only",
			zap.String("target_lang", s.translateTo), zap.Error(err))
		return queries
	}

	translated = strings.TrimSpace(translated)
	if translated == "" || strings.EqualFold(translated, q.Text()) {
		return queries
	}
	return append(queries, q.WithText(translated))
}
