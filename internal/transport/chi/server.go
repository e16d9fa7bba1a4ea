// Package chi is the HTTP transport: request decoding, routing, error
// mapping, and auth for the retrieval API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/volna-cloud/kontext/internal/domain"
	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
	"github.com/volna-cloud/kontext/internal/metrics"
	answeruc "github.com/volna-cloud/kontext/internal/usecase/answer"
	healthuc "github.com/volna-cloud/kontext/internal/usecase/health"
	ingestuc "github.com/volna-cloud/kontext/internal/usecase/ingest"
	retrievaluc "github.com/volna-cloud/kontext/internal/usecase/retrieval"
)

const maxIngestDocuments = 100

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeInvalidQuery     = "invalid_query"
	codeNoContext        = "no_context"
	codeEmbeddingError   = "embedding_provider_error"
	codeGenerationError  = "generation_provider_error"
	codeIndexUnavailable = "index_unavailable"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the retrieval pipeline over HTTP.
type Server struct {
	search        *retrievaluc.Service
	answer        *answeruc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	search *retrievaluc.Service,
	answer *answeruc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		answer: answer,
		ingest: ingest,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrNoContext, http.StatusNotFound, codeNoContext),
		sentinelHandler(domain.ErrEmbeddingFailure, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrGenerationFailure, http.StatusBadGateway, codeGenerationError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Routes mounts the API handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/answer", s.handleAnswer)
	r.Post("/api/v1/ingest", s.handleIngest)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type queryRequest struct {
	Query string   `json:"query"`
	Langs []string `json:"langs,omitempty"`
	TopK  int      `json:"top_k,omitempty"`
}

type searchResultItem struct {
	ID     string            `json:"id"`
	Score  float64           `json:"score"`
	Text   string            `json:"text"`
	Source string            `json:"source,omitempty"`
	Lang   string            `json:"lang,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := dretr.NewQuery(req.Query, req.Langs, req.TopK)
	if err != nil {
		s.handleDomainError(w, "search", err)
		return
	}

	start := time.Now()
	passages, err := s.search.Search(r.Context(), q)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("search", "error").Inc()
		s.handleDomainError(w, "search", err)
		return
	}
	metrics.RetrievalRequestsTotal.WithLabelValues("search", "success").Inc()
	metrics.RetrievalDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	metrics.RetrievalPassagesReturned.Observe(float64(len(passages)))

	items := make([]searchResultItem, len(passages))
	for i := range passages {
		items[i] = passageToItem(&passages[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

type answerResponse struct {
	Answer  string            `json:"answer"`
	Sources []answeruc.Source `json:"sources"`
}

// handleAnswer handles POST /api/v1/answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := dretr.NewQuery(req.Query, req.Langs, req.TopK)
	if err != nil {
		s.handleDomainError(w, "answer", err)
		return
	}

	start := time.Now()
	res, err := s.answer.Answer(r.Context(), q)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("answer", "error").Inc()
		s.handleDomainError(w, "answer", err)
		return
	}
	metrics.RetrievalRequestsTotal.WithLabelValues("answer", "success").Inc()
	metrics.RetrievalDuration.WithLabelValues("answer").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, answerResponse{Answer: res.Answer, Sources: res.Sources})
}

type ingestDocument struct {
	Source string `json:"source"`
	Lang   string `json:"lang,omitempty"`
	Text   string `json:"text"`
}

type ingestRequest struct {
	Documents []ingestDocument `json:"documents"`
}

type ingestResponse struct {
	Documents int `json:"documents"`
	Skipped   int `json:"skipped"`
	Passages  int `json:"passages"`
	Tokens    int `json:"tokens"`
}

// handleIngest handles POST /api/v1/ingest.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxIngestDocuments {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			"documents count must be between 1 and 100")
		return
	}

	docs := make([]ingestuc.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = ingestuc.Document{Source: d.Source, Lang: d.Lang, Text: d.Text}
	}

	report, err := s.ingest.Ingest(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, "ingest", err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Documents: report.Documents,
		Skipped:   report.Skipped,
		Passages:  report.Passages,
		Tokens:    report.Tokens,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func passageToItem(p *dretr.Passage) searchResultItem {
	return searchResultItem{
		ID:     p.ID(),
		Score:  p.Score(),
		Text:   p.Payload().Text(),
		Source: p.Payload().Source(),
		Lang:   p.Payload().Lang(),
		Tags:   p.Payload().Tags(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrNoContext,
		domain.ErrEmbeddingFailure,
		domain.ErrGenerationFailure,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, op string, err error) {
	s.logger.Warn("domain error", zap.String("op", op), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
