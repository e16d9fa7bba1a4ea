package domain

import "errors"

var (
	// ErrEmbeddingFailure signals an embedding provider or transport failure.
	ErrEmbeddingFailure = errors.New("embedding failure")
	// ErrIndexUnavailable signals a vector index transport or backend failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrMalformedCandidate signals a candidate record lacking a usable id or vector.
	ErrMalformedCandidate = errors.New("malformed candidate")
	// ErrNoContext signals that retrieval produced no usable passages.
	ErrNoContext = errors.New("no context available")
	// ErrGenerationFailure signals a chat-completion provider failure.
	ErrGenerationFailure = errors.New("generation failure")
	// ErrInvalidQuery signals a query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
)
