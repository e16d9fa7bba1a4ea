package domain

// KeyPrefix namespaces every key the service writes to Redis.
const KeyPrefix = "kontext:"

// Key layout under KeyPrefix.
const (
	// PassageKeyPrefix is the prefix of passage hash keys.
	PassageKeyPrefix = KeyPrefix + "passage:"
	// PassageIndexName is the FT index over passage hashes.
	PassageIndexName = KeyPrefix + "passages:idx"
	// EmbCacheKeyPrefix is the prefix of cached embedding keys.
	EmbCacheKeyPrefix = KeyPrefix + "emb_cache:"
	// DocHashKeyPrefix is the prefix of per-document content hash keys.
	DocHashKeyPrefix = KeyPrefix + "doc_hash:"
)

// Stored hash field names. The double underscore keeps them apart from
// user-supplied tag fields.
const (
	FieldText   = "__text"
	FieldSource = "__source"
	FieldLang   = "__lang"
	FieldVector = "__vector"
)

// PassageRecord is a chunked, embedded passage ready for storage.
type PassageRecord struct {
	ID     string
	Text   string
	Source string
	Lang   string
	Vector []float32
}
