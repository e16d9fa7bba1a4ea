// Package retrieval holds the request-scoped value types of the retrieval core:
// candidates fetched from the vector index, passages selected for the caller,
// and the validated query that produced them.
package retrieval

// Payload is the stored document fragment attached to an index record.
type Payload struct {
	text   string
	source string
	lang   string
	tags   map[string]string
}

// NewPayload creates a passage payload. tags may be nil.
func NewPayload(text, source, lang string, tags map[string]string) Payload {
	return Payload{text: text, source: source, lang: lang, tags: tags}
}

// Text returns the passage text.
func (p Payload) Text() string { return p.text }

// Source returns the document origin (URL or file path).
func (p Payload) Source() string { return p.source }

// Lang returns the passage language code.
func (p Payload) Lang() string { return p.lang }

// Tags returns additional stored metadata.
func (p Payload) Tags() map[string]string { return p.tags }
