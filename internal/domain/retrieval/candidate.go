package retrieval

// Candidate is a single nearest-neighbor record returned by the vector index,
// before diversity re-ranking. Immutable once created; scoped to one search call.
type Candidate struct {
	id      string
	score   float64
	vector  []float32
	payload Payload
}

// NewCandidate creates a candidate record.
func NewCandidate(id string, score float64, vector []float32, payload Payload) Candidate {
	return Candidate{id: id, score: score, vector: vector, payload: payload}
}

// ID returns the opaque record identifier.
func (c *Candidate) ID() string { return c.id }

// Score returns the index's own relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Vector returns the stored embedding vector.
func (c *Candidate) Vector() []float32 { return c.vector }

// Payload returns the stored passage payload.
func (c *Candidate) Payload() Payload { return c.payload }

// Malformed reports whether the record lacks a usable id or vector.
// Malformed candidates are excluded from the MMR matrix, not fatal for the batch.
func (c *Candidate) Malformed() bool {
	return c.id == "" || len(c.vector) == 0
}
