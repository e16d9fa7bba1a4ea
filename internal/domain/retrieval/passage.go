package retrieval

// Passage is a candidate stripped of its raw vector, after MMR selection.
// Slice order carries the ranking: in search output it is MMR selection order,
// in fused output it is score-descending order.
type Passage struct {
	id      string
	score   float64
	payload Payload
}

// NewPassage creates a passage.
func NewPassage(id string, score float64, payload Payload) Passage {
	return Passage{id: id, score: score, payload: payload}
}

// PassageFromCandidate strips the vector off a selected candidate.
func PassageFromCandidate(c *Candidate) Passage {
	return Passage{id: c.ID(), score: c.Score(), payload: c.Payload()}
}

// ID returns the record identifier.
func (p *Passage) ID() string { return p.id }

// Score returns the relevance score carried over from the index.
func (p *Passage) Score() float64 { return p.score }

// Payload returns the passage payload.
func (p *Passage) Payload() Payload { return p.payload }
