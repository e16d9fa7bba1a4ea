package retrieval

import (
	"math"
	"sort"

	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

// Merge combines independently obtained passage lists into one deduplicated,
// score-ordered list of at most limit entries. Entries with an empty id or a
// non-finite score are dropped. Duplicate ids keep the first occurrence
// unless a later one carries a strictly higher score, in which case the later
// entry replaces it in place; scores are never accumulated. Equal-score
// entries keep their first-seen relative order.
func Merge(lists [][]dretr.Passage, limit int) []dretr.Passage {
	pos := make(map[string]int)
	var merged []dretr.Passage
	for _, list := range lists {
		for i := range list {
			p := list[i]
			if p.ID() == "" {
				continue
			}
			if s := p.Score(); math.IsNaN(s) || math.IsInf(s, 0) {
				continue
			}
			if at, ok := pos[p.ID()]; ok {
				if p.Score() > merged[at].Score() {
					merged[at] = p
				}
				continue
			}
			pos[p.ID()] = len(merged)
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score() > merged[j].Score()
	})
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
