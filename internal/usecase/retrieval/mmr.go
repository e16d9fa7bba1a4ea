package retrieval

// selectMMR greedily picks up to k row indices from the candidate matrix c,
// balancing relevance to the query vector q against redundancy with rows
// already picked. lambda=1 reduces to pure relevance ranking, lambda=0 to
// pure diversity. The returned indices are in selection order.
//
// All rows of c must have the same dimension as q. Ties resolve to the
// lowest index. Runs in O(k*n*dim) with no candidate-to-candidate
// similarity matrix held in memory.
func selectMMR(q []float32, c [][]float32, k int, lambda float64) []int {
	n := len(c)
	if n == 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	rel := make([]float32, n)
	for i, row := range c {
		rel[i] = dot(row, q)
	}

	best := 0
	for i := 1; i < n; i++ {
		if rel[i] > rel[best] {
			best = i
		}
	}

	selected := make([]int, 1, k)
	selected[0] = best
	picked := make([]bool, n)
	picked[best] = true

	// maxSim[j] tracks the similarity of candidate j to its closest
	// selected row so far; refreshed incrementally against the last pick.
	maxSim := make([]float32, n)
	seeded := make([]bool, n)

	lam := float32(lambda)
	last := best
	for len(selected) < k {
		next := -1
		var nextScore float32
		for j := 0; j < n; j++ {
			if picked[j] {
				continue
			}
			if sim := dot(c[j], c[last]); !seeded[j] || sim > maxSim[j] {
				maxSim[j] = sim
				seeded[j] = true
			}
			score := lam*rel[j] - (1-lam)*maxSim[j]
			if next == -1 || score > nextScore {
				nextScore = score
				next = j
			}
		}
		if next == -1 {
			break
		}
		selected = append(selected, next)
		picked[next] = true
		last = next
	}
	return selected
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
