package searcher

import "sort"

// DefaultRRFConstant is the k in RRF's score(id) = sum 1/(k + rank); lower
// values weight top ranks more heavily. The reference Go hybrid searcher
// this is generalized from defaults k to 60; this implementation's default
// is 20, per the spec this core was built against.
const DefaultRRFConstant = 20.0

// fuseRanks applies Reciprocal Rank Fusion to vector and full-text rank
// lists. It returns chunk ids ordered by fused score descending, plus the
// score map so callers can stamp each hydrated result without recomputing.
func fuseRanks(vectorIDs, textIDs []int64, k float64) ([]int64, map[int64]float64) {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	scores := make(map[int64]float64)
	var order []int64
	seen := make(map[int64]bool)

	add := func(ids []int64) {
		for rank, id := range ids {
			scores[id] += 1.0 / (k + float64(rank+1))
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}
	add(vectorIDs)
	add(textIDs)

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order, scores
}
