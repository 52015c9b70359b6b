package vectorstore

import (
	"sort"

	"academy-qabot/internal/model"
)

type candidate struct {
	chunk  model.Chunk
	vector []float32
}

// rankL2 returns the k candidates closest to query by squared L2 distance.
// Ties keep candidate order.
func rankL2(query []float32, candidates []candidate, k int) []model.Chunk {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		idx  int
		dist float32
	}
	scores := make([]scored, 0, len(candidates))
	for i, c := range candidates {
		if len(c.vector) != len(query) {
			continue
		}
		scores = append(scores, scored{idx: i, dist: squaredL2(query, c.vector)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]model.Chunk, k)
	for i := 0; i < k; i++ {
		out[i] = candidates[scores[i].idx].chunk
	}
	return out
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
