package recommend

import "math/rand/v2"

// sampleWithoutReplacement returns k distinct elements of items, uniformly chosen, in
// random order. items is not modified. k >= len(items) returns a shuffled copy.
func sampleWithoutReplacement(r *rand.Rand, items []int, k int) []int {
	pool := make([]int, len(items))
	copy(pool, items)
	if k > len(pool) {
		k = len(pool)
	}
	// partial Fisher-Yates
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
