package deck

import "math/rand"

// Shuffle permutes seq[start:] in place with a Fisher–Yates walk, leaving
// indices before start untouched. Every permutation of the sub-range is
// equally likely given an unbiased source. A nil rng uses the global one.
func Shuffle(seq []int, start int, rng *rand.Rand) {
	if start < 0 {
		start = 0
	}
	for i := len(seq) - 1; i > start; i-- {
		j := start + intn(rng, i-start+1)
		seq[i], seq[j] = seq[j], seq[i]
	}
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}
