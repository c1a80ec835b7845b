package deck

import (
	"math/rand"
	"testing"
)

func TestShuffle_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 20; n++ {
		seq := make([]int, n)
		for i := range seq {
			seq[i] = i
		}
		Shuffle(seq, 0, rng)
		seen := make(map[int]bool, n)
		for _, v := range seq {
			if v < 0 || v >= n || seen[v] {
				t.Fatalf("n=%d: not a permutation: %v", n, seq)
			}
			seen[v] = true
		}
	}
}

func TestShuffle_PrefixUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 100; trial++ {
		seq := []int{10, 11, 12, 13, 14, 15, 16, 17}
		Shuffle(seq, 3, rng)
		for i := 0; i < 3; i++ {
			if seq[i] != 10+i {
				t.Fatalf("prefix disturbed: %v", seq)
			}
		}
	}
}

func TestShuffle_NotFixed(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	moved := false
	for trial := 0; trial < 50 && !moved; trial++ {
		seq := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		Shuffle(seq, 0, rng)
		for i, v := range seq {
			if v != i {
				moved = true
				break
			}
		}
	}
	if !moved {
		t.Error("50 shuffles of 10 elements never changed the order")
	}
}

func TestShuffle_RoughlyUniform(t *testing.T) {
	// Position of element 0 after shuffling [0,1,2] should spread across
	// all three slots. Loose bounds; this is a sanity check, not a
	// statistical proof.
	rng := rand.New(rand.NewSource(4))
	counts := [3]int{}
	const trials = 3000
	for trial := 0; trial < trials; trial++ {
		seq := []int{0, 1, 2}
		Shuffle(seq, 0, rng)
		for pos, v := range seq {
			if v == 0 {
				counts[pos]++
			}
		}
	}
	for pos, c := range counts {
		if c < trials/6 || c > trials/2 {
			t.Errorf("element 0 landed at position %d %d/%d times", pos, c, trials)
		}
	}
}

func TestShuffle_DegenerateInputs(t *testing.T) {
	Shuffle(nil, 0, nil)
	Shuffle([]int{}, 0, nil)
	Shuffle([]int{1}, 0, nil)
	Shuffle([]int{1, 2}, 5, nil)
	Shuffle([]int{1, 2}, -3, nil)
}
