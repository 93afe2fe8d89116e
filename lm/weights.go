package lm

// InterpolationWeights enumerates every combination of n weights in steps of 0.1 that sums to one, in lexicographic
// order of the leading weights.
func InterpolationWeights(n int) [][]float64 {
	if n <= 0 {
		return nil
	}
	var combinations [][]float64
	for _, c := range tenths(n, 10, nil) {
		weights := make([]float64, len(c))
		for i, x := range c {
			weights[i] = float64(x) / 10
		}
		combinations = append(combinations, weights)
	}
	return combinations
}

// tenths works in integers so the combinations sum exactly to ten.
func tenths(n, remaining int, prefix []int) [][]int {
	if n == 1 {
		c := make([]int, len(prefix), len(prefix)+1)
		copy(c, prefix)
		return [][]int{append(c, remaining)}
	}
	var combinations [][]int
	for x := 0; x <= remaining; x++ {
		next := make([]int, len(prefix), len(prefix)+1)
		copy(next, prefix)
		combinations = append(combinations, tenths(n-1, remaining-x, append(next, x))...)
	}
	return combinations
}
